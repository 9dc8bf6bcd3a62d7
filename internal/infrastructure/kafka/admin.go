package kafka

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/samber/lo"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// Admin issues administrative requests. Metadata, listing and deletion go
// through kadm; topic creation is built with kmsg so every topic of a batch
// keeps its own partition count in a single request.
type Admin struct {
	client    *kadm.Client
	requestor kmsg.Requestor

	inflight sync.WaitGroup
}

// NewAdmin creates a new Admin
func NewAdmin(client *kadm.Client, requestor kmsg.Requestor) *Admin {
	return &Admin{client: client, requestor: requestor}
}

// Ping fetches broker metadata; it doubles as the session health check.
func (a *Admin) Ping(ctx context.Context) (*domain.Cluster, error) {
	meta, err := a.client.BrokerMetadata(ctx)
	if err != nil {
		return nil, err
	}

	brokers := make([]domain.BrokerDetail, 0, len(meta.Brokers))
	for _, b := range meta.Brokers {
		rack := ""
		if b.Rack != nil {
			rack = *b.Rack
		}
		brokers = append(brokers, domain.BrokerDetail{
			ID:   b.NodeID,
			Host: b.Host,
			Port: b.Port,
			Rack: rack,
		})
	}

	return &domain.Cluster{
		ID:         meta.Cluster,
		Controller: meta.Controller,
		Brokers:    brokers,
	}, nil
}

// SubmitCreateTopics sends one CreateTopics request for the whole batch on a
// separate goroutine and returns the pending handle right away.
func (a *Admin) SubmitCreateTopics(ctx context.Context, req domain.AdminRequest) *domain.PendingBatch {
	batch := domain.NewPendingBatchFor(req)
	kreq := buildCreateTopicsRequest(req)
	utils.Logger.Debug("sending create topics request",
		"topics", len(kreq.Topics),
		"timeout_ms", kreq.TimeoutMillis,
		"validate_only", kreq.ValidateOnly,
	)

	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()

		rctx, cancel := context.WithTimeout(ctx, req.Timeout)
		defer cancel()

		resp, err := kreq.RequestWith(rctx, a.requestor)
		if err != nil {
			batch.Fail(err)
			return
		}
		for _, r := range createTopicResults(req.TopicNames(), req.Timeout, resp) {
			batch.Resolve(r)
		}
	}()

	return batch
}

func (a *Admin) wait() {
	a.inflight.Wait()
}

func buildCreateTopicsRequest(req domain.AdminRequest) *kmsg.CreateTopicsRequest {
	kreq := kmsg.NewPtrCreateTopicsRequest()
	kreq.TimeoutMillis = int32(req.Timeout.Milliseconds())
	kreq.ValidateOnly = req.ValidateOnly

	for _, item := range req.Items {
		t := kmsg.NewCreateTopicsRequestTopic()
		t.Topic = item.Name
		t.NumPartitions = item.NumPartitions
		t.ReplicationFactor = item.ReplicationFactor
		for _, k := range sortedKeys(item.Configs) {
			c := kmsg.NewCreateTopicsRequestTopicConfig()
			c.Name = k
			c.Value = item.Configs[k]
			t.Configs = append(t.Configs, c)
		}
		kreq.Topics = append(kreq.Topics, t)
	}
	return kreq
}

// createTopicResults maps the broker response to one result per submitted
// topic, in the order the broker answered. Topics the broker answered for but
// that were not submitted are ignored; submitted topics it left out are
// reported as failures. A broker-side REQUEST_TIMED_OUT is reported the same
// way as the client running out of time.
func createTopicResults(submitted []string, timeout time.Duration, resp *kmsg.CreateTopicsResponse) []domain.TopicResult {
	out := make([]domain.TopicResult, 0, len(submitted))
	seen := make(map[string]struct{}, len(submitted))

	for _, t := range resp.Topics {
		if _, dup := seen[t.Topic]; dup || !slices.Contains(submitted, t.Topic) {
			continue
		}
		seen[t.Topic] = struct{}{}
		r := domain.TopicResult{Topic: t.Topic}
		switch err := kerr.ErrorForCode(t.ErrorCode); {
		case err == nil:
		case errors.Is(err, kerr.RequestTimedOut):
			r.Err = &domain.RequestTimeoutError{Timeout: timeout, Topics: []string{t.Topic}}
		default:
			r.Err = &domain.TopicError{
				Name:    t.Topic,
				Reason:  classify(err),
				Message: lo.FromPtr(t.ErrorMessage),
				Err:     err,
			}
		}
		out = append(out, r)
	}

	for _, name := range submitted {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, domain.TopicResult{
			Topic: name,
			Err: &domain.TopicError{
				Name:    name,
				Reason:  domain.ReasonBroker,
				Message: "topic missing from broker response",
			},
		})
	}
	return out
}

// ListTopics returns topics as a simplified map name->partitions
func (a *Admin) ListTopics(ctx context.Context, showInternal bool) (map[string]int, error) {
	var m kadm.TopicDetails
	var err error

	if showInternal {
		m, err = a.client.ListTopicsWithInternal(ctx)
	} else {
		m, err = a.client.ListTopics(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(m))
	for name, info := range m {
		out[name] = len(info.Partitions)
	}
	return out, nil
}

// DeleteTopics deletes topics and maps every per-topic error.
func (a *Admin) DeleteTopics(ctx context.Context, names ...string) ([]domain.TopicResult, error) {
	resp, err := a.client.DeleteTopics(ctx, names...)
	if err != nil {
		return nil, err
	}
	return deleteTopicResults(names, resp), nil
}

func deleteTopicResults(names []string, resp kadm.DeleteTopicResponses) []domain.TopicResult {
	out := make([]domain.TopicResult, 0, len(names))
	for _, name := range names {
		r := domain.TopicResult{Topic: name}
		dr, ok := resp[name]
		switch {
		case !ok:
			r.Err = &domain.TopicError{Name: name, Reason: domain.ReasonBroker, Message: "topic missing from broker response"}
		case dr.Err != nil:
			r.Err = &domain.TopicError{Name: name, Reason: classify(dr.Err), Err: dr.Err}
		}
		out = append(out, r)
	}
	return out
}

// classify maps a broker error code to the reason shown to the user.
func classify(err error) domain.TopicErrorReason {
	var kErr *kerr.Error
	if !errors.As(err, &kErr) {
		return domain.ReasonBroker
	}
	switch kErr {
	case kerr.TopicAlreadyExists:
		return domain.ReasonAlreadyExists
	case kerr.UnknownTopicOrPartition:
		return domain.ReasonUnknownTopic
	case kerr.InvalidTopicException:
		return domain.ReasonInvalidTopic
	case kerr.InvalidPartitions:
		return domain.ReasonInvalidPartitions
	case kerr.InvalidReplicationFactor, kerr.InvalidReplicaAssignment:
		return domain.ReasonInvalidReplicationFactor
	case kerr.InvalidConfig:
		return domain.ReasonInvalidConfig
	case kerr.PolicyViolation:
		return domain.ReasonPolicyViolation
	case kerr.TopicAuthorizationFailed, kerr.ClusterAuthorizationFailed:
		return domain.ReasonUnauthorized
	case kerr.RequestTimedOut:
		return domain.ReasonTimeout
	}
	return domain.ReasonBroker
}

func sortedKeys(m map[string]*string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
