package application

import (
	"context"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/samber/lo"
)

// SessionFactory opens admin sessions. The kafka infrastructure package
// provides the real one.
type SessionFactory interface {
	Open(ctx context.Context, cfg config.ClusterConfig, sessionTimeout time.Duration) (domain.AdminSession, error)
}

// BuildCreateRequest turns a validated spec into a broker-facing item. Every
// partition gets the same replication factor; assignment is left to the
// broker.
func BuildCreateRequest(spec domain.TopicSpec) domain.CreateTopicItem {
	utils.Logger.Debug("create topic request",
		"topic", spec.Name,
		"partitions", spec.Partitions,
		"replication_factor", spec.ReplicationFactor,
		"configs", len(spec.Configs),
	)
	return domain.CreateTopicItem{
		Name:              spec.Name,
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
		Configs:           spec.Configs,
	}
}

// BuildAdminRequest groups specs into one batch.
func BuildAdminRequest(specs []domain.TopicSpec, timeout time.Duration, validateOnly bool) domain.AdminRequest {
	return domain.AdminRequest{
		Items: lo.Map(specs, func(s domain.TopicSpec, _ int) domain.CreateTopicItem {
			return BuildCreateRequest(s)
		}),
		Timeout:      timeout,
		ValidateOnly: validateOnly,
	}
}

// TopicService runs topic operations against one open session.
type TopicService struct {
	session domain.AdminSession
}

// NewTopicService creates a new topic service.
func NewTopicService(session domain.AdminSession) *TopicService {
	return &TopicService{session: session}
}

// SubmitCreateTopics sends every spec in a single request without waiting
// for the answer. Pass the returned batch to Reconcile.
func (s *TopicService) SubmitCreateTopics(ctx context.Context, specs []domain.TopicSpec, timeout time.Duration, validateOnly bool) *domain.PendingBatch {
	req := BuildAdminRequest(specs, timeout, validateOnly)
	batch := s.session.SubmitCreateTopics(ctx, req)
	utils.Logger.Debug("create topics submitted", "topics", len(req.Items), "validate_only", validateOnly)
	return batch
}

// CreateTopics submits specs and waits for the outcome of each.
func (s *TopicService) CreateTopics(ctx context.Context, specs []domain.TopicSpec, timeout time.Duration, validateOnly bool) []domain.TopicResult {
	return Reconcile(ctx, s.SubmitCreateTopics(ctx, specs, timeout, validateOnly))
}

// ListTopics retrieves all topics with their partition counts.
func (s *TopicService) ListTopics(ctx context.Context, showInternal bool) (map[string]int, error) {
	topics, err := s.session.ListTopics(ctx, showInternal)
	if err != nil {
		utils.Logger.Error("list topics failed", "err", err)
		return nil, err
	}
	return topics, nil
}

// DeleteTopics removes topics and logs the outcome of each.
func (s *TopicService) DeleteTopics(ctx context.Context, names []string) ([]domain.TopicResult, error) {
	results, err := s.session.DeleteTopics(ctx, names...)
	if err != nil {
		utils.Logger.Error("delete topics failed", "topics", names, "err", err)
		return nil, err
	}
	for _, r := range results {
		if r.Err != nil {
			utils.Logger.Error("delete topic failed", "topic", r.Topic, "err", r.Err)
			continue
		}
		utils.Logger.Info("topic deleted", "topic", r.Topic)
	}
	return results, nil
}
