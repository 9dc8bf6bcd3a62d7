package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
)

// FakeSession is a test double implementing domain.AdminSession with
// configurable responses.
type FakeSession struct {
	ClusterInfo *domain.Cluster
	Topics      map[string]int
	Err         error

	// CreateErrs maps a topic name to the error it resolves with. Topics not
	// present succeed.
	CreateErrs map[string]error
	// Silent topics are never resolved.
	Silent map[string]bool
	// BatchErr fails the whole batch instead of resolving topics.
	BatchErr error
	// Delay postpones every resolution.
	Delay time.Duration
	// Reverse resolves topics in reverse submission order.
	Reverse bool

	DeleteResults []domain.TopicResult

	mu        sync.Mutex
	Requests  []domain.AdminRequest
	Deleted   []string
	submitted sync.WaitGroup
	closed    atomic.Int32
	stop      chan struct{}
	stopOnce  sync.Once
}

var _ domain.AdminSession = (*FakeSession)(nil)

func NewFakeSession() *FakeSession {
	return &FakeSession{
		ClusterInfo: &domain.Cluster{ID: "fake", Brokers: []domain.BrokerDetail{{ID: 1, Host: "localhost", Port: 9092}}},
		Topics:      map[string]int{},
		stop:        make(chan struct{}),
	}
}

func (f *FakeSession) Cluster() *domain.Cluster { return f.ClusterInfo }

func (f *FakeSession) SubmitCreateTopics(ctx context.Context, req domain.AdminRequest) *domain.PendingBatch {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	f.mu.Unlock()

	batch := domain.NewPendingBatchFor(req)
	names := req.TopicNames()
	if f.Reverse {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	f.submitted.Add(1)
	go func() {
		defer f.submitted.Done()
		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-ctx.Done():
				batch.Fail(ctx.Err())
				return
			case <-f.stop:
				batch.Fail(context.Canceled)
				return
			}
		}
		if f.BatchErr != nil {
			batch.Fail(f.BatchErr)
			return
		}
		for _, n := range names {
			if f.Silent[n] {
				continue
			}
			batch.Resolve(domain.TopicResult{Topic: n, Err: f.CreateErrs[n]})
		}
	}()
	return batch
}

func (f *FakeSession) ListTopics(_ context.Context, _ bool) (map[string]int, error) {
	return f.Topics, f.Err
}

func (f *FakeSession) DeleteTopics(_ context.Context, names ...string) ([]domain.TopicResult, error) {
	f.mu.Lock()
	f.Deleted = append(f.Deleted, names...)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if f.DeleteResults != nil {
		return f.DeleteResults, nil
	}
	out := make([]domain.TopicResult, len(names))
	for i, n := range names {
		out[i] = domain.TopicResult{Topic: n}
	}
	return out, nil
}

// Close abandons pending batches and waits for them like the real session
// does.
func (f *FakeSession) Close() {
	f.closed.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	f.submitted.Wait()
}

// Closed reports how many times Close was called.
func (f *FakeSession) Closed() int { return int(f.closed.Load()) }

// RequestCount reports how many batches were submitted.
func (f *FakeSession) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// FakeFactory returns Session for any config.
type FakeFactory struct {
	Session *FakeSession
	Err     error

	mu      sync.Mutex
	Opened  int
	LastCfg config.ClusterConfig
}

func (f *FakeFactory) Open(_ context.Context, cfg config.ClusterConfig, sessionTimeout time.Duration) (domain.AdminSession, error) {
	f.mu.Lock()
	f.Opened++
	f.LastCfg = cfg
	f.mu.Unlock()

	if f.Err != nil {
		return nil, &domain.ConnectionError{Broker: cfg.Address(), Timeout: sessionTimeout, Err: f.Err}
	}
	if f.Session == nil {
		f.Session = NewFakeSession()
	}
	return f.Session, nil
}

// OpenCount reports how many sessions were requested.
func (f *FakeFactory) OpenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Opened
}
