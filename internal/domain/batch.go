package domain

import (
	"sync"
	"time"
)

// PendingBatch is the handle for a submitted AdminRequest. The session posts
// per-topic results as the broker answers, in whatever order it answers; the
// reconciler consumes them. Posting never blocks.
type PendingBatch struct {
	topics       []string
	timeout      time.Duration
	validateOnly bool

	results chan TopicResult
	failed  chan error
	once    sync.Once
}

// NewPendingBatch creates a handle expecting one result per topic.
func NewPendingBatch(topics []string, timeout time.Duration) *PendingBatch {
	return &PendingBatch{
		topics:  append([]string(nil), topics...),
		timeout: timeout,
		results: make(chan TopicResult, len(topics)),
		failed:  make(chan error, 1),
	}
}

// NewPendingBatchFor creates the handle for req.
func NewPendingBatchFor(req AdminRequest) *PendingBatch {
	b := NewPendingBatch(req.TopicNames(), req.Timeout)
	b.validateOnly = req.ValidateOnly
	return b
}

// Topics returns the submitted topic names in submission order.
func (b *PendingBatch) Topics() []string { return b.topics }

// Timeout is how long the reconciler waits for the batch.
func (b *PendingBatch) Timeout() time.Duration { return b.timeout }

// ValidateOnly reports whether the broker was asked to validate without
// creating anything.
func (b *PendingBatch) ValidateOnly() bool { return b.validateOnly }

// Results delivers per-topic outcomes.
func (b *PendingBatch) Results() <-chan TopicResult { return b.results }

// Failed delivers at most one batch-level error, after which no further
// results arrive.
func (b *PendingBatch) Failed() <-chan error { return b.failed }

// Resolve posts the outcome for one topic. Results beyond the expected count
// are dropped.
func (b *PendingBatch) Resolve(r TopicResult) bool {
	select {
	case b.results <- r:
		return true
	default:
		return false
	}
}

// Fail posts a batch-level error. Only the first call has an effect.
func (b *PendingBatch) Fail(err error) {
	b.once.Do(func() {
		b.failed <- err
	})
}
