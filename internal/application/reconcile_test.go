package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestReconcile_AllResolved(t *testing.T) {
	batch := domain.NewPendingBatch([]string{"a", "b", "c"}, time.Second)
	// out of order
	batch.Resolve(domain.TopicResult{Topic: "c"})
	batch.Resolve(domain.TopicResult{Topic: "a", Err: &domain.TopicError{Name: "a", Reason: domain.ReasonAlreadyExists}})
	batch.Resolve(domain.TopicResult{Topic: "b"})

	results := Reconcile(context.Background(), batch)
	require.Len(t, results, 3)
	require.Equal(t, "a", results[0].Topic)
	require.Equal(t, "b", results[1].Topic)
	require.Equal(t, "c", results[2].Topic)

	var te *domain.TopicError
	require.ErrorAs(t, results[0].Err, &te)
	require.NoError(t, results[1].Err)
	require.NoError(t, results[2].Err)
}

func TestReconcile_TimeoutKeepsResolved(t *testing.T) {
	batch := domain.NewPendingBatch([]string{"a", "b"}, 50*time.Millisecond)
	batch.Resolve(domain.TopicResult{Topic: "a"})

	start := time.Now()
	results := Reconcile(context.Background(), batch)
	require.Less(t, time.Since(start), 5*time.Second)

	require.NoError(t, results[0].Err)

	var timeoutErr *domain.RequestTimeoutError
	require.ErrorAs(t, results[1].Err, &timeoutErr)
	require.Equal(t, []string{"b"}, timeoutErr.Topics)
	require.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
}

func TestReconcile_BatchFailure(t *testing.T) {
	boom := errors.New("connection reset")
	batch := domain.NewPendingBatch([]string{"a", "b"}, time.Second)
	batch.Resolve(domain.TopicResult{Topic: "a"})
	batch.Fail(boom)

	results := Reconcile(context.Background(), batch)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
}

func TestReconcile_DeadlineFailureIsTimeout(t *testing.T) {
	batch := domain.NewPendingBatch([]string{"a"}, time.Second)
	batch.Fail(context.DeadlineExceeded)

	results := Reconcile(context.Background(), batch)
	var timeoutErr *domain.RequestTimeoutError
	require.ErrorAs(t, results[0].Err, &timeoutErr)
	require.Equal(t, domain.ExitRequestTimeout, domain.ExitCode(results[0].Err))
}

func TestReconcile_Cancelled(t *testing.T) {
	batch := domain.NewPendingBatch([]string{"a"}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Reconcile(ctx, batch)
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestReconcile_IgnoresUnknownTopics(t *testing.T) {
	batch := domain.NewPendingBatch([]string{"a", "b"}, time.Second)
	batch.Resolve(domain.TopicResult{Topic: "zzz"})
	batch.Resolve(domain.TopicResult{Topic: "a"})

	done := make(chan []domain.TopicResult)
	go func() { done <- Reconcile(context.Background(), batch) }()

	// the buffer holds one slot per topic; the unknown result took one
	require.Eventually(t, func() bool {
		return batch.Resolve(domain.TopicResult{Topic: "b", Err: errors.New("late")})
	}, time.Second, 5*time.Millisecond)

	results := <-done
	require.NoError(t, results[0].Err)
	require.EqualError(t, results[1].Err, "late")
}

func TestReconcile_ValidateOnlyLogsValidated(t *testing.T) {
	logs := captureLog(t)

	batch := domain.NewPendingBatchFor(domain.AdminRequest{
		Items:        []domain.CreateTopicItem{{Name: "dry", NumPartitions: 1, ReplicationFactor: 1}},
		Timeout:      time.Second,
		ValidateOnly: true,
	})
	batch.Resolve(domain.TopicResult{Topic: "dry"})

	results := Reconcile(context.Background(), batch)
	require.NoError(t, results[0].Err)
	require.Contains(t, logs.String(), "topic validated")
	require.NotContains(t, logs.String(), "topic created")
}
