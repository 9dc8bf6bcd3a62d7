package application

import (
	"context"
	"errors"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/samber/lo"
)

// Reconcile waits for the outcome of every topic in batch. It returns when all
// topics are resolved, when the batch fails, or when the batch timeout or ctx
// expires. Topics still unresolved then get a RequestTimeoutError (or the
// batch error); topics already resolved keep their outcome. Results come back
// in submission order.
func Reconcile(ctx context.Context, batch *domain.PendingBatch) []domain.TopicResult {
	topics := batch.Topics()
	got := make(map[string]domain.TopicResult, len(topics))

	timer := time.NewTimer(batch.Timeout())
	defer timer.Stop()

	var pendingErr error
wait:
	for len(got) < len(topics) {
		select {
		case r := <-batch.Results():
			utils.Trace("create topic result", "topic", r.Topic, "err", r.Err)
			if _, dup := got[r.Topic]; dup || !lo.Contains(topics, r.Topic) {
				continue
			}
			got[r.Topic] = r
		case err := <-batch.Failed():
			// Results posted before the failure still count.
			drainResolved(batch, topics, got)
			if errors.Is(err, context.DeadlineExceeded) {
				err = nil
			}
			pendingErr = err
			break wait
		case <-timer.C:
			drainResolved(batch, topics, got)
			break wait
		case <-ctx.Done():
			drainResolved(batch, topics, got)
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				pendingErr = ctx.Err()
			}
			break wait
		}
	}

	unresolved := lo.Filter(topics, func(t string, _ int) bool {
		_, ok := got[t]
		return !ok
	})
	if len(unresolved) > 0 {
		if pendingErr == nil {
			pendingErr = &domain.RequestTimeoutError{Timeout: batch.Timeout(), Topics: unresolved}
		}
		for _, t := range unresolved {
			got[t] = domain.TopicResult{Topic: t, Err: pendingErr}
		}
	}

	success := "topic created"
	if batch.ValidateOnly() {
		success = "topic validated"
	}
	results := make([]domain.TopicResult, len(topics))
	for i, t := range topics {
		r := got[t]
		if r.Err != nil {
			utils.Logger.Error("create topic failed", "topic", t, "err", r.Err)
		} else {
			utils.Logger.Info(success, "topic", t)
		}
		results[i] = r
	}
	return results
}

func drainResolved(batch *domain.PendingBatch, topics []string, got map[string]domain.TopicResult) {
	for {
		select {
		case r := <-batch.Results():
			utils.Trace("create topic result", "topic", r.Topic, "err", r.Err)
			if _, dup := got[r.Topic]; !dup && lo.Contains(topics, r.Topic) {
				got[r.Topic] = r
			}
		default:
			return
		}
	}
}
