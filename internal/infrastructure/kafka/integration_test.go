package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, batch *domain.PendingBatch) map[string]error {
	t.Helper()
	got := map[string]error{}
	timer := time.NewTimer(batch.Timeout() + 5*time.Second)
	defer timer.Stop()
	for len(got) < len(batch.Topics()) {
		select {
		case r := <-batch.Results():
			got[r.Topic] = r.Err
		case err := <-batch.Failed():
			t.Fatalf("batch failed: %v", err)
		case <-timer.C:
			t.Fatalf("batch did not resolve, got %v", got)
		}
	}
	return got
}

func TestSession_TopicLifecycle(t *testing.T) {
	brokers := getTestBrokers(t)
	utils.InitLogger()
	ctx := context.Background()

	s, err := Open(ctx, config.ClusterConfig{Brokers: brokers, ClientID: "kafkaman-test"}, 10*time.Second)
	require.NoError(t, err)
	defer s.Close()
	require.NotNil(t, s.Cluster())
	require.NotEmpty(t, s.Cluster().Brokers)

	req := domain.AdminRequest{
		Items: []domain.CreateTopicItem{
			{Name: "foo", NumPartitions: 3, ReplicationFactor: 1},
			{Name: "bar", NumPartitions: 1, ReplicationFactor: 1},
		},
		Timeout: 10 * time.Second,
	}
	got := drain(t, s.SubmitCreateTopics(ctx, req))
	require.NoError(t, got["foo"])
	require.NoError(t, got["bar"])

	topics, err := s.ListTopics(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 3, topics["foo"])
	require.Equal(t, 1, topics["bar"])

	t.Run("duplicate is reported per topic", func(t *testing.T) {
		got := drain(t, s.SubmitCreateTopics(ctx, domain.AdminRequest{
			Items: []domain.CreateTopicItem{
				{Name: "foo", NumPartitions: 1, ReplicationFactor: 1},
				{Name: "baz", NumPartitions: 1, ReplicationFactor: 1},
			},
			Timeout: 10 * time.Second,
		}))
		var te *domain.TopicError
		require.ErrorAs(t, got["foo"], &te)
		require.Equal(t, domain.ReasonAlreadyExists, te.Reason)
		require.NoError(t, got["baz"])
	})

	t.Run("replication factor above broker count", func(t *testing.T) {
		got := drain(t, s.SubmitCreateTopics(ctx, domain.AdminRequest{
			Items:   []domain.CreateTopicItem{{Name: "wide", NumPartitions: 1, ReplicationFactor: 3}},
			Timeout: 10 * time.Second,
		}))
		var te *domain.TopicError
		require.ErrorAs(t, got["wide"], &te)
		require.Equal(t, domain.ReasonInvalidReplicationFactor, te.Reason)
	})

	t.Run("validate only creates nothing", func(t *testing.T) {
		got := drain(t, s.SubmitCreateTopics(ctx, domain.AdminRequest{
			Items:        []domain.CreateTopicItem{{Name: "dry", NumPartitions: 1, ReplicationFactor: 1}},
			Timeout:      10 * time.Second,
			ValidateOnly: true,
		}))
		require.NoError(t, got["dry"])

		topics, err := s.ListTopics(ctx, false)
		require.NoError(t, err)
		require.NotContains(t, topics, "dry")
	})

	t.Run("delete", func(t *testing.T) {
		results, err := s.DeleteTopics(ctx, "bar", "missing")
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.NoError(t, results[0].Err)
		var te *domain.TopicError
		require.ErrorAs(t, results[1].Err, &te)
		require.Equal(t, domain.ReasonUnknownTopic, te.Reason)
	})
}
