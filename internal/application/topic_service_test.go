package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateRequest(t *testing.T) {
	item := BuildCreateRequest(domain.TopicSpec{
		Name:              "foo",
		Partitions:        3,
		ReplicationFactor: 2,
		Configs:           map[string]*string{"retention.ms": lo.ToPtr("1000")},
	})
	require.Equal(t, "foo", item.Name)
	require.EqualValues(t, 3, item.NumPartitions)
	require.EqualValues(t, 2, item.ReplicationFactor)
	require.Equal(t, "1000", *item.Configs["retention.ms"])
}

func TestBuildAdminRequest(t *testing.T) {
	specs := []domain.TopicSpec{
		{Name: "a", Partitions: 1, ReplicationFactor: 1},
		{Name: "b", Partitions: 4, ReplicationFactor: 1},
	}
	req := BuildAdminRequest(specs, 2*time.Second, true)
	require.Equal(t, []string{"a", "b"}, req.TopicNames())
	require.EqualValues(t, 4, req.Items[1].NumPartitions)
	require.Equal(t, 2*time.Second, req.Timeout)
	require.True(t, req.ValidateOnly)

	require.Empty(t, BuildAdminRequest(nil, time.Second, false).Items)
}

func TestTopicService_CreateTopics(t *testing.T) {
	session := testutil.NewFakeSession()
	session.CreateErrs = map[string]error{
		"b": &domain.TopicError{Name: "b", Reason: domain.ReasonAlreadyExists},
	}
	defer session.Close()

	svc := NewTopicService(session)
	results := svc.CreateTopics(context.Background(), []domain.TopicSpec{
		{Name: "a", Partitions: 1, ReplicationFactor: 1},
		{Name: "b", Partitions: 1, ReplicationFactor: 1},
	}, time.Second, false)

	require.Equal(t, 1, session.RequestCount())
	require.Len(t, results, 2)
	require.True(t, results[0].OK())
	require.False(t, results[1].OK())
}

func TestTopicService_ListAndDelete(t *testing.T) {
	session := testutil.NewFakeSession()
	session.Topics = map[string]int{"t": 3}
	svc := NewTopicService(session)

	topics, err := svc.ListTopics(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 3, topics["t"])

	results, err := svc.DeleteTopics(context.Background(), []string{"t", "u"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, []string{"t", "u"}, session.Deleted)

	session.Err = errors.New("boom")
	_, err = svc.ListTopics(context.Background(), true)
	require.Error(t, err)
	_, err = svc.DeleteTopics(context.Background(), []string{"t"})
	require.Error(t, err)
}
