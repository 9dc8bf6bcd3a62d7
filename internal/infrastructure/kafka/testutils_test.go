package kafka

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// IntegrationEnv enables the tests that start a Kafka container.
const IntegrationEnv = "KAFKAMAN_INTEGRATION"

type kafkaContainer struct {
	*kafka.KafkaContainer
	Brokers []string
}

func setupKafka(ctx context.Context) (*kafkaContainer, error) {
	container, err := kafka.Run(ctx,
		"confluentinc/cp-kafka:7.4.0",
		kafka.WithClusterID("kafkaman-test"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	brokers, err := container.Brokers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get brokers: %w", err)
	}

	return &kafkaContainer{
		KafkaContainer: container,
		Brokers:        brokers,
	}, nil
}

func getTestBrokers(t *testing.T) []string {
	t.Helper()
	if os.Getenv(IntegrationEnv) != "1" {
		t.Skipf("set %s=1 to run against a Kafka container", IntegrationEnv)
	}

	ctx := context.Background()
	container, err := setupKafka(ctx)
	if err != nil {
		t.Fatalf("failed to setup kafka: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	return container.Brokers
}
