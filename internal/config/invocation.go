package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/samber/lo"
)

const (
	DefaultBroker         = "localhost:9092"
	DefaultSessionTimeout = 6 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultPartitions     = "1"
)

// Operation is the subcommand selected for one invocation.
type Operation string

const (
	OpCreateTopic Operation = "create-topic"
	OpDeleteTopic Operation = "delete-topic"
	OpListTopics  Operation = "list-topics"
	OpEcho        Operation = "echo"
	OpProduce     Operation = "produce"
)

// GlobalOptions carries the raw values of the flags shared by every command.
type GlobalOptions struct {
	Broker         string
	BrokerSet      bool
	Cluster        string
	ConfigPath     string
	SessionTimeout string
	RequestTimeout string
}

// Invocation is a validated command line. It is built once and consumed by the
// dispatcher.
type Invocation struct {
	Operation      Operation
	Cluster        ClusterConfig
	SessionTimeout time.Duration
	RequestTimeout time.Duration

	// create-topic
	Topics []domain.TopicSpec
	DryRun bool

	// delete-topic, echo
	Names []string

	// list-topics
	ListInternal bool
}

// NewCreateTopic validates a create-topic command line. partitions and
// replicationFactor are the raw flag values; the replication factor has no
// default.
func NewCreateTopic(g GlobalOptions, names []string, partitions, replicationFactor string, topicConfigs map[string]string, dryRun bool) (*Invocation, error) {
	inv, err := newInvocation(OpCreateTopic, g)
	if err != nil {
		return nil, err
	}
	if err := validateNames(names); err != nil {
		return nil, err
	}

	if strings.TrimSpace(partitions) == "" {
		partitions = DefaultPartitions
	}
	p, err := parsePositive("partitions", partitions, 32)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(replicationFactor) == "" {
		return nil, &domain.ConfigError{Field: "replication-factor", Reason: "is required"}
	}
	rf, err := parsePositive("replication-factor", replicationFactor, 16)
	if err != nil {
		return nil, err
	}

	var configs map[string]*string
	if len(topicConfigs) > 0 {
		configs = make(map[string]*string, len(topicConfigs))
		for k, v := range topicConfigs {
			if strings.TrimSpace(k) == "" {
				return nil, &domain.ConfigError{Field: "topic-config", Value: k + "=" + v, Reason: "empty key"}
			}
			configs[k] = lo.ToPtr(v)
		}
	}

	inv.Topics = lo.Map(names, func(n string, _ int) domain.TopicSpec {
		return domain.TopicSpec{
			Name:              n,
			Partitions:        int32(p),
			ReplicationFactor: int16(rf),
			Configs:           configs,
		}
	})
	inv.DryRun = dryRun
	return inv, nil
}

// NewDeleteTopic validates a delete-topic command line.
func NewDeleteTopic(g GlobalOptions, names []string) (*Invocation, error) {
	inv, err := newInvocation(OpDeleteTopic, g)
	if err != nil {
		return nil, err
	}
	if err := validateNames(names); err != nil {
		return nil, err
	}
	inv.Names = names
	return inv, nil
}

// NewListTopics validates a list-topics command line.
func NewListTopics(g GlobalOptions, internal bool) (*Invocation, error) {
	inv, err := newInvocation(OpListTopics, g)
	if err != nil {
		return nil, err
	}
	inv.ListInternal = internal
	return inv, nil
}

// NewEcho validates an echo command line.
func NewEcho(g GlobalOptions, topic string) (*Invocation, error) {
	inv, err := newInvocation(OpEcho, g)
	if err != nil {
		return nil, err
	}
	if err := validateNames([]string{topic}); err != nil {
		return nil, err
	}
	inv.Names = []string{topic}
	return inv, nil
}

// NewProduce validates a produce command line.
func NewProduce(g GlobalOptions) (*Invocation, error) {
	return newInvocation(OpProduce, g)
}

func newInvocation(op Operation, g GlobalOptions) (*Invocation, error) {
	cluster, err := resolveCluster(g)
	if err != nil {
		return nil, err
	}

	sessionTimeout, err := resolveTimeout("session-timeout", g.SessionTimeout, cluster.SessionTimeout, DefaultSessionTimeout)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := resolveTimeout("request-timeout", g.RequestTimeout, cluster.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	return &Invocation{
		Operation:      op,
		Cluster:        cluster,
		SessionTimeout: sessionTimeout,
		RequestTimeout: requestTimeout,
	}, nil
}

// resolveCluster merges the optional profile with the --broker flag. The flag
// wins over the profile's brokers when it was set explicitly.
func resolveCluster(g GlobalOptions) (ClusterConfig, error) {
	var cluster ClusterConfig

	if g.Cluster != "" {
		if g.ConfigPath == "" {
			return cluster, &domain.ConfigError{Field: "cluster", Value: g.Cluster, Reason: "no profile file found"}
		}
		file, err := ReadConfig(g.ConfigPath)
		if err != nil {
			return cluster, &domain.ConfigError{Field: "config", Value: g.ConfigPath, Reason: "cannot read profile file", Err: err}
		}
		c, ok := file.FindCluster(g.Cluster)
		if !ok {
			return cluster, &domain.ConfigError{Field: "cluster", Value: g.Cluster, Reason: "no such profile"}
		}
		cluster = c
	}

	if g.BrokerSet || len(cluster.Brokers) == 0 {
		broker := g.Broker
		if !g.BrokerSet && strings.TrimSpace(broker) == "" {
			broker = DefaultBroker
		}
		brokers := lo.Compact(lo.Map(strings.Split(broker, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
		if len(brokers) == 0 {
			return cluster, &domain.ConfigError{Field: "broker", Value: g.Broker, Reason: "empty broker address"}
		}
		cluster.Brokers = brokers
	}

	if cluster.Name == "" {
		cluster.Name = cluster.Address()
	}
	if cluster.ClientID == "" {
		cluster.ClientID = "kafkaman"
	}
	return cluster, nil
}

func resolveTimeout(field, raw string, profile, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		if profile > 0 {
			return profile, nil
		}
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, &domain.ConfigError{Field: field, Value: raw, Reason: "not a duration", Err: err}
	}
	if d <= 0 {
		return 0, &domain.ConfigError{Field: field, Value: raw, Reason: "must be positive"}
	}
	return d, nil
}

func parsePositive(field, raw string, bitSize int) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, bitSize)
	if err != nil {
		return 0, &domain.ConfigError{Field: field, Value: raw, Reason: "not a number", Err: err}
	}
	if n < 1 {
		return 0, &domain.ConfigError{Field: field, Value: raw, Reason: "must be at least 1"}
	}
	return n, nil
}

func validateNames(names []string) error {
	if len(names) == 0 {
		return &domain.ConfigError{Field: "name", Reason: "at least one topic name is required"}
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return &domain.ConfigError{Field: "name", Value: n, Reason: "empty topic name"}
		}
	}
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return &domain.ConfigError{Field: "name", Value: strings.Join(dups, ","), Reason: "duplicate topic name"}
	}
	return nil
}
