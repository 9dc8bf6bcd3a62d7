package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kslog"
)

// Session implements domain.AdminSession using franz-go.
type Session struct {
	client  *kgo.Client
	admin   *Admin
	config  config.ClusterConfig
	cluster *domain.Cluster

	closeOnce sync.Once
}

var _ domain.AdminSession = (*Session)(nil)

// Open connects to the cluster described by cfg and verifies it answers a
// metadata request within sessionTimeout. Every failure is a
// *domain.ConnectionError; nothing is retried here.
func Open(ctx context.Context, cfg config.ClusterConfig, sessionTimeout time.Duration) (*Session, error) {
	connErr := func(err error) error {
		return &domain.ConnectionError{Broker: cfg.Address(), Timeout: sessionTimeout, Err: err}
	}

	opts, err := clientOptions(cfg, sessionTimeout)
	if err != nil {
		return nil, connErr(err)
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, connErr(err)
	}

	s := &Session{
		client: client,
		admin:  NewAdmin(kadm.NewClient(client), client),
		config: cfg,
	}

	pctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()
	cluster, err := s.admin.Ping(pctx)
	if err != nil {
		s.Close()
		return nil, connErr(err)
	}
	s.cluster = cluster

	utils.Logger.Debug("admin session open",
		"broker", cfg.Address(),
		"auth", cfg.GetAuthType(),
		"cluster_id", cluster.ID,
		"controller", cluster.Controller,
		"brokers", len(cluster.Brokers),
	)
	return s, nil
}

func clientOptions(cfg config.ClusterConfig, sessionTimeout time.Duration) ([]kgo.Opt, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DialTimeout(sessionTimeout),
		kgo.WithLogger(kslog.New(utils.Slog())),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsCfg, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
		warnCertificateExpiry(cfg)
	}
	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		mech, err := buildSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.SASL(mech))
	}
	if cfg.AWS != nil && cfg.AWS.IAM {
		mech, err := buildAWSMechanism(cfg.AWS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.SASL(mech))
	}
	return opts, nil
}

func warnCertificateExpiry(cfg config.ClusterConfig) {
	info, err := cfg.GetCertificateInfo()
	if err != nil {
		utils.Logger.Warn("cannot inspect client certificate", "cluster", cfg.Name, "err", err)
		return
	}
	if info != nil && info.Status != "valid" {
		utils.Logger.Warn("client certificate expiring", "cluster", cfg.Name, "status", info.Status, "days", info.DaysToExpiry)
	}
}

// Cluster returns the metadata gathered while opening the session.
func (s *Session) Cluster() *domain.Cluster {
	return s.cluster
}

// SubmitCreateTopics sends req without waiting for the answer.
func (s *Session) SubmitCreateTopics(ctx context.Context, req domain.AdminRequest) *domain.PendingBatch {
	return s.admin.SubmitCreateTopics(ctx, req)
}

// ListTopics returns topics with partition counts.
func (s *Session) ListTopics(ctx context.Context, showInternal bool) (map[string]int, error) {
	return s.admin.ListTopics(ctx, showInternal)
}

// DeleteTopics deletes topics and reports the outcome per topic.
func (s *Session) DeleteTopics(ctx context.Context, names ...string) ([]domain.TopicResult, error) {
	return s.admin.DeleteTopics(ctx, names...)
}

// Close abandons in-flight requests and releases the client. It waits for
// submitted batches to settle and is safe to call more than once.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.client != nil {
			s.client.Close()
		}
		s.admin.wait()
	})
}
