package kafka

import (
	"context"
	"time"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
)

// Factory opens admin sessions from configuration.
type Factory struct{}

// NewFactory creates a new session factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open opens an admin session for cfg.
func (f *Factory) Open(ctx context.Context, cfg config.ClusterConfig, sessionTimeout time.Duration) (domain.AdminSession, error) {
	s, err := Open(ctx, cfg, sessionTimeout)
	if err != nil {
		return nil, err
	}
	return s, nil
}
