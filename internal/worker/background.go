package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/service"
)

// Background owns the work that runs outside request handling: the
// notification subscribers and the checkout pool.
type Background struct {
	Checkouts *Pool
	logger    *zap.Logger
}

// Start subscribes notifications and opens the checkout pool.
func Start(cfg config.FlowConfig, notifications *service.NotificationService, logger *zap.Logger) *Background {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	b := &Background{
		Checkouts: NewPool("checkout", cfg.CheckoutWorkers, logger),
		logger:    logger,
	}
	logger.Info("background workers started",
		zap.Bool("notifications", notifications != nil),
		zap.Int("checkout_workers", cap(b.Checkouts.slots)))
	return b
}

// Stop drains the checkout pool. Pending checkouts are cancelled.
func (b *Background) Stop(ctx context.Context) error {
	if err := b.Checkouts.Stop(ctx); err != nil {
		b.logger.Warn("checkout pool did not drain", zap.Error(err))
		return err
	}
	return nil
}
