package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/teamups/internal/infrastructure/outbox"
)

// RelayConfig controls how frequently the outbox is drained.
type RelayConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// Relay re-sends parked notification pushes on a cron schedule.
type Relay struct {
	store     *outbox.Store
	publisher *RedisPublisher
	monitor   ConnectionHealth
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       RelayConfig
}

func NewRelay(store *outbox.Store, publisher *RedisPublisher, monitor ConnectionHealth, logger *zap.Logger, cfg RelayConfig) *Relay {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Relay{
		store:     store,
		publisher: publisher,
		monitor:   monitor,
		logger:    logger,
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return r
}

func (r *Relay) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("notification relay started")
}

func (r *Relay) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("notification relay stopped")
}

// Drain pushes one batch of parked messages. Messages that keep failing are
// dropped after MaxRetries attempts; the stored notification remains readable.
func (r *Relay) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	batch, err := r.store.Peek(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range batch {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.publisher.send(ctx, msg); err != nil {
			if msg.Attempts+1 >= r.cfg.MaxRetries {
				r.logger.Warn("dropping notification push (max retries reached)",
					zap.String("message_id", msg.ID), zap.Error(err))
				_ = r.store.Remove(msg)
				continue
			}
			if err := r.store.Retry(msg); err != nil {
				r.logger.Error("failed to requeue notification push", zap.Error(err))
			}
			continue
		}
		if err := r.store.Remove(msg); err != nil {
			r.logger.Warn("failed to purge delivered push", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of parked pushes.
func (r *Relay) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}
