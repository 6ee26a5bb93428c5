package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the last observed state of the service dependencies.
type Status struct {
	Storage    bool      `json:"storage"`
	Redis      bool      `json:"redis"`
	Outbox     bool      `json:"outbox"`
	OutboxSize int       `json:"outbox_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Pinger checks that a dependency answers.
type Pinger func(ctx context.Context) error

// Backlog reports how many deliveries are parked in the outbox.
type Backlog interface {
	Size() (int, error)
}

// Checks groups the probes the monitor runs. A nil probe reports down.
type Checks struct {
	Storage Pinger
	Redis   Pinger
	Outbox  Backlog
}

// Monitor polls the dependencies in the background and caches their status.
type Monitor struct {
	checks Checks

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(checks Checks, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start runs one check synchronously and then keeps polling until Stop.
func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether live pushes can go out, i.e. Redis answers.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Redis
}

// Healthy reports whether the primary store answers.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes every dependency now and stores the result.
func (m *Monitor) Refresh() {
	outboxOK, outboxSize := m.checkOutbox()
	status := Status{
		Storage:    ping(m.checks.Storage, 3*time.Second),
		Redis:      ping(m.checks.Redis, 2*time.Second),
		Outbox:     outboxOK,
		OutboxSize: outboxSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if prev.Redis != status.Redis || prev.Storage != status.Storage {
		m.logger.Info("dependency status changed",
			zap.Bool("storage", status.Storage),
			zap.Bool("redis", status.Redis),
			zap.Int("outbox_size", status.OutboxSize))
	}
}

func ping(p Pinger, timeout time.Duration) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p(ctx) == nil
}

func (m *Monitor) checkOutbox() (bool, int) {
	if m.checks.Outbox == nil {
		return false, 0
	}
	size, err := m.checks.Outbox.Size()
	if err != nil {
		m.logger.Warn("outbox size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
