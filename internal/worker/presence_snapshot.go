// Package worker runs the scheduled presence jobs.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

// DefaultSnapshotSchedule runs the snapshot once a minute.
const DefaultSnapshotSchedule = "@every 1m"

type registryWarmer interface {
	Refresh(ctx context.Context) (*models.Catalog, error)
}

type presenceCounter interface {
	CountCurrentByStatus(ctx context.Context) (map[string]int, error)
}

type presenceGauge interface {
	SetCurrentPresence(counts map[string]int)
}

// PresenceSnapshotWorker refreshes the registry and publishes the number of
// users currently in each status.
type PresenceSnapshotWorker struct {
	registry registryWarmer
	counter  presenceCounter
	gauge    presenceGauge
	logger   *zap.Logger
	timeout  time.Duration

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewPresenceSnapshotWorker constructs the worker. It does nothing until Start.
func NewPresenceSnapshotWorker(registry registryWarmer, counter presenceCounter, gauge presenceGauge, logger *zap.Logger) *PresenceSnapshotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceSnapshotWorker{
		registry: registry,
		counter:  counter,
		gauge:    gauge,
		logger:   logger,
		timeout:  30 * time.Second,
		cron:     cron.New(),
	}
}

// Start schedules RunOnce on schedule. Overlapping runs are skipped.
func (w *PresenceSnapshotWorker) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	if _, err := w.cron.AddFunc(schedule, w.tick); err != nil {
		return fmt.Errorf("schedule presence snapshot %q: %w", schedule, err)
	}
	w.cron.Start()
	w.logger.Info("presence snapshot worker started", zap.String("schedule", schedule))
	return nil
}

// Stop halts scheduling and waits for an in-flight run, bounded by ctx.
func (w *PresenceSnapshotWorker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("presence snapshot worker stopped")
	case <-ctx.Done():
		w.logger.Warn("presence snapshot worker stop timed out", zap.Error(ctx.Err()))
	}
}

func (w *PresenceSnapshotWorker) tick() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Debug("presence snapshot still running, skipping tick")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.RunOnce(ctx); err != nil {
		w.logger.Warn("presence snapshot failed", zap.Error(err))
	}
}

// RunOnce warms the registry and republishes the presence gauge. A registry
// failure does not stop the gauge update.
func (w *PresenceSnapshotWorker) RunOnce(ctx context.Context) error {
	start := time.Now()
	var firstErr error

	if w.registry != nil {
		if _, err := w.registry.Refresh(ctx); err != nil {
			firstErr = fmt.Errorf("refresh registry: %w", err)
		}
	}

	if w.counter != nil {
		counts, err := w.counter.CountCurrentByStatus(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("count current presence: %w", err)
			}
		} else {
			if w.gauge != nil {
				w.gauge.SetCurrentPresence(counts)
			}
			total := 0
			for _, n := range counts {
				total += n
			}
			w.logger.Debug("presence snapshot published",
				zap.Int("present", total),
				zap.Int("statuses", len(counts)),
				zap.Duration("took", time.Since(start)),
			)
		}
	}
	return firstErr
}
