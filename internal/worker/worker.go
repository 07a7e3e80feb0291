package worker

import (
	"context"
	"time"

	"cafe-storefront/internal/store"
	"cafe-storefront/internal/util"

	"go.uber.org/zap"
)

// ViewSweeper evicts page views that have been idle past their TTL
type ViewSweeper struct {
	sweeper  store.Sweeper
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	done     chan struct{}
}

// NewViewSweeper creates a sweeper that runs every interval
func NewViewSweeper(sweeper store.Sweeper, interval time.Duration) *ViewSweeper {
	return &ViewSweeper{
		sweeper:  sweeper,
		interval: interval,
		now:      time.Now,
		logger:   util.GetLogger(),
		done:     make(chan struct{}),
	}
}

// Start sweeps on every tick until ctx is cancelled
func (w *ViewSweeper) Start(ctx context.Context) error {
	defer close(w.done)
	w.logger.Info("Starting view sweeper", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping view sweeper")
			return nil
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce runs a single eviction pass
func (w *ViewSweeper) SweepOnce() int {
	evicted := w.sweeper.Sweep(w.now())
	if evicted > 0 {
		util.ViewsEvictedTotal.Add(float64(evicted))
		w.logger.Debug("Evicted idle views", zap.Int("count", evicted))
	}
	return evicted
}

// Wait blocks until Start has returned
func (w *ViewSweeper) Wait() {
	<-w.done
}
