package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Refresher holds the "last updated" stamp of a dashboard and advances it on a fixed interval.
// Nothing is refetched on a tick.
type Refresher struct {
	mu     sync.RWMutex
	last   time.Time
	now    func() time.Time
	logger *zap.Logger
}

// NewRefresher stamps the dashboard with now() immediately.
func NewRefresher(now func() time.Time, logger *zap.Logger) *Refresher {
	return &Refresher{last: now(), now: now, logger: logger}
}

// LastUpdated returns the current stamp.
func (r *Refresher) LastUpdated() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Touch sets the stamp to now and returns it.
func (r *Refresher) Touch() time.Time {
	t := r.now()
	r.mu.Lock()
	r.last = t
	r.mu.Unlock()
	return t
}

// Run touches the stamp every interval and calls onTick with it, until ctx is done.
func (r *Refresher) Run(ctx context.Context, interval time.Duration, onTick func(time.Time)) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Debug("refresher started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("refresher stopped")
			return nil
		case <-ticker.C:
			t := r.Touch()
			if onTick != nil {
				onTick(t)
			}
		}
	}
}
