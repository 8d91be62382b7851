/*
scheduler.go - Periodic analysis model refresh

PURPOSE:
  Rebuilds the cached analysis model on an interval so records written by
  other processes (the seed command, direct imports) show up without a
  restart.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Refreshes immediately on start
  - A failed refresh keeps the previous model and is retried next tick

USAGE:
  scheduler := NewRefreshScheduler(handler, 5*time.Minute)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Handler.Refresh
  - datasets.go: loads refresh synchronously as well
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RefreshScheduler rebuilds the handler's model periodically.
type RefreshScheduler struct {
	Handler  *Handler
	Interval time.Duration
	Timeout  time.Duration

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	log     *logrus.Entry
	runs    int
	lastErr error
}

// NewRefreshScheduler creates a new scheduler.
func NewRefreshScheduler(h *Handler, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		Handler:  h,
		Interval: interval,
		Timeout:  30 * time.Second,
		log:      logrus.WithField("component", "scheduler"),
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a
// no-op.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.Interval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.log.WithField("interval", rs.Interval).Info("refresh scheduler started")
}

// Stop stops the scheduler and waits for an in-flight refresh.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	if rs.ticker == nil {
		rs.mu.Unlock()
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.ticker = nil
	rs.mu.Unlock()

	rs.wg.Wait()
	rs.log.Info("refresh scheduler stopped")
}

// Stats returns the number of completed refreshes and the last error.
func (rs *RefreshScheduler) Stats() (int, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.runs, rs.lastErr
}

func (rs *RefreshScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	rs.refresh()

	for {
		select {
		case <-ticker.C:
			rs.refresh()
		case <-stop:
			return
		}
	}
}

func (rs *RefreshScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.Timeout)
	defer cancel()

	start := time.Now()
	err := rs.Handler.Refresh(ctx)

	rs.mu.Lock()
	rs.runs++
	rs.lastErr = err
	rs.mu.Unlock()

	if err != nil {
		rs.log.WithError(err).Error("model refresh failed")
		return
	}
	rs.log.WithField("took", time.Since(start)).Debug("model refreshed")
}
