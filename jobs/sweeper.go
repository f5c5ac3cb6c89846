// Package jobs runs background maintenance: the periodic overdue sweep.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"it_inventory/models"
)

const sweepLockKey = "inv:lock:overdue_sweep"

type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf models.Date) (int64, error)
}

// Sweeper promotes stale borrows to Overdue on a fixed interval. The lock
// keeps replicas from sweeping at the same time; the sweep itself is
// idempotent, so a lost lock only costs a redundant run.
type Sweeper struct {
	repo     OverdueSweeper
	lock     Locker
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewSweeper(repo OverdueSweeper, lock Locker, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{repo: repo, lock: lock, interval: interval, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// RunOnce sweeps as of today. ran is false when another instance holds the
// lock.
func (s *Sweeper) RunOnce(ctx context.Context) (n int64, ran bool, err error) {
	if s.lock != nil {
		release, ok, err := s.lock.TryLock(ctx, sweepLockKey, s.interval)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
		defer release()
	}
	n, err = s.repo.SweepOverdue(ctx, models.DateOf(s.now()))
	return n, err == nil, err
}

// Run sweeps immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("overdue sweeper disabled")
		return
	}
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		switch n, ran, err := s.RunOnce(ctx); {
		case err != nil:
			s.log.Error("overdue sweep failed", "err", err)
		case ran:
			s.log.Info("overdue sweep finished", "transitioned", n)
		default:
			s.log.Debug("overdue sweep skipped, lock held elsewhere")
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
