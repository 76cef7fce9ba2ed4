// Package scheduler drives the petting cycle on a fixed cadence. The
// cycle itself decides whether anything is due; the timer only supplies
// the heartbeat.
package scheduler

import (
	"context"
	"errors"
	"time"

	"petkeeper/internal/app/petcycle"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const DefaultInterval = 15 * time.Minute

type CycleRunner interface {
	RunCycle(ctx context.Context, force bool) (petcycle.Result, error)
}

type Timer struct {
	Cycle    CycleRunner
	Interval time.Duration

	// RunOnStart fires one cycle immediately instead of waiting a full
	// interval after boot.
	RunOnStart bool
}

// Run blocks until ctx is cancelled. Scheduled runs never force: the
// cycle applies the cooldown evaluation and skips while stopped.
func (t Timer) Run(ctx context.Context) {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	hlog.Infof("scheduler: petting cycle every %s", interval)
	if t.RunOnStart {
		t.runOnce(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hlog.Info("scheduler: stopped")
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t Timer) runOnce(ctx context.Context) {
	res, err := t.Cycle.RunCycle(ctx, false)
	switch {
	case errors.Is(err, petcycle.ErrCycleInProgress):
		hlog.Warn("scheduler: previous cycle still running, skipping tick")
	case err != nil:
		hlog.Errorf("scheduler: cycle failed: %v", err)
	default:
		hlog.Infof("scheduler: %s", res.Message)
	}
}
