package scheduler

import (
	"context"
	"fmt"
	"time"

	"point-arena/internal/logger"
	"point-arena/internal/service"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler drives the two background loops: the match resolution cycle
// and the debounced snapshot cycle. Both jobs swallow their own errors;
// a bad tick never stops the next one.
type Scheduler struct {
	sched gocron.Scheduler
}

func New(engine *service.MatchEngine, snapshots *service.SnapshotService, matchInterval, snapshotInterval time.Duration) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(matchInterval),
		gocron.NewTask(func() {
			if err := engine.Cycle(context.Background()); err != nil {
				logger.Error("match cycle failed", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule match cycle: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(snapshotInterval),
		gocron.NewTask(func() {
			ran, err := snapshots.MaybeRun(context.Background())
			if err != nil {
				logger.Error("snapshot cycle failed", "error", err)
				return
			}
			if ran {
				logger.Info("snapshot cycle completed")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule snapshot cycle: %w", err)
	}

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() {
	if err := s.sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "error", err)
	}
}
