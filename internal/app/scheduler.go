package app

import (
	"context"
	"sync"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

// Scheduler drives the lock and notification engines on fixed intervals.
// Every run is the same code path as the internal job endpoints, so a missed
// tick is recovered by the next one.
type Scheduler struct {
	lockService         *usecase.LockService
	notificationService *usecase.NotificationService
	lockInterval        time.Duration
	notifyInterval      time.Duration
	logger              *logging.Logger

	wg sync.WaitGroup
}

func NewScheduler(
	lockService *usecase.LockService,
	notificationService *usecase.NotificationService,
	lockInterval time.Duration,
	notifyInterval time.Duration,
	logger *logging.Logger,
) *Scheduler {
	if lockInterval <= 0 {
		lockInterval = time.Minute
	}
	if notifyInterval <= 0 {
		notifyInterval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		lockService:         lockService,
		notificationService: notificationService,
		lockInterval:        lockInterval,
		notifyInterval:      notifyInterval,
		logger:              logger,
	}
}

// Start launches the periodic loops. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(2)
	go s.runLoop(ctx, "lock", s.lockInterval, func(ctx context.Context) error {
		result, err := s.lockService.Run(ctx)
		if err != nil {
			return err
		}
		if result.CandidateCount > 0 {
			s.logger.InfoContext(ctx, "lock run finished",
				"candidates", result.CandidateCount,
				"locked", result.LockedCount,
				"snapshots", result.SnapshotCount,
				"failed_users", result.FailedUsers,
			)
		}
		return nil
	})
	go s.runLoop(ctx, "notify", s.notifyInterval, func(ctx context.Context) error {
		result, err := s.notificationService.Run(ctx)
		if err != nil {
			return err
		}
		if result.TiersFired > 0 || result.DigestSent {
			s.logger.InfoContext(ctx, "notify run finished",
				"matches_seen", result.MatchesSeen,
				"tiers_fired", result.TiersFired,
				"digest_sent", result.DigestSent,
			)
		}
		return nil
	})
}

// Wait blocks until both loops have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, name string, interval time.Duration, run func(context.Context) error) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler loop stopped", "loop", name)
			return
		case <-ticker.C:
			if err := run(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduler run failed", "loop", name, "error", err)
			}
		}
	}
}
