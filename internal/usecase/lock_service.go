package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
	"github.com/wickethq/fantasy-cricket/internal/domain/squad"
	idgen "github.com/wickethq/fantasy-cricket/internal/platform/id"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

const defaultLockMaxWorkers = 8

// LockService freezes live squads into immutable snapshots when a match's
// actual start time arrives. Safe to run concurrently and to retry: the
// conditional match write and the per-user existence check carry all
// coordination, no in-process locks survive a run.
type LockService struct {
	matchRepo    match.Repository
	squadRepo    squad.Repository
	snapshotRepo snapshot.Repository
	idGen        idgen.Generator
	maxWorkers   int
	logger       *logging.Logger
	now          func() time.Time
}

type LockRunResult struct {
	CandidateCount int `json:"candidate_count"`
	LockedCount    int `json:"locked_count"`
	SnapshotCount  int `json:"snapshot_count"`
	FailedUsers    int `json:"failed_users"`
}

func NewLockService(
	matchRepo match.Repository,
	squadRepo squad.Repository,
	snapshotRepo snapshot.Repository,
	idGen idgen.Generator,
	maxWorkers int,
	logger *logging.Logger,
) *LockService {
	if maxWorkers < 1 {
		maxWorkers = defaultLockMaxWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LockService{
		matchRepo:    matchRepo,
		squadRepo:    squadRepo,
		snapshotRepo: snapshotRepo,
		idGen:        idGen,
		maxWorkers:   maxWorkers,
		logger:       logger,
		now:          time.Now,
	}
}

// Run locks every due match and snapshots its users' squads. Losing the
// conditional write to a concurrent run is not an error, only a skip.
func (s *LockService) Run(ctx context.Context) (LockRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockService.Run")
	defer span.End()

	now := s.now().UTC()
	candidates, err := s.matchRepo.ListLockCandidates(ctx, now)
	if err != nil {
		return LockRunResult{}, fmt.Errorf("list lock candidates: %w", err)
	}

	result := LockRunResult{CandidateCount: len(candidates)}
	handled := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		locked, err := s.matchRepo.MarkLocked(ctx, candidate.ID, now)
		if err != nil {
			s.logger.ErrorContext(ctx, "mark match locked failed", "match_id", candidate.ID, "error", err)
			continue
		}
		if !locked {
			// Another run won the conditional write.
			continue
		}
		result.LockedCount++
		handled[candidate.ID] = struct{}{}

		snapped, failed := s.snapshotMatch(ctx, candidate)
		result.SnapshotCount += snapped
		result.FailedUsers += failed
	}

	// Locked matches that have not been scored yet may carry users whose
	// snapshot write failed on an earlier run. Re-visit them: the per-user
	// existence check keeps already snapshotted users a no-op.
	unscored, err := s.matchRepo.ListLockedUnscored(ctx)
	if err != nil {
		return result, fmt.Errorf("list locked unscored matches: %w", err)
	}
	for _, m := range unscored {
		if _, ok := handled[m.ID]; ok {
			continue
		}
		snapped, failed := s.snapshotMatch(ctx, m)
		result.SnapshotCount += snapped
		result.FailedUsers += failed
	}

	return result, nil
}

// snapshotMatch fans out the per-user locking sub-routine over a bounded
// worker pool. A failed user is logged and retried by the next run; siblings
// are never aborted.
func (s *LockService) snapshotMatch(ctx context.Context, m match.Match) (snapped, failed int) {
	squads, err := s.squadRepo.ListByTournament(ctx, m.TournamentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list live squads failed", "match_id", m.ID, "error", err)
		return 0, 0
	}
	if len(squads) == 0 {
		return 0, 0
	}

	workerCount := s.maxWorkers
	if workerCount > len(squads) {
		workerCount = len(squads)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		s.logger.ErrorContext(ctx, "create lock worker pool failed", "error", err)
		return 0, 0
	}
	defer pool.Release()

	var snappedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range squads {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			created, err := s.snapshotUser(ctx, m, item)
			if err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "snapshot user squad failed",
					"match_id", m.ID, "user_id", item.UserID, "error", err)
				return
			}
			if created {
				snappedCount.Add(1)
			}
		}); err != nil {
			workers.Done()
			failedCount.Add(1)
			s.logger.ErrorContext(ctx, "submit snapshot task failed",
				"match_id", m.ID, "user_id", item.UserID, "error", err)
		}
	}
	workers.Wait()

	return int(snappedCount.Load()), int(failedCount.Load())
}

// snapshotUser is the per-user locking sub-routine. Idempotent: an existing
// (user, match) snapshot makes it a no-op, so a partially failed run resumes
// cleanly on the next schedule tick.
func (s *LockService) snapshotUser(ctx context.Context, m match.Match, live squad.LiveSquad) (bool, error) {
	_, exists, err := s.snapshotRepo.GetByUserAndMatch(ctx, live.UserID, m.ID)
	if err != nil {
		return false, fmt.Errorf("check existing snapshot: %w", err)
	}
	if exists {
		return false, nil
	}

	prior, hasPrior, err := s.snapshotRepo.LatestByUser(ctx, live.UserID, m.TournamentID)
	if err != nil {
		return false, fmt.Errorf("load prior snapshot: %w", err)
	}

	subsUsed := 0
	totalSubs := 0
	if hasPrior {
		delta := snapshot.SubsDelta(prior.PlayerIDs, live.PlayerIDs)
		subsUsed, totalSubs = snapshot.ApplyCap(prior.TotalSubsUsed, delta)
	}

	snapID, err := s.idGen.NewID()
	if err != nil {
		return false, fmt.Errorf("generate snapshot id: %w", err)
	}

	snap := snapshot.MatchSquadSnapshot{
		ID:               snapID,
		UserID:           live.UserID,
		MatchID:          m.ID,
		TournamentID:     m.TournamentID,
		PlayerIDs:        append([]string(nil), live.PlayerIDs...),
		CaptainID:        live.CaptainID,
		ViceCaptainID:    live.ViceCaptainID,
		SubsUsedForMatch: subsUsed,
		TotalSubsUsed:    totalSubs,
		// The chain orders by the match's actual start, not wall clock, so a
		// re-run after downtime slots snapshots correctly.
		LockedAt: m.ActualStartAt,
	}
	if err := s.snapshotRepo.Create(ctx, snap); err != nil {
		return false, fmt.Errorf("create snapshot: %w", err)
	}

	return true, nil
}
