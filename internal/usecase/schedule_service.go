package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/domain/leaderboard"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

// ScheduleService covers the administrative surface around the engines:
// the rain-delay override and the read views served over HTTP.
type ScheduleService struct {
	matchRepo       match.Repository
	snapshotRepo    snapshot.Repository
	leaderboardRepo leaderboard.Repository
	logger          *logging.Logger
	now             func() time.Time
}

func NewScheduleService(
	matchRepo match.Repository,
	snapshotRepo snapshot.Repository,
	leaderboardRepo leaderboard.Repository,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		matchRepo:       matchRepo,
		snapshotRepo:    snapshotRepo,
		leaderboardRepo: leaderboardRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// RainDelay is the explicit administrative override for a washed-out start:
// the match returns to upcoming with a new start time, its lock flag clears
// and every squad snapshot taken for it is purged so the next lock run
// rebuilds the chain from live squads.
func (s *ScheduleService) RainDelay(ctx context.Context, matchID string, newStartAt time.Time) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.RainDelay")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if newStartAt.IsZero() {
		return fmt.Errorf("%w: new start time is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.PointsProcessed {
		return fmt.Errorf("%w: match=%s already has points, cannot rain-delay", ErrAlreadyProcessed, matchID)
	}

	if err := s.matchRepo.ResetForRainDelay(ctx, matchID, newStartAt.UTC()); err != nil {
		return fmt.Errorf("reset match for rain delay: %w", err)
	}
	if err := s.snapshotRepo.DeleteByMatch(ctx, matchID); err != nil {
		return fmt.Errorf("purge snapshots for rain delay: %w", err)
	}

	s.logger.InfoContext(ctx, "rain delay applied",
		"match_id", matchID, "new_start_at", newStartAt.UTC())
	return nil
}

func (s *ScheduleService) ListMatches(ctx context.Context, tournamentID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListMatches")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	items, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches by tournament: %w", err)
	}
	return items, nil
}

func (s *ScheduleService) Leaderboard(ctx context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Leaderboard")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	entries, err := s.leaderboardRepo.ListEntries(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	return entries, nil
}
