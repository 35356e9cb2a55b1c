package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/domain/leaderboard"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/scorecard"
	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

// PointsService converts an operator-supplied scoreboard into per-user match
// points and folds them into the tournament leaderboard. Runs at most once per
// match: preconditions reject a processed match, and the final conditional
// flag write closes the race window against a concurrent duplicate run.
type PointsService struct {
	matchRepo       match.Repository
	snapshotRepo    snapshot.Repository
	scoreRepo       scorecard.Repository
	leaderboardRepo leaderboard.Repository
	evaluator       scorecard.Evaluator
	logger          *logging.Logger
	now             func() time.Time
}

type PointsRunResult struct {
	MatchID       string `json:"match_id"`
	PlayersScored int    `json:"players_scored"`
	UsersScored   int    `json:"users_scored"`
}

func NewPointsService(
	matchRepo match.Repository,
	snapshotRepo snapshot.Repository,
	scoreRepo scorecard.Repository,
	leaderboardRepo leaderboard.Repository,
	evaluator scorecard.Evaluator,
	logger *logging.Logger,
) *PointsService {
	if evaluator == nil {
		evaluator = scorecard.DefaultRules()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PointsService{
		matchRepo:       matchRepo,
		snapshotRepo:    snapshotRepo,
		scoreRepo:       scoreRepo,
		leaderboardRepo: leaderboardRepo,
		evaluator:       evaluator,
		logger:          logger,
		now:             time.Now,
	}
}

// Process scores one match. All intermediate writes are keyed upserts, so a
// failed run left unmarked is safe to retry from scratch without
// double-counting; only the final conditional flag makes the run definitive.
func (s *PointsService) Process(ctx context.Context, matchID string, scoreboard []scorecard.PlayerPerformance) (PointsRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.Process")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return PointsRunResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if len(scoreboard) == 0 {
		return PointsRunResult{}, fmt.Errorf("%w: scoreboard is empty", ErrInvalidInput)
	}
	for i, perf := range scoreboard {
		if strings.TrimSpace(perf.PlayerName) == "" {
			return PointsRunResult{}, fmt.Errorf("%w: scoreboard row %d has no player name", ErrInvalidInput, i)
		}
		if perf.Runs < 0 || perf.Balls < 0 || perf.Wickets < 0 || perf.Catches < 0 || perf.Stumpings < 0 || perf.Maidens < 0 {
			return PointsRunResult{}, fmt.Errorf("%w: scoreboard row %d has negative values", ErrInvalidInput, i)
		}
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return PointsRunResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return PointsRunResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.PointsProcessed {
		return PointsRunResult{}, fmt.Errorf("%w: points for match=%s", ErrAlreadyProcessed, matchID)
	}

	now := s.now().UTC()

	scores := make([]scorecard.PlayerMatchScore, 0, len(scoreboard))
	pointsByPlayer := make(map[string]float64, len(scoreboard))
	for _, perf := range scoreboard {
		points := s.evaluator.Score(perf)
		scores = append(scores, scorecard.PlayerMatchScore{
			MatchID:    matchID,
			PlayerName: perf.PlayerName,
			Points:     points,
		})
		pointsByPlayer[perf.PlayerName] = points
	}
	if err := s.scoreRepo.UpsertScores(ctx, matchID, scores); err != nil {
		return PointsRunResult{}, fmt.Errorf("upsert player scores: %w", err)
	}

	snapshots, err := s.snapshotRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return PointsRunResult{}, fmt.Errorf("list snapshots for match: %w", err)
	}

	for _, snap := range snapshots {
		total := squadTotal(snap, pointsByPlayer)
		if err := s.leaderboardRepo.UpsertUserMatchPoints(ctx, leaderboard.UserMatchPoints{
			UserID:       snap.UserID,
			MatchID:      matchID,
			TournamentID: m.TournamentID,
			Points:       total,
			CalculatedAt: now,
		}); err != nil {
			return PointsRunResult{}, fmt.Errorf("upsert user match points user=%s: %w", snap.UserID, err)
		}
	}

	if err := s.rebuildLeaderboard(ctx, m.TournamentID, now); err != nil {
		return PointsRunResult{}, err
	}

	processed, err := s.matchRepo.MarkPointsProcessed(ctx, matchID)
	if err != nil {
		return PointsRunResult{}, fmt.Errorf("mark points processed: %w", err)
	}
	if !processed {
		return PointsRunResult{}, fmt.Errorf("%w: points for match=%s", ErrAlreadyProcessed, matchID)
	}

	s.logger.InfoContext(ctx, "match points processed",
		"match_id", matchID, "players", len(scores), "users", len(snapshots))

	return PointsRunResult{
		MatchID:       matchID,
		PlayersScored: len(scores),
		UsersScored:   len(snapshots),
	}, nil
}

// squadTotal sums a locked squad's player scores with the captain doubled and
// the vice-captain at 1.5x, rounded to one decimal place. Unknown players
// simply score zero.
func squadTotal(snap snapshot.MatchSquadSnapshot, pointsByPlayer map[string]float64) float64 {
	total := 0.0
	for _, playerID := range snap.PlayerIDs {
		points := pointsByPlayer[playerID]
		switch playerID {
		case snap.CaptainID:
			points *= scorecard.CaptainMultiplier
		case snap.ViceCaptainID:
			points *= scorecard.ViceCaptainMultiplier
		}
		total += points
	}
	return roundToOneDecimal(total)
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *PointsService) rebuildLeaderboard(ctx context.Context, tournamentID string, now time.Time) error {
	rows, err := s.leaderboardRepo.ListUserMatchPointsByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list user match points for leaderboard: %w", err)
	}

	totalByUser := make(map[string]float64)
	for _, row := range rows {
		totalByUser[row.UserID] += row.Points
	}

	entries := make([]leaderboard.Entry, 0, len(totalByUser))
	for userID, total := range totalByUser {
		entries = append(entries, leaderboard.Entry{
			TournamentID:     tournamentID,
			UserID:           userID,
			TotalPoints:      roundToOneDecimal(total),
			LastCalculatedAt: now,
		})
	}

	// Ties resolve by user id so repeated rebuilds produce identical order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	lastPoints := 0.0
	rank := 0
	for idx := range entries {
		if idx == 0 || entries[idx].TotalPoints != lastPoints {
			rank++
			lastPoints = entries[idx].TotalPoints
		}
		entries[idx].Rank = rank
	}

	if err := s.leaderboardRepo.ReplaceEntries(ctx, tournamentID, entries); err != nil {
		return fmt.Errorf("replace leaderboard entries: %w", err)
	}
	return nil
}
