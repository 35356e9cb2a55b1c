package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/domain/leaderboard"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) UpsertUserMatchPoints(ctx context.Context, item leaderboard.UserMatchPoints) error {
	insertModel := userMatchPointsInsertModel{
		UserID:       item.UserID,
		MatchID:      item.MatchID,
		TournamentID: item.TournamentID,
		Points:       item.Points,
		CalculatedAt: item.CalculatedAt,
	}

	query, args, err := qb.InsertModel("user_match_points", insertModel, `ON CONFLICT (user_id, match_public_id)
DO UPDATE SET
    points = EXCLUDED.points,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert user match points query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user match points: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListUserMatchPointsByTournament(ctx context.Context, tournamentID string) ([]leaderboard.UserMatchPoints, error) {
	query, args, err := qb.Select("*").From("user_match_points").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		OrderBy("user_id", "match_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user match points query: %w", err)
	}

	var rows []userMatchPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user match points: %w", err)
	}

	out := make([]leaderboard.UserMatchPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.UserMatchPoints{
			UserID:       row.UserID,
			MatchID:      row.MatchID,
			TournamentID: row.TournamentID,
			Points:       row.Points,
			CalculatedAt: row.CalculatedAt,
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) ReplaceEntries(ctx context.Context, tournamentID string, entries []leaderboard.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("leaderboard_entries").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear leaderboard entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear leaderboard entries: %w", err)
	}

	for _, entry := range entries {
		insertModel := leaderboardEntryInsertModel{
			TournamentID:     tournamentID,
			UserID:           entry.UserID,
			TotalPoints:      entry.TotalPoints,
			Rank:             entry.Rank,
			LastCalculatedAt: entry.LastCalculatedAt,
		}
		query, args, err := qb.InsertModel("leaderboard_entries", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert leaderboard entry user=%s: %w", entry.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard entries tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ListEntries(ctx context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").From("leaderboard_entries").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		OrderBy("rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard entries query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			TournamentID:     row.TournamentID,
			UserID:           row.UserID,
			TotalPoints:      row.TotalPoints,
			Rank:             row.Rank,
			LastCalculatedAt: row.LastCalculatedAt,
		})
	}
	return out, nil
}
