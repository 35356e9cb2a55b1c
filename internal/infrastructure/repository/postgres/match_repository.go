package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("actual_start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by tournament query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListLockCandidates(ctx context.Context, now time.Time) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("status", match.StatusUpcoming),
			qb.Eq("lock_processed", false),
			qb.Lte("actual_start_at", now),
			qb.IsNull("deleted_at"),
		).
		OrderBy("actual_start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lock candidates query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListLockedUnscored(ctx context.Context) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("status", match.StatusLocked),
			qb.Eq("lock_processed", true),
			qb.Eq("points_processed", false),
			qb.IsNull("deleted_at"),
		).
		OrderBy("actual_start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list locked unscored matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListNotifiable(ctx context.Context) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.In("status", []any{match.StatusUpcoming, match.StatusLocked, match.StatusAbandoned}),
			qb.IsNull("deleted_at"),
		).
		OrderBy("actual_start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifiable matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListUpcomingOn(ctx context.Context, dayStart, dayEnd time.Time) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("status", match.StatusUpcoming),
			qb.Gte("actual_start_at", dayStart),
			qb.Lt("actual_start_at", dayEnd),
			qb.IsNull("deleted_at"),
		).
		OrderBy("actual_start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

// MarkLocked flips the lock flag only when no other worker got there first.
func (r *MatchRepository) MarkLocked(ctx context.Context, matchID string, lockedAt time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", match.StatusLocked).
		Set("lock_processed", true).
		Set("locked_at", lockedAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("lock_processed", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark match locked query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark match locked: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark match locked rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) MarkPointsProcessed(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("points_processed", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("points_processed", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark points processed query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark points processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark points processed rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) SetNotificationSent(ctx context.Context, matchID string, tier match.NotificationTier) error {
	query, args, err := qb.Update("matches").
		Set("last_notification_sent", tier.String()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set notification sent query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set notification sent: %w", err)
	}
	return nil
}

func (r *MatchRepository) ResetForRainDelay(ctx context.Context, matchID string, newStartAt time.Time) error {
	query, args, err := qb.Update("matches").
		Set("status", match.StatusUpcoming).
		Set("actual_start_at", newStartAt).
		Set("lock_processed", false).
		SetExpr("locked_at", "NULL").
		Set("last_notification_sent", match.TierNone.String()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reset match for rain delay query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset match for rain delay: %w", err)
	}
	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:               row.PublicID,
		TournamentID:     row.TournamentID,
		HomeTeam:         row.HomeTeam,
		AwayTeam:         row.AwayTeam,
		Venue:            row.Venue,
		OriginalStartAt:  row.OriginalStartAt,
		ActualStartAt:    row.ActualStartAt,
		Status:           match.NormalizeStatus(row.Status),
		LockProcessed:    row.LockProcessed,
		PointsProcessed:  row.PointsProcessed,
		LockedAt:         nullTimeToTimePtr(row.LockedAt),
		NotificationSent: match.ParseTier(row.NotificationSent),
	}
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("matches")
}
