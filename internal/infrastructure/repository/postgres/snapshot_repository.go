package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (snapshot.MatchSquadSnapshot, bool, error) {
	query, args, err := snapshotBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_public_id", matchID),
		).
		ToSQL()
	if err != nil {
		return snapshot.MatchSquadSnapshot{}, false, fmt.Errorf("build get snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.MatchSquadSnapshot{}, false, nil
		}
		return snapshot.MatchSquadSnapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	return snapshotFromRow(row), true, nil
}

func (r *SnapshotRepository) LatestByUser(ctx context.Context, userID, tournamentID string) (snapshot.MatchSquadSnapshot, bool, error) {
	query, args, err := snapshotBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("tournament_public_id", tournamentID),
		).
		OrderBy("locked_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return snapshot.MatchSquadSnapshot{}, false, fmt.Errorf("build latest snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.MatchSquadSnapshot{}, false, nil
		}
		return snapshot.MatchSquadSnapshot{}, false, fmt.Errorf("latest snapshot: %w", err)
	}

	return snapshotFromRow(row), true, nil
}

func (r *SnapshotRepository) ListByMatch(ctx context.Context, matchID string) ([]snapshot.MatchSquadSnapshot, error) {
	query, args, err := snapshotBaseSelectBuilder().
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshots by match query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshots by match: %w", err)
	}

	out := make([]snapshot.MatchSquadSnapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromRow(row))
	}
	return out, nil
}

func (r *SnapshotRepository) Create(ctx context.Context, item snapshot.MatchSquadSnapshot) error {
	insertModel := snapshotInsertModel{
		PublicID:         item.ID,
		UserID:           item.UserID,
		MatchID:          item.MatchID,
		TournamentID:     item.TournamentID,
		PlayerIDs:        pq.StringArray(item.PlayerIDs),
		CaptainID:        item.CaptainID,
		ViceCaptainID:    item.ViceCaptainID,
		SubsUsedForMatch: item.SubsUsedForMatch,
		TotalSubsUsed:    item.TotalSubsUsed,
		LockedAt:         item.LockedAt,
	}

	query, args, err := qb.InsertModel("match_squad_snapshots", insertModel, "ON CONFLICT (user_id, match_public_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build create snapshot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("match_squad_snapshots").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete snapshots by match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshots by match: %w", err)
	}
	return nil
}

func snapshotFromRow(row snapshotTableModel) snapshot.MatchSquadSnapshot {
	return snapshot.MatchSquadSnapshot{
		ID:               row.PublicID,
		UserID:           row.UserID,
		MatchID:          row.MatchID,
		TournamentID:     row.TournamentID,
		PlayerIDs:        append([]string(nil), row.PlayerIDs...),
		CaptainID:        row.CaptainID,
		ViceCaptainID:    row.ViceCaptainID,
		SubsUsedForMatch: row.SubsUsedForMatch,
		TotalSubsUsed:    row.TotalSubsUsed,
		LockedAt:         row.LockedAt,
	}
}

func snapshotBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("match_squad_snapshots")
}
