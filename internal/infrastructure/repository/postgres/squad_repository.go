package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/domain/squad"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (squad.LiveSquad, bool, error) {
	query, args, err := squadBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return squad.LiveSquad{}, false, fmt.Errorf("build get live squad query: %w", err)
	}

	var row liveSquadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return squad.LiveSquad{}, false, nil
		}
		return squad.LiveSquad{}, false, fmt.Errorf("get live squad: %w", err)
	}

	return squadFromRow(row), true, nil
}

func (r *SquadRepository) ListByTournament(ctx context.Context, tournamentID string) ([]squad.LiveSquad, error) {
	query, args, err := squadBaseSelectBuilder().
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list live squads query: %w", err)
	}

	var rows []liveSquadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list live squads: %w", err)
	}

	out := make([]squad.LiveSquad, 0, len(rows))
	for _, row := range rows {
		out = append(out, squadFromRow(row))
	}
	return out, nil
}

func squadFromRow(row liveSquadTableModel) squad.LiveSquad {
	return squad.LiveSquad{
		UserID:        row.UserID,
		TournamentID:  row.TournamentID,
		Name:          row.Name,
		PlayerIDs:     append([]string(nil), row.PlayerIDs...),
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		CreditsUsed:   row.CreditsUsed,
		UpdatedAt:     row.UpdatedAt,
	}
}

func squadBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("live_squads")
}
