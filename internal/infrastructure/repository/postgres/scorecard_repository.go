package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/domain/scorecard"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type ScorecardRepository struct {
	db *sqlx.DB
}

func NewScorecardRepository(db *sqlx.DB) *ScorecardRepository {
	return &ScorecardRepository{db: db}
}

func (r *ScorecardRepository) UpsertScores(ctx context.Context, matchID string, scores []scorecard.PlayerMatchScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert player scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, score := range scores {
		insertModel := playerMatchScoreInsertModel{
			MatchID:    matchID,
			PlayerName: score.PlayerName,
			Points:     score.Points,
		}
		query, args, err := qb.InsertModel("player_match_scores", insertModel, `ON CONFLICT (match_public_id, player_name)
DO UPDATE SET
    points = EXCLUDED.points,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert player score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player score player=%s: %w", score.PlayerName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert player scores tx: %w", err)
	}
	return nil
}

func (r *ScorecardRepository) ListByMatch(ctx context.Context, matchID string) ([]scorecard.PlayerMatchScore, error) {
	query, args, err := qb.Select("*").From("player_match_scores").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player scores query: %w", err)
	}

	var rows []playerMatchScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player scores: %w", err)
	}

	out := make([]scorecard.PlayerMatchScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, scorecard.PlayerMatchScore{
			MatchID:    row.MatchID,
			PlayerName: row.PlayerName,
			Points:     row.Points,
		})
	}
	return out, nil
}
