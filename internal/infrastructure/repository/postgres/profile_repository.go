package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wickethq/fantasy-cricket/internal/domain/profile"
	qb "github.com/wickethq/fantasy-cricket/internal/platform/querybuilder"
)

type profileTableModel struct {
	ID          int64      `db:"id"`
	UserID      string     `db:"user_id"`
	DisplayName string     `db:"display_name"`
	DeviceToken string     `db:"device_token"`
	Active      bool       `db:"active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) ListNotifiable(ctx context.Context) ([]profile.Profile, error) {
	query, args, err := qb.Select("*").From("profiles").
		Where(
			qb.Eq("active", true),
			qb.Expr("device_token <> ''"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifiable profiles query: %w", err)
	}

	var rows []profileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifiable profiles: %w", err)
	}

	out := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, profile.Profile{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			DeviceToken: row.DeviceToken,
			Active:      row.Active,
		})
	}
	return out, nil
}
