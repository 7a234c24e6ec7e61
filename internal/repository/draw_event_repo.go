package repository

import (
	"context"
	"errors"

	"point-arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DrawEventRepository struct {
	db *pgxpool.Pool
}

func NewDrawEventRepository(db *pgxpool.Pool) *DrawEventRepository {
	return &DrawEventRepository{db: db}
}

// Latest returns the most recent draw event for (user, kind).
func (r *DrawEventRepository) Latest(ctx context.Context, userID string, kind domain.DrawKind) (*domain.DrawEvent, error) {
	var e domain.DrawEvent
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, kind, created_at
		 FROM draw_events
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, kind,
	).Scan(&e.ID, &e.UserID, &e.Kind, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *DrawEventRepository) Append(ctx context.Context, e *domain.DrawEvent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO draw_events (id, user_id, kind, created_at)
		 VALUES ($1, $2, $3, $4)`,
		e.ID, e.UserID, e.Kind, e.CreatedAt,
	)
	return err
}
