package repository

import (
	"context"
	"errors"

	"point-arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SnapshotRepository struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Get(ctx context.Context, userID string) (*domain.PointSnapshot, error) {
	var s domain.PointSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT user_id, current, previous, updated_at
		 FROM point_snapshots
		 WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.Current, &s.Previous, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Put overwrites the user's snapshot (one row per user).
func (r *SnapshotRepository) Put(ctx context.Context, s *domain.PointSnapshot) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO point_snapshots (user_id, current, previous, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET current = EXCLUDED.current, previous = EXCLUDED.previous, updated_at = EXCLUDED.updated_at`,
		s.UserID, s.Current, s.Previous, s.UpdatedAt,
	)
	return err
}
