package repository

import (
	"context"

	"point-arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, user_id, move, stake, status, COALESCE(opponent_id, ''), COALESCE(opponent_name, ''), created_at`

func scanMatches(rows pgx.Rows) ([]*domain.MatchEntry, error) {
	defer rows.Close()

	var entries []*domain.MatchEntry
	for rows.Next() {
		var e domain.MatchEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Move, &e.Stake, &e.Status,
			&e.OpponentID, &e.OpponentName, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *MatchRepository) ListByUserAndStatus(ctx context.Context, userID string, status domain.MatchStatus) ([]*domain.MatchEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+` FROM match_entries
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC`,
		userID, status,
	)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *MatchRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MatchEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+` FROM match_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

// ScanByStatus returns up to limit entries with the given status in
// creation order. The limit bounds one resolution cycle; callers must not
// assume the whole backlog is returned.
func (r *MatchRepository) ScanByStatus(ctx context.Context, status domain.MatchStatus, limit int) ([]*domain.MatchEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+` FROM match_entries
		 WHERE status = $1
		 ORDER BY created_at
		 LIMIT $2`,
		status, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *MatchRepository) Create(ctx context.Context, e *domain.MatchEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO match_entries (id, user_id, move, stake, status, opponent_id, opponent_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		e.ID, e.UserID, e.Move, e.Stake, e.Status, e.OpponentID, e.OpponentName, e.CreatedAt,
	)
	return err
}

func (r *MatchRepository) Save(ctx context.Context, e *domain.MatchEntry) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE match_entries
		 SET status = $1, opponent_id = NULLIF($2, ''), opponent_name = NULLIF($3, '')
		 WHERE id = $4`,
		e.Status, e.OpponentID, e.OpponentName, e.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveBatch persists a resolved pair in one round trip.
func (r *MatchRepository) SaveBatch(ctx context.Context, entries []*domain.MatchEntry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`UPDATE match_entries
			 SET status = $1, opponent_id = NULLIF($2, ''), opponent_name = NULLIF($3, '')
			 WHERE id = $4`,
			e.Status, e.OpponentID, e.OpponentName, e.ID,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
