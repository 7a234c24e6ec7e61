package repository

import (
	"context"
	"errors"
	"time"

	"point-arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConditionFailed means a conditional write found the stored value
	// changed since it was read (lost optimistic-concurrency race).
	ErrConditionFailed = errors.New("condition failed")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, subject, COALESCE(screen_name, ''), display_name, point, COALESCE(picture_url, ''), created_at, last_draw_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Subject,
		&u.ScreenName,
		&u.DisplayName,
		&u.Point,
		&u.PictureURL,
		&u.CreatedAt,
		&u.LastDrawAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, subject, screen_name, display_name, point, picture_url, created_at, last_draw_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8)`,
		u.ID, u.Subject, u.ScreenName, u.DisplayName, u.Point, u.PictureURL, u.CreatedAt, u.LastDrawAt,
	)
	return err
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET screen_name = NULLIF($1, ''), display_name = $2, point = $3,
		     picture_url = NULLIF($4, ''), last_draw_at = $5
		 WHERE id = $6`,
		u.ScreenName, u.DisplayName, u.Point, u.PictureURL, u.LastDrawAt, u.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveConditional writes the full row only if last_draw_at still equals
// expected. This is the compare-and-swap both the draw claim and its
// compensation ride on; IS NOT DISTINCT FROM makes NULL compare equal.
func (r *UserRepository) SaveConditional(ctx context.Context, u *domain.User, expected *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET screen_name = NULLIF($1, ''), display_name = $2, point = $3,
		     picture_url = NULLIF($4, ''), last_draw_at = $5
		 WHERE id = $6 AND last_draw_at IS NOT DISTINCT FROM $7`,
		u.ScreenName, u.DisplayName, u.Point, u.PictureURL, u.LastDrawAt, u.ID, expected,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

// AdjustPoint adds delta to the balance, refusing any change that would
// take it negative.
func (r *UserRepository) AdjustPoint(ctx context.Context, id string, delta int64) (int64, error) {
	var newBalance int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET point = point + $1 WHERE id = $2 AND point + $1 >= 0 RETURNING point`,
		delta, id,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
			if !exists {
				return 0, domain.ErrNotFound
			}
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	return newBalance, nil
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindEarliest returns the earliest-created user, used as the canary for
// the snapshot debounce.
func (r *UserRepository) FindEarliest(ctx context.Context) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at LIMIT 1`)
	return scanUser(row)
}
