package repository

import (
	"context"
	"errors"

	"point-arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

// CreateFor persists the shared gift row and one status row per recipient
// in a single transaction: every recipient sees the gift, or none do.
func (r *GiftRepository) CreateFor(ctx context.Context, g *domain.Gift, recipients []string, status domain.GiftStatus) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO gifts (id, payload_kind, payload_amount, description, status, win_entry_id, lose_entry_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		g.ID, g.Payload.Kind, g.Payload.Amount, g.Description, g.Status,
		g.WinEntryID, g.LoseEntryID, g.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, userID := range recipients {
		_, err = tx.Exec(ctx,
			`INSERT INTO gift_recipients (gift_id, user_id, status)
			 VALUES ($1, $2, $3)`,
			g.ID, userID, status,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SetRecipientStatus flips one recipient's status, conditioned on the
// current value so duplicate concurrent redemptions cannot both pass.
func (r *GiftRepository) SetRecipientStatus(ctx context.Context, giftID, userID string, from, to domain.GiftStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE gift_recipients
		 SET status = $1
		 WHERE gift_id = $2 AND user_id = $3 AND status = $4`,
		to, giftID, userID, from,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

const giftColumns = `g.id, g.payload_kind, g.payload_amount, g.description, g.status,
		COALESCE(g.win_entry_id, ''), COALESCE(g.lose_entry_id, ''), g.created_at,
		r.user_id, r.status`

func scanGiftRecord(row pgx.Row) (*domain.GiftRecord, error) {
	var rec domain.GiftRecord
	if err := row.Scan(
		&rec.ID, &rec.Payload.Kind, &rec.Payload.Amount, &rec.Description, &rec.Status,
		&rec.WinEntryID, &rec.LoseEntryID, &rec.CreatedAt,
		&rec.UserID, &rec.RecipientStatus,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByID returns the gift together with this recipient's status row.
func (r *GiftRepository) FindByID(ctx context.Context, giftID, userID string) (*domain.GiftRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+giftColumns+`
		 FROM gifts g
		 JOIN gift_recipients r ON r.gift_id = g.id
		 WHERE g.id = $1 AND r.user_id = $2`,
		giftID, userID,
	)
	return scanGiftRecord(row)
}

func (r *GiftRepository) ListByUserAndStatus(ctx context.Context, userID string, status domain.GiftStatus) ([]*domain.GiftRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+giftColumns+`
		 FROM gifts g
		 JOIN gift_recipients r ON r.gift_id = g.id
		 WHERE r.user_id = $1 AND r.status = $2
		 ORDER BY g.created_at DESC`,
		userID, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.GiftRecord
	for rows.Next() {
		var rec domain.GiftRecord
		if err := rows.Scan(
			&rec.ID, &rec.Payload.Kind, &rec.Payload.Amount, &rec.Description, &rec.Status,
			&rec.WinEntryID, &rec.LoseEntryID, &rec.CreatedAt,
			&rec.UserID, &rec.RecipientStatus,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
