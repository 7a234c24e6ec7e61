package domain

import (
	"fmt"
	"time"
)

type GiftStatus string

const (
	GiftStatusReady  GiftStatus = "ready"
	GiftStatusOpened GiftStatus = "opened"
)

func ParseGiftStatus(s string) (GiftStatus, error) {
	switch GiftStatus(s) {
	case GiftStatusReady, GiftStatusOpened:
		return GiftStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported gift status %q", ErrBadRequest, s)
	}
}

type GiftPayloadKind string

const (
	GiftPayloadPoint GiftPayloadKind = "point"
)

// GiftPayload is a tagged variant; point amounts are the only kind today
// but the tag keeps room for future gift contents.
type GiftPayload struct {
	Kind   GiftPayloadKind `json:"kind"`
	Amount int64           `json:"amount"`
}

func PointPayload(amount int64) GiftPayload {
	return GiftPayload{Kind: GiftPayloadPoint, Amount: amount}
}

// Gift is a fan-out payout record. The shared row carries the payload; each
// recipient redeems independently through their own status row.
type Gift struct {
	ID          string      `db:"id" json:"id"`
	Payload     GiftPayload `db:"payload" json:"payload"`
	Description string      `db:"description" json:"description"`
	Status      GiftStatus  `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	// Match entry ids attached for tracing: if the process dies between
	// resolving a pair and delivering its gift, these point back at the pair.
	WinEntryID  string `db:"win_entry_id" json:"win_entry_id,omitempty"`
	LoseEntryID string `db:"lose_entry_id" json:"lose_entry_id,omitempty"`
}

func NewGift(payload GiftPayload, description string) *Gift {
	return &Gift{
		ID:          NewID(),
		Payload:     payload,
		Description: description,
		Status:      GiftStatusReady,
		CreatedAt:   time.Now(),
	}
}

func (g *Gift) SetMatchEntries(winEntryID, loseEntryID string) {
	g.WinEntryID = winEntryID
	g.LoseEntryID = loseEntryID
}

// GiftRecord is a gift joined with one recipient's redemption status, as
// returned by GiftStore.FindByID and ListByUserAndStatus.
type GiftRecord struct {
	Gift
	UserID          string     `json:"user_id"`
	RecipientStatus GiftStatus `json:"recipient_status"`
}

// Openable reports whether this recipient may still redeem the gift.
func (r *GiftRecord) Openable() error {
	if r.RecipientStatus != GiftStatusReady {
		return fmt.Errorf("%w: the gift cannot be opened", ErrBadRequest)
	}
	return nil
}
