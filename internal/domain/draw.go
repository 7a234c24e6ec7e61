package domain

import "time"

type DrawKind string

const (
	DrawKindDaily DrawKind = "daily"
)

// DrawEvent is an immutable record of one successful daily-draw claim.
type DrawEvent struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Kind      DrawKind  `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func NewDrawEvent(userID string, kind DrawKind) *DrawEvent {
	return &DrawEvent{
		ID:        NewID(),
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}
