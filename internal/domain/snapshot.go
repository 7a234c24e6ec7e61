package domain

import "time"

// PointSnapshot is one user's periodic balance capture. One row per user,
// overwritten each cycle. The diff feeds the ranking only; it is never
// authoritative for the balance itself.
type PointSnapshot struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Current   int64     `db:"current" json:"current"`
	Previous  *int64    `db:"previous" json:"previous,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func NewPointSnapshot(userID string, current int64) *PointSnapshot {
	return &PointSnapshot{
		UserID:    userID,
		Current:   current,
		UpdatedAt: time.Now(),
	}
}

// Update rolls the snapshot forward: the old current becomes previous.
func (s *PointSnapshot) Update(current int64) {
	prev := s.Current
	s.Previous = &prev
	s.Current = current
	s.UpdatedAt = time.Now()
}

// Diff returns current minus previous, or zero when there is no previous
// snapshot yet (first cycle).
func (s *PointSnapshot) Diff() int64 {
	if s.Previous == nil {
		return 0
	}
	return s.Current - *s.Previous
}
