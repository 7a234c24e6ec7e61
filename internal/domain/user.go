package domain

import "time"

type User struct {
	ID          string    `db:"id" json:"id"`
	Subject     string    `db:"subject" json:"-"`
	ScreenName  string    `db:"screen_name" json:"screen_name,omitempty"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Point       int64     `db:"point" json:"point"`
	PictureURL  string    `db:"picture_url" json:"picture_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	// LastDrawAt doubles as the optimistic-lock token for the daily draw:
	// it only moves forward through a conditional write.
	LastDrawAt *time.Time `db:"last_draw_at" json:"last_draw_at,omitempty"`
}

func NewUser(subject string) *User {
	return &User{
		ID:          NewID(),
		Subject:     subject,
		DisplayName: "no name",
		CreatedAt:   time.Now(),
	}
}

func (u *User) AddPoint(p int64) {
	u.Point += p
}
