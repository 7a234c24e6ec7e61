package domain

import "github.com/google/uuid"

// NewID returns an opaque entity id.
func NewID() string {
	return uuid.NewString()
}
