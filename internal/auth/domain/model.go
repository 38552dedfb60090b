package domain

import (
	"errors"
	"time"
)

var ErrPersonNotFound = errors.New("person not found")

// Person is anyone who can rank projects and be assigned to one.
// The Firebase UID is the primary identifier.
type Person struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SyncRequest carries identity data after a successful sign-in. Nil fields
// keep whatever is already stored.
type SyncRequest struct {
	ID          string
	Email       *string
	DisplayName *string
}
