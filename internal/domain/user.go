package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the credential store.
// Emails are stored trimmed and lowercased; one account per email.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	CreatedAt    time.Time `json:"created_at"`
}
