package domain

import "time"

// ResetToken is a single-use password reset grant. Only the bcrypt hash
// of the secret is stored; the plaintext travels once, in the email.
type ResetToken struct {
	ID        string
	OwnerID   string
	TokenHash string
	IsValid   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ResetTokenTTL is how long a reset link stays usable.
const ResetTokenTTL = 5 * time.Minute
