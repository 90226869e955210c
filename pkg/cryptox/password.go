package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when the caller passes 0.
// bcrypt.DefaultCost (10) is fine for an admin backend; raise it via
// configuration if login latency allows.
const DefaultCost = bcrypt.DefaultCost

// HashPassword produces a salted bcrypt hash of the plaintext using the
// given work factor. A cost of 0 selects DefaultCost. bcrypt embeds the
// salt and cost in the encoded hash so nothing else needs storing.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword compares a plaintext against a stored bcrypt hash.
// Any failure (mismatch, malformed hash, unsupported cost) resolves to
// false; callers never see an error from a comparison.
func VerifyPassword(plain, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(plain)) == nil
}
