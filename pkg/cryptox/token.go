package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretSize is the byte length of generated reset-token secrets.
// 32 bytes gives 256 bits of entropy (64 hex chars on the wire).
const SecretSize = 32

// GenerateSecret returns a hex-encoded cryptographically secure random
// secret of n bytes. Returns an error only if the system RNG fails.
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: secret size must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
