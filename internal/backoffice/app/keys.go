package app

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"

	"github.com/folioworks/backoffice/pkg/jwtx"
)

const ephemeralRSABits = 2048

// InitTokenCodec builds the RS256 codec that signs and verifies the
// access and refresh tokens.
//
// Key modes:
//   - Persistent: BACKOFFICE_PRIVATE_KEY_FILE points at a PEM encoded
//     RSA private key. Tokens survive service restarts.
//   - Ephemeral: no key file configured. A fresh key pair is generated
//     on startup and every outstanding token becomes invalid.
func InitTokenCodec(cfg Config, logger *slog.Logger) (*jwtx.Codec, error) {
	var (
		privateKey *rsa.PrivateKey
		publicKey  *rsa.PublicKey
		err        error
	)

	if cfg.PrivateKeyFile != "" {
		pemData, readErr := os.ReadFile(cfg.PrivateKeyFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read private key file: %w", readErr)
		}
		privateKey, err = jwtx.ParsePrivateKeyPEM(pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		logger.Info("loaded signing key", "path", cfg.PrivateKeyFile)
	} else {
		privateKey, err = rsa.GenerateKey(rand.Reader, ephemeralRSABits)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
		}
		logger.Warn("generated ephemeral signing key, all existing tokens are now invalid")
	}

	// An explicit public key file overrides the one derived from the
	// private key. Useful when the verify side is distributed separately.
	if cfg.PublicKeyFile != "" {
		pemData, readErr := os.ReadFile(cfg.PublicKeyFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", readErr)
		}
		publicKey, err = jwtx.ParsePublicKeyPEM(pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
	}

	codec, err := jwtx.NewCodec(jwtx.Config{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	logger.Info("token codec initialized",
		"issuer", cfg.Issuer,
		"access_ttl", codec.AccessTTL(),
		"refresh_ttl", codec.RefreshTTL(),
	)

	return codec, nil
}
