package jwtx

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config describes everything a Codec needs up front. Pass parsed keys;
// use ParsePrivateKeyPEM/ParsePublicKeyPEM for keys loaded from disk.
// A Codec built without a private key can verify but not sign, which is
// what read-only verification nodes want.
type Config struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey

	Issuer string

	// Zero values pick the defaults. The access TTL must stay the
	// short one of the pair.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Codec signs and verifies the two token kinds with a single RS256
// keypair. It is immutable after construction.
type Codec struct {
	priv       *rsa.PrivateKey
	pub        *rsa.PublicKey
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Result is what Verify hands back. It never comes with an error:
// a bad token is Valid=false, an expired-but-otherwise-sound token is
// additionally Expired=true with its decoded Claims attached so the
// renewal path can read the session id out of it.
type Result struct {
	Valid   bool
	Expired bool
	Claims  *Claims
}

// NewCodec builds a Codec from the config. The public key may be
// derived from the private key when only the private one is supplied.
func NewCodec(cfg Config) (*Codec, error) {
	pub := cfg.PublicKey
	if pub == nil && cfg.PrivateKey != nil {
		pub = &cfg.PrivateKey.PublicKey
	}
	if pub == nil {
		return nil, errors.New("jwtx: config has no key material")
	}

	c := &Codec{
		priv:       cfg.PrivateKey,
		pub:        pub,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.accessTTL >= c.refreshTTL {
		return nil, fmt.Errorf("jwtx: access TTL %v must be shorter than refresh TTL %v", c.accessTTL, c.refreshTTL)
	}
	return c, nil
}

// AccessTTL reports the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// SignAccess mints a short-lived access token carrying the account
// snapshot and the session id.
func (c *Codec) SignAccess(account AccountSnapshot, sessionID string) (string, error) {
	acct := account
	return c.sign(Claims{
		RegisteredClaims: c.registered(account.ID, c.accessTTL),
		Account:          &acct,
		SID:              sessionID,
	})
}

// SignRefresh mints a long-lived refresh token carrying only the
// account id and the session id.
func (c *Codec) SignRefresh(accountID, sessionID string) (string, error) {
	return c.sign(Claims{
		RegisteredClaims: c.registered(accountID, c.refreshTTL),
		AccountID:        accountID,
		SID:              sessionID,
	})
}

func (c *Codec) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := c.now()
	return jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *Codec) sign(claims Claims) (string, error) {
	if c.priv == nil {
		return "", ErrNoSigningKey
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.priv)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify decodes and checks a token string. Expiry is the one failure
// mode callers branch on, so it gets its own flag instead of being
// folded into a generic invalid.
func (c *Codec) Verify(tokenStr string) Result {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return c.pub, nil
	})
	switch {
	case err == nil:
		// fallthrough to issuer check below
	case errors.Is(err, jwt.ErrTokenExpired):
		// Signature and structure held up; only the clock ran out.
		if c.issuer != "" && claims.Issuer != c.issuer {
			return Result{}
		}
		return Result{Expired: true, Claims: claims}
	default:
		return Result{}
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return Result{}
	}
	return Result{Valid: true, Claims: claims}
}

// ParsePrivateKeyPEM loads an RSA private key from PEM bytes. Handles
// both PKCS1 and PKCS8 because otherwise we will be chasing a bug for
// longer than we would be willing to admit.
func ParsePrivateKeyPEM(pemKey []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for RSA private key")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse PKCS1: %w", err)
		}
		return key, nil
	case "PRIVATE KEY":
		priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
		}
		key, ok := priv.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("jwtx: not an RSA private key")
		}
		return key, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported PEM type %q", block.Type)
	}
}

// ParsePublicKeyPEM loads an RSA public key from PEM bytes, accepting
// PKIX and PKCS1 encodings.
func ParsePublicKeyPEM(pemKey []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for RSA public key")
	}

	switch block.Type {
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse PKIX: %w", err)
		}
		key, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("jwtx: not an RSA public key")
		}
		return key, nil
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: parse PKCS1 public: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported PEM type %q", block.Type)
	}
}
