package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Access tokens are deliberately short and
// refresh tokens deliberately long; the pairing is fixed here so the two
// can never be configured swapped.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrNoSigningKey = errors.New("jwtx: codec has no private key")
	ErrBadClaims    = errors.New("jwtx: claims missing required fields")
)

// AccountSnapshot is the identity payload embedded in access tokens.
// It is a point-in-time copy of the account row; renewal rebuilds it
// from the database so stale snapshots age out with the access TTL.
type AccountSnapshot struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Claims is the single claim shape for both token kinds. Access tokens
// carry the full account snapshot; refresh tokens carry only the
// account id. Both carry the session id (sid) anchoring them to a
// revocable server-side session. Decoded claims are a typed struct;
// tokens missing the fields a caller needs are rejected by
// RequireAccess/RequireRefresh rather than optionally chained into.
type Claims struct {
	jwt.RegisteredClaims

	// Account snapshot, present on access tokens only.
	Account *AccountSnapshot `json:"account,omitempty"`

	// AccountID, present on refresh tokens only.
	AccountID string `json:"account_id,omitempty"`

	// SID is the id of the session this token was minted against.
	SID string `json:"sid,omitempty"`
}

// RequireAccess validates that the claims form a usable access token
// payload: an account snapshot with id and email, and a session id.
func (c *Claims) RequireAccess() error {
	if c.Account == nil || c.Account.ID == "" || c.Account.Email == "" || c.SID == "" {
		return ErrBadClaims
	}
	return nil
}

// RequireRefresh validates that the claims form a usable refresh token
// payload: an account id and a session id.
func (c *Claims) RequireRefresh() error {
	if c.AccountID == "" || c.SID == "" {
		return ErrBadClaims
	}
	return nil
}
