package service

import (
	"context"
	"errors"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/pkg/cryptox"
	"github.com/folioworks/backoffice/pkg/idx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/folioworks/backoffice/pkg/slogx"
)

// ErrRenewalDenied is the single failure mode of access-token renewal.
// The middleware treats it as "anonymous"; no detail leaks to clients.
var ErrRenewalDenied = errors.New("service: renewal denied")

// SessionService owns the login/logout/renewal lifecycle. A login
// anchors both tokens to a persisted session row; revoking that row is
// what ends the tokens, since the tokens themselves stay bearer-shaped.
type SessionService struct {
	Store store.Store
	Codec *jwtx.Codec

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// LoginResult carries everything the login handler needs: the session
// summary for the body and the token pair for the cookies.
type LoginResult struct {
	Session domain.Session
	Admin   domain.Admin
	Access  string
	Refresh string
}

// Login verifies credentials, creates a new active session and mints
// the token pair. All other active sessions of the account are revoked
// in the background so exactly one session survives once revocation
// settles; the new login never waits on that.
//
// An unknown email answers exactly like a wrong password.
func (s *SessionService) Login(ctx context.Context, email, password string, userAgent *string) (*LoginResult, error) {
	admin, err := s.Store.Admins().GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials()
		}
		return nil, err
	}

	if !cryptox.VerifyPassword(password, admin.PasswordHash) {
		return nil, domain.ErrInvalidCredentials()
	}
	if !admin.IsActive {
		return nil, domain.ErrDisabledAccount()
	}

	now := s.now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		OwnerID:   admin.ID,
		UserAgent: userAgent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.revokeInBackground(ctx, admin.ID, session.ID)

	access, err := s.Codec.SignAccess(snapshotOf(admin), session.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Codec.SignRefresh(admin.ID, session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Session: session,
		Admin:   admin,
		Access:  access,
		Refresh: refresh,
	}, nil
}

// Logout revokes every active session of the account. Like the sibling
// revocation on login this runs detached; the handler clears the
// cookies regardless of how the revocation goes.
func (s *SessionService) Logout(ctx context.Context, accountID string) {
	s.revokeInBackground(ctx, accountID, "")
}

// revokeInBackground fires the session revocation without awaiting it.
// Failures are logged and left for housekeeping; a failed revocation
// must never fail the request that triggered it.
func (s *SessionService) revokeInBackground(ctx context.Context, ownerID, keepID string) {
	log := slogx.FromContext(ctx)
	go func() {
		n, err := s.Store.Sessions().RevokeSessions(context.Background(), ownerID, keepID)
		if err != nil {
			log.Error("session revocation failed", "owner_id", ownerID, "error", err)
			return
		}
		if n > 0 {
			log.Info("sessions revoked", "owner_id", ownerID, "count", n)
		}
	}()
}

// RenewAccessToken turns a valid refresh token into a fresh access
// token, provided the anchoring session is still active and the account
// still exists and is enabled. The snapshot in the new token is rebuilt
// from the current account row, so profile edits propagate on renewal.
//
// Every failure collapses into ErrRenewalDenied.
func (s *SessionService) RenewAccessToken(ctx context.Context, refreshToken string) (string, *jwtx.Claims, error) {
	res := s.Codec.Verify(refreshToken)
	if !res.Valid || res.Claims.RequireRefresh() != nil {
		return "", nil, ErrRenewalDenied
	}

	session, err := s.Store.Sessions().GetSessionByID(ctx, res.Claims.SID)
	if err != nil || !session.IsActive || session.OwnerID != res.Claims.AccountID {
		return "", nil, ErrRenewalDenied
	}

	admin, err := s.Store.Admins().GetAdminByID(ctx, session.OwnerID)
	if err != nil || !admin.IsActive {
		return "", nil, ErrRenewalDenied
	}

	access, err := s.Codec.SignAccess(snapshotOf(admin), session.ID)
	if err != nil {
		return "", nil, ErrRenewalDenied
	}

	verified := s.Codec.Verify(access)
	if !verified.Valid {
		return "", nil, ErrRenewalDenied
	}
	return access, verified.Claims, nil
}

// OwnSession returns the caller's current active session.
func (s *SessionService) OwnSession(ctx context.Context, accountID string) (domain.Session, error) {
	session, err := s.Store.Sessions().GetActiveSessionByOwner(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.ErrNotFound("session")
		}
		return domain.Session{}, err
	}
	return session, nil
}

// ListSessions returns all sessions, optionally filtered to one owner.
func (s *SessionService) ListSessions(ctx context.Context, ownerID string) ([]domain.Session, error) {
	return s.Store.Sessions().ListSessions(ctx, ownerID)
}

// PurgeInactive physically deletes revoked sessions and reports the
// count. Active sessions are never touched.
func (s *SessionService) PurgeInactive(ctx context.Context) (int64, error) {
	return s.Store.Sessions().DeleteInactiveSessions(ctx)
}

func snapshotOf(a domain.Admin) jwtx.AccountSnapshot {
	return jwtx.AccountSnapshot{
		ID:        a.ID,
		Firstname: a.Firstname,
		Lastname:  a.Lastname,
		Email:     a.Email,
		Role:      string(a.Role),
	}
}
