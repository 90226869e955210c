package service

import (
	"context"
	"errors"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/mail"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/pkg/cryptox"
	"github.com/folioworks/backoffice/pkg/idx"
	"github.com/folioworks/backoffice/pkg/slogx"
)

// ResetTokenService owns the password-reset grant lifecycle: request,
// validate, consume. A token is a bcrypt hash of a random secret; the
// plaintext secret lives only in the emailed link.
type ResetTokenService struct {
	Store  store.Store
	Mailer mail.Mailer

	// FrontendURL is the base for the emailed set-password link.
	FrontendURL string

	// BcryptCost for hashing secrets and new passwords. 0 = default.
	BcryptCost int

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ResetTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RequestReset starts a reset for the given email. It succeeds
// outwardly no matter what so the endpoint cannot be used to probe
// which emails have accounts. When the account exists, any earlier
// token is invalidated first: only the newest link ever works.
func (s *ResetTokenService) RequestReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	admin, err := s.Store.Admins().GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	secret, err := cryptox.GenerateSecret(cryptox.SecretSize)
	if err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(secret, s.BcryptCost)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	token := domain.ResetToken{
		ID:        idx.New().String(),
		OwnerID:   admin.ID,
		TokenHash: hash,
		IsValid:   true,
		ExpiresAt: now.Add(domain.ResetTokenTTL),
		CreatedAt: now,
	}
	// One transaction: the old link dies in the same instant the new
	// one becomes the only valid token for the account.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ResetTokens().InvalidateResetTokens(ctx, admin.ID); err != nil {
			return err
		}
		return tx.ResetTokens().CreateResetToken(ctx, token)
	})
	if err != nil {
		return err
	}

	// Delivery is best-effort. The reset stays requestable if the mail
	// bounces; the token just expires unused.
	msg := mail.ResetPasswordMessage(admin.Email, s.FrontendURL, admin.ID, secret)
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Error("reset email delivery failed", "owner_id", admin.ID, "error", err)
	}

	return nil
}

// ValidateAndConsume checks the plaintext secret against the owner's
// current valid token and burns it on match. Each token works once;
// a second submit of the same link answers the same as a dead link.
func (s *ResetTokenService) ValidateAndConsume(ctx context.Context, accountID, plaintext string) error {
	return s.validateAndConsume(ctx, s.Store, accountID, plaintext)
}

func (s *ResetTokenService) validateAndConsume(ctx context.Context, st store.Store, accountID, plaintext string) error {
	token, err := st.ResetTokens().GetValidResetToken(ctx, accountID, s.now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrTokenInvalidOrExpired()
		}
		return err
	}

	if !cryptox.VerifyPassword(plaintext, token.TokenHash) {
		return domain.ErrTokenInvalidOrExpired()
	}

	if err := st.ResetTokens().Consume(ctx, token.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrTokenInvalidOrExpired()
		}
		return err
	}
	return nil
}

// SetPassword consumes the reset token and stores the new password
// hash. Existing sessions stay alive; the owner can log back in with
// the new password immediately.
func (s *ResetTokenService) SetPassword(ctx context.Context, accountID, plaintext, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}

	// Consume and rewrite atomically: a burnt token always means the
	// new password made it into the account row.
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.validateAndConsume(ctx, tx, accountID, plaintext); err != nil {
			return err
		}
		if err := tx.Admins().UpdatePasswordHash(ctx, accountID, hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.ErrNotFound("id")
			}
			return err
		}
		return nil
	})
}
