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

// AdminService manages admin accounts. Role grants pass through
// Role.CoerceGrant so a non-topmost actor can never mint a peer or a
// superior, only the lesser elevated tier.
type AdminService struct {
	Store  store.Store
	Mailer mail.Mailer

	// BcryptCost for password hashing. 0 = default.
	BcryptCost int
}

// NewAdminInput is the create payload after HTTP-level validation.
type NewAdminInput struct {
	Firstname string
	Lastname  string
	Nickname  string
	Email     string
	Password  string
	Role      domain.Role
}

// CreateAdmin creates an account. The granted role is coerced against
// the actor's own role, silently.
func (s *AdminService) CreateAdmin(ctx context.Context, actorRole domain.Role, in NewAdminInput) (domain.Admin, error) {
	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}
	role = actorRole.CoerceGrant(role)

	hash, err := cryptox.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return domain.Admin{}, err
	}

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           idx.New().String(),
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Nickname:     in.Nickname,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, admin); err != nil {
		return domain.Admin{}, translateStoreErr(err, "id")
	}
	return admin, nil
}

// GetAdmin fetches one account.
func (s *AdminService) GetAdmin(ctx context.Context, id string) (domain.Admin, error) {
	admin, err := s.Store.Admins().GetAdminByID(ctx, id)
	if err != nil {
		return domain.Admin{}, translateStoreErr(err, "id")
	}
	return admin, nil
}

// ListAdmins returns all accounts, newest first.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.Store.Admins().ListAdmins(ctx)
}

// UpdateProfile mutates the caller's name fields.
func (s *AdminService) UpdateProfile(ctx context.Context, id, firstname, lastname, nickname string) (domain.Admin, error) {
	if err := s.Store.Admins().UpdateProfile(ctx, id, firstname, lastname, nickname); err != nil {
		return domain.Admin{}, translateStoreErr(err, "id")
	}
	return s.GetAdmin(ctx, id)
}

// ChangeEmail swaps the login identifier and notifies the old address.
func (s *AdminService) ChangeEmail(ctx context.Context, id, newEmail string) (domain.Admin, error) {
	current, err := s.GetAdmin(ctx, id)
	if err != nil {
		return domain.Admin{}, err
	}

	if err := s.Store.Admins().UpdateEmail(ctx, id, newEmail); err != nil {
		return domain.Admin{}, translateStoreErr(err, "email")
	}

	s.notify(ctx, mail.EmailChangedMessage(current.Email, newEmail))
	return s.GetAdmin(ctx, id)
}

// ChangePassword verifies the current password before storing the new
// hash, then notifies the account.
func (s *AdminService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	admin, err := s.GetAdmin(ctx, id)
	if err != nil {
		return err
	}

	if !cryptox.VerifyPassword(currentPassword, admin.PasswordHash) {
		return domain.ErrValidation("currentPassword", "invalid_password")
	}

	hash, err := cryptox.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.Store.Admins().UpdatePasswordHash(ctx, id, hash); err != nil {
		return translateStoreErr(err, "id")
	}

	s.notify(ctx, mail.PasswordChangedMessage(admin.Email))
	return nil
}

// ChangeRole sets the account's privilege tier, coerced against the
// actor's role.
func (s *AdminService) ChangeRole(ctx context.Context, actorRole domain.Role, id string, role domain.Role) (domain.Admin, error) {
	role = actorRole.CoerceGrant(role)
	if err := s.Store.Admins().UpdateRole(ctx, id, role); err != nil {
		return domain.Admin{}, translateStoreErr(err, "id")
	}
	return s.GetAdmin(ctx, id)
}

// SetActive disables or re-enables an account. Disabling does not
// revoke live sessions by itself; renewal checks the flag, so the
// lockout lands within one access-token lifetime.
func (s *AdminService) SetActive(ctx context.Context, id string, active bool) (domain.Admin, error) {
	if err := s.Store.Admins().SetActive(ctx, id, active); err != nil {
		return domain.Admin{}, translateStoreErr(err, "id")
	}
	return s.GetAdmin(ctx, id)
}

// DeleteAdmin removes the account. Sessions and reset tokens go with
// it via FK cascade.
func (s *AdminService) DeleteAdmin(ctx context.Context, id string) error {
	if err := s.Store.Admins().DeleteAdmin(ctx, id); err != nil {
		return translateStoreErr(err, "id")
	}
	return nil
}

func (s *AdminService) notify(ctx context.Context, msg mail.Message) {
	if err := s.Mailer.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Error("notice email delivery failed", "to", msg.To, "error", err)
	}
}

// translateStoreErr maps store sentinels into the typed application
// error once, here at the service boundary. Unknown errors pass
// through untouched for the 500 fallback.
func translateStoreErr(err error, notFoundPath string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNotFound(notFoundPath)
	}
	if conflict, ok := store.AsConflict(err); ok {
		return domain.ErrTaken(conflict.Field)
	}
	return err
}
