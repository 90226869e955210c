package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
)

var ErrNotFound = errors.New("store: not found")

// ConflictError reports a unique-constraint violation and carries the
// offending column so the HTTP layer can answer 409 with a field path.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: conflict on %s", e.Field)
}

// AsConflict unwraps err into a *ConflictError when there is one.
func AsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// Store is the root data access interface. Concrete drivers implement
// this. It exposes sub-repositories to keep concerns tidy and testable,
// and to actively stop people from accidentally nesting transactions.
type Store interface {
	Admins() Admins
	Sessions() Sessions
	ResetTokens() ResetTokens
	Skills() Skills
	Experiences() Experiences

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// errors and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Admins interface {
	// GetAdminByID returns an admin by id.
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)

	// GetAdminByEmail is the login lookup.
	GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error)

	// ListAdmins returns all admins, newest first.
	ListAdmins(ctx context.Context) ([]domain.Admin, error)

	// CreateAdmin inserts a new admin (id is provided by app via ULID).
	// Duplicate emails surface as a ConflictError on "email".
	CreateAdmin(ctx context.Context, a domain.Admin) error

	// UpdateProfile mutates the name fields and bumps updated_at.
	UpdateProfile(ctx context.Context, id, firstname, lastname, nickname string) error

	// UpdateEmail changes the login identifier. Duplicates surface as a
	// ConflictError on "email".
	UpdateEmail(ctx context.Context, id, email string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, newHash string) error

	// UpdateRole sets the privilege tier.
	UpdateRole(ctx context.Context, id string, role domain.Role) error

	// SetActive flips the active flag.
	SetActive(ctx context.Context, id string, active bool) error

	// DeleteAdmin cascades to sessions and reset tokens (per schema).
	DeleteAdmin(ctx context.Context, id string) error

	// IsEmpty reports whether there are no admins yet.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession inserts a new active session.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns a session by id regardless of state.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// GetActiveSessionByOwner returns the caller's current session.
	GetActiveSessionByOwner(ctx context.Context, ownerID string) (domain.Session, error)

	// ListSessions returns sessions, optionally filtered to one owner,
	// newest first.
	ListSessions(ctx context.Context, ownerID string) ([]domain.Session, error)

	// RevokeSessions marks every active session of the owner inactive,
	// except the one named by keepID when keepID is non-empty.
	RevokeSessions(ctx context.Context, ownerID, keepID string) (int64, error)

	// DeleteInactiveSessions physically removes revoked sessions and
	// returns how many went.
	DeleteInactiveSessions(ctx context.Context) (int64, error)
}

type ResetTokens interface {
	// CreateResetToken stores a new reset token record.
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetValidResetToken returns the owner's valid, unexpired token.
	GetValidResetToken(ctx context.Context, ownerID string, now time.Time) (domain.ResetToken, error)

	// InvalidateResetTokens marks every valid token of the owner invalid.
	InvalidateResetTokens(ctx context.Context, ownerID string) error

	// Consume marks a single token invalid after successful use.
	Consume(ctx context.Context, id string) error

	// DeleteDeadResetTokens removes tokens that are invalid or expired.
	DeleteDeadResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type Skills interface {
	CreateSkill(ctx context.Context, s domain.Skill) error
	GetSkillByID(ctx context.Context, id string) (domain.Skill, error)
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	UpdateSkill(ctx context.Context, s domain.Skill) error
	DeleteSkill(ctx context.Context, id string) error
}

type Experiences interface {
	CreateExperience(ctx context.Context, e domain.Experience) error
	GetExperienceByID(ctx context.Context, id string) (domain.Experience, error)
	ListExperiences(ctx context.Context) ([]domain.Experience, error)
	UpdateExperience(ctx context.Context, e domain.Experience) error
	DeleteExperience(ctx context.Context, id string) error
}
