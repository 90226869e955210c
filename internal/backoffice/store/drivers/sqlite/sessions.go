package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `id, owner_id, user_agent, is_active, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var (
		s  domain.Session
		ua sql.NullString
	)
	err := row.Scan(&s.ID, &s.OwnerID, &ua, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, err
	}
	s.UserAgent = mapNullStringPtr(ua)
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.OwnerID, mapOptionalString(s.UserAgent), s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) GetActiveSessionByOwner(ctx context.Context, ownerID string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE owner_id = ? AND is_active = 1
		ORDER BY created_at DESC LIMIT 1`, ownerID)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) ListSessions(ctx context.Context, ownerID string) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at DESC`
	args := []any{}
	if ownerID != "" {
		query = `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id = ? ORDER BY created_at DESC`
		args = append(args, ownerID)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionsRepo) RevokeSessions(ctx context.Context, ownerID, keepID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE sessions SET is_active = 0, updated_at = ?
		WHERE owner_id = ? AND is_active = 1 AND id != ?`,
		time.Now().UTC(), ownerID, keepID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) DeleteInactiveSessions(ctx context.Context) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE is_active = 0`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
