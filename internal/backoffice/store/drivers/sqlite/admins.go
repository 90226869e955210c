package sqlite

import (
	"context"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
)

type adminsRepo struct {
	q querier
}

const adminColumns = `id, firstname, lastname, nickname, email, password_hash, role, is_active, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }) (domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(
		&a.ID, &a.Firstname, &a.Lastname, &a.Nickname, &a.Email,
		&a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	a, err := scanAdmin(row)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminsRepo) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	a, err := scanAdmin(row)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminsRepo) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO admins (`+adminColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Firstname, a.Lastname, a.Nickname, a.Email,
		a.PasswordHash, a.Role, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *adminsRepo) UpdateProfile(ctx context.Context, id, firstname, lastname, nickname string) error {
	return r.exec(ctx, `
		UPDATE admins SET firstname = ?, lastname = ?, nickname = ?, updated_at = ?
		WHERE id = ?`,
		firstname, lastname, nickname, time.Now().UTC(), id,
	)
}

func (r *adminsRepo) UpdateEmail(ctx context.Context, id, email string) error {
	return r.exec(ctx, `
		UPDATE admins SET email = ?, updated_at = ? WHERE id = ?`,
		email, time.Now().UTC(), id,
	)
}

func (r *adminsRepo) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	return r.exec(ctx, `
		UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id,
	)
}

func (r *adminsRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.exec(ctx, `
		UPDATE admins SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id,
	)
}

func (r *adminsRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, `
		UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
}

func (r *adminsRepo) DeleteAdmin(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM admins WHERE id = ?`, id)
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// exec runs a mutation that must touch exactly one existing row,
// mapping zero affected rows to ErrNotFound and UNIQUE violations to
// ConflictError.
func (r *adminsRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapUnique(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
