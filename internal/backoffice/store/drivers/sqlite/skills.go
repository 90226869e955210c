package sqlite

import (
	"context"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
)

type skillsRepo struct {
	q querier
}

const skillColumns = `id, name, image, progress, created_at, updated_at`

func scanSkill(row interface{ Scan(...any) error }) (domain.Skill, error) {
	var s domain.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Image, &s.Progress, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *skillsRepo) CreateSkill(ctx context.Context, s domain.Skill) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO skills (`+skillColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Image, s.Progress, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *skillsRepo) GetSkillByID(ctx context.Context, id string) (domain.Skill, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)
	s, err := scanSkill(row)
	if err != nil {
		return domain.Skill{}, mapNotFound(err)
	}
	return s, nil
}

func (r *skillsRepo) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *skillsRepo) UpdateSkill(ctx context.Context, s domain.Skill) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE skills SET name = ?, image = ?, progress = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Image, s.Progress, time.Now().UTC(), s.ID,
	)
	if err != nil {
		return err
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

func (r *skillsRepo) DeleteSkill(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return err
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
