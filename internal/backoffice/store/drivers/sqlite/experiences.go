package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
)

type experiencesRepo struct {
	q querier
}

const experienceColumns = `id, position, company, city, country, date_from, date_to, tasks, technologies, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (domain.Experience, error) {
	var (
		e    domain.Experience
		to   sql.NullTime
		tech string
	)
	err := row.Scan(
		&e.ID, &e.Position, &e.Company, &e.City, &e.Country,
		&e.From, &to, &e.Tasks, &tech, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Experience{}, err
	}
	e.To = mapNullTimePtr(to)
	if err := json.Unmarshal([]byte(tech), &e.Technologies); err != nil {
		return domain.Experience{}, err
	}
	return e, nil
}

func encodeTechnologies(tech []string) (string, error) {
	if tech == nil {
		tech = []string{}
	}
	b, err := json.Marshal(tech)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *experiencesRepo) CreateExperience(ctx context.Context, e domain.Experience) error {
	tech, err := encodeTechnologies(e.Technologies)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO experiences (`+experienceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Position, e.Company, e.City, e.Country,
		e.From, mapOptionalTime(e.To), e.Tasks, tech, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *experiencesRepo) GetExperienceByID(ctx context.Context, id string) (domain.Experience, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = ?`, id)
	e, err := scanExperience(row)
	if err != nil {
		return domain.Experience{}, mapNotFound(err)
	}
	return e, nil
}

func (r *experiencesRepo) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+experienceColumns+` FROM experiences ORDER BY date_from DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *experiencesRepo) UpdateExperience(ctx context.Context, e domain.Experience) error {
	tech, err := encodeTechnologies(e.Technologies)
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE experiences
		SET position = ?, company = ?, city = ?, country = ?,
		    date_from = ?, date_to = ?, tasks = ?, technologies = ?, updated_at = ?
		WHERE id = ?`,
		e.Position, e.Company, e.City, e.Country,
		e.From, mapOptionalTime(e.To), e.Tasks, tech, time.Now().UTC(), e.ID,
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

func (r *experiencesRepo) DeleteExperience(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM experiences WHERE id = ?`, id)
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
