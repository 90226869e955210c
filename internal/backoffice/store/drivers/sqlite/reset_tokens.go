package sqlite

import (
	"context"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/internal/backoffice/store"
)

type resetTokensRepo struct {
	q querier
}

const resetTokenColumns = `id, owner_id, token_hash, is_valid, expires_at, created_at`

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reset_tokens (`+resetTokenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.TokenHash, t.IsValid, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

func (r *resetTokensRepo) GetValidResetToken(ctx context.Context, ownerID string, now time.Time) (domain.ResetToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+resetTokenColumns+` FROM reset_tokens
		WHERE owner_id = ? AND is_valid = 1 AND expires_at >= ?
		ORDER BY created_at DESC LIMIT 1`,
		ownerID, now,
	)

	var t domain.ResetToken
	err := row.Scan(&t.ID, &t.OwnerID, &t.TokenHash, &t.IsValid, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) InvalidateResetTokens(ctx context.Context, ownerID string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE reset_tokens SET is_valid = 0 WHERE owner_id = ? AND is_valid = 1`,
		ownerID,
	)
	return err
}

func (r *resetTokensRepo) Consume(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE reset_tokens SET is_valid = 0 WHERE id = ? AND is_valid = 1`, id)
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

func (r *resetTokensRepo) DeleteDeadResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM reset_tokens WHERE is_valid = 0 OR expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
