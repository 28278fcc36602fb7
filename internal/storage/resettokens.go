package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// DeleteUnusedTokens удаляет неиспользованные токены восстановления
// для указанного email. Вызывается перед выпуском нового токена, чтобы
// активным оставался только последний.
func (s *Storage) DeleteUnusedTokens(ctx context.Context, email string) error {
	const op = "storage.DeleteUnusedTokens"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reset_tokens
			  WHERE email = $1 AND used = false`
	if _, err := s.DB.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateResetToken сохраняет хэш токена восстановления пароля.
func (s *Storage) CreateResetToken(ctx context.Context, token models.ResetToken) error {
	const op = "storage.CreateResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reset_tokens (email, token_hash, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		token.Email, token.TokenHash, token.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindValidToken ищет неиспользованный и непросроченный токен по его хэшу.
func (s *Storage) FindValidToken(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	const op = "storage.FindValidToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	token := &models.ResetToken{}
	query := `SELECT id, email, token_hash, expires_at, used, created_at
			  FROM reset_tokens
			  WHERE token_hash = $1 AND used = false AND expires_at > CURRENT_TIMESTAMP`
	if err := s.DB.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.Email, &token.TokenHash,
		&token.ExpiresAt, &token.Used, &token.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// MarkTokenUsed помечает токен использованным.
func (s *Storage) MarkTokenUsed(ctx context.Context, id int) error {
	const op = "storage.MarkTokenUsed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reset_tokens
			  SET used = true
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
