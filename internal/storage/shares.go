package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// ErrDuplicatePair — срабатывание частичного уникального индекса: на пару
// (отправитель, получатель) уже есть ожидающая заявка.
var ErrDuplicatePair = errors.New("pending share request already exists")

// Код unique_violation в PostgreSQL.
const uniqueViolationCode = "23505"

func scanShareRequest(scanner interface{ Scan(...any) error }) (*models.ShareRequest, error) {
	req := &models.ShareRequest{}
	var toEmail sql.NullString
	var updatedAt sql.NullTime
	if err := scanner.Scan(&req.ID, &req.FromUserUID, &req.ToUsername, &toEmail,
		&req.Status, &req.Permission, &req.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if toEmail.Valid {
		req.ToEmail = toEmail.String
	}
	if updatedAt.Valid {
		req.UpdatedAt = &updatedAt.Time
	}
	return req, nil
}

func (s *Storage) collectShareRequests(ctx context.Context, op, query string, args ...any) ([]*models.ShareRequest, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ShareRequest
	for rows.Next() {
		req, err := scanShareRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateShareRequest сохраняет новую заявку на шаринг и возвращает её ID.
func (s *Storage) CreateShareRequest(ctx context.Context, req models.ShareRequest) (string, error) {
	const op = "storage.CreateShareRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO share_requests (from_user_uid, to_username, to_email, status, permission)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		req.FromUserUID, req.ToUsername, req.ToEmail,
		req.Status, req.Permission).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicatePair)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetShareRequest возвращает заявку по её ID.
func (s *Storage) GetShareRequest(ctx context.Context, id string) (*models.ShareRequest, error) {
	const op = "storage.GetShareRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_user_uid, to_username, to_email, status, permission, created_at, updated_at
			  FROM share_requests
			  WHERE id = $1`
	req, err := scanShareRequest(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// FindPendingPair ищет ожидающую заявку от отправителя к получателю.
func (s *Storage) FindPendingPair(ctx context.Context, fromUserUID, toUsername string) (*models.ShareRequest, error) {
	const op = "storage.FindPendingPair"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_user_uid, to_username, to_email, status, permission, created_at, updated_at
			  FROM share_requests
			  WHERE from_user_uid = $1 AND to_username = $2 AND status = 'pending'`
	req, err := scanShareRequest(s.DB.QueryRowContext(ctx, query, fromUserUID, toUsername))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// ListPendingByToUsername возвращает ожидающие заявки, адресованные
// пользователю, от новых к старым.
func (s *Storage) ListPendingByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error) {
	const op = "storage.ListPendingByToUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_user_uid, to_username, to_email, status, permission, created_at, updated_at
			  FROM share_requests
			  WHERE to_username = $1 AND status = 'pending'
			  ORDER BY created_at DESC`
	return s.collectShareRequests(ctx, op, query, toUsername)
}

// ListByFromUser возвращает все заявки, отправленные пользователем,
// от новых к старым.
func (s *Storage) ListByFromUser(ctx context.Context, fromUserUID string) ([]*models.ShareRequest, error) {
	const op = "storage.ListByFromUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_user_uid, to_username, to_email, status, permission, created_at, updated_at
			  FROM share_requests
			  WHERE from_user_uid = $1
			  ORDER BY created_at DESC`
	return s.collectShareRequests(ctx, op, query, fromUserUID)
}

// ListAcceptedByToUsername возвращает принятые заявки, адресованные
// пользователю, от новых к старым.
func (s *Storage) ListAcceptedByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error) {
	const op = "storage.ListAcceptedByToUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, from_user_uid, to_username, to_email, status, permission, created_at, updated_at
			  FROM share_requests
			  WHERE to_username = $1 AND status = 'accepted'
			  ORDER BY created_at DESC`
	return s.collectShareRequests(ctx, op, query, toUsername)
}

// UpdateShareStatus выставляет заявке новый статус, обновляет updated_at
// и возвращает количество изменённых строк.
func (s *Storage) UpdateShareStatus(ctx context.Context, id, status string) (int, error) {
	const op = "storage.UpdateShareStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE share_requests
			  SET status = $1, updated_at = CURRENT_TIMESTAMP
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
