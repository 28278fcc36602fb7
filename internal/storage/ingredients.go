package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

func scanIngredient(scanner interface{ Scan(...any) error }) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	var userUID, expiryDate, notes sql.NullString
	if err := scanner.Scan(&ing.ID, &userUID, &ing.Name, &ing.Quantity,
		&ing.Unit, &ing.Category, &expiryDate, &notes); err != nil {
		return nil, err
	}
	if userUID.Valid {
		ing.UserUID = userUID.String
	}
	if expiryDate.Valid {
		ing.ExpiryDate = &expiryDate.String
	}
	if notes.Valid {
		ing.Notes = &notes.String
	}
	return ing, nil
}

// CreateIngredient сохраняет новый ингредиент и возвращает его ID.
func (s *Storage) CreateIngredient(ctx context.Context, ing models.Ingredient) (string, error) {
	const op = "storage.CreateIngredient"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO ingredients (user_uid, name, quantity, unit, category, expiry_date, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		ing.UserUID, ing.Name, ing.Quantity, ing.Unit, ing.Category,
		ing.ExpiryDate, ing.Notes).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetIngredient возвращает ингредиент по его ID.
func (s *Storage) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	const op = "storage.GetIngredient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, quantity, unit, category, expiry_date, notes
			  FROM ingredients
			  WHERE id = $1`
	ing, err := scanIngredient(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ing, nil
}

// ListIngredients возвращает все ингредиенты кладовой.
func (s *Storage) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	const op = "storage.ListIngredients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, quantity, unit, category, expiry_date, notes
			  FROM ingredients`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListExpiringCandidates возвращает ингредиенты, у которых заполнены
// и владелец, и срок годности. Разбор даты выполняет вызывающая сторона.
func (s *Storage) ListExpiringCandidates(ctx context.Context) ([]*models.Ingredient, error) {
	const op = "storage.ListExpiringCandidates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, quantity, unit, category, expiry_date, notes
			  FROM ingredients
			  WHERE expiry_date IS NOT NULL AND expiry_date <> ''
			    AND user_uid IS NOT NULL AND user_uid <> ''`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateIngredient обновляет ингредиент и возвращает количество изменённых строк.
func (s *Storage) UpdateIngredient(ctx context.Context, id string, ing models.Ingredient) (int, error) {
	const op = "storage.UpdateIngredient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE ingredients
			  SET name = $1, quantity = $2, unit = $3, category = $4,
			      expiry_date = $5, notes = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		ing.Name, ing.Quantity, ing.Unit, ing.Category,
		ing.ExpiryDate, ing.Notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveIngredient удаляет ингредиент и возвращает количество удалённых строк.
func (s *Storage) RemoveIngredient(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveIngredient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM ingredients
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
