package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// CreateHistoryEntry сохраняет запись журнала операций и возвращает её ID.
func (s *Storage) CreateHistoryEntry(ctx context.Context, entry models.HistoryEntry) (string, error) {
	const op = "storage.CreateHistoryEntry"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO history (ingredient_name, action, quantity, unit, details, ts)
			  VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_TIMESTAMP))
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.IngredientName, entry.Action, entry.Quantity,
		entry.Unit, entry.Details, entry.Timestamp).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListHistory возвращает записи журнала от новых к старым. Если action
// непустой, выборка ограничивается этим типом операции.
func (s *Storage) ListHistory(ctx context.Context, action string) ([]*models.HistoryEntry, error) {
	const op = "storage.ListHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, ingredient_name, action, quantity, unit, details, ts
			  FROM history
			  WHERE $1 = '' OR action = $1
			  ORDER BY ts DESC`
	rows, err := s.DB.QueryContext(ctx, query, action)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.HistoryEntry
	for rows.Next() {
		entry := &models.HistoryEntry{}
		var quantity sql.NullFloat64
		var unit, details sql.NullString
		var ts sql.NullTime
		if err := rows.Scan(&entry.ID, &entry.IngredientName, &entry.Action,
			&quantity, &unit, &details, &ts); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if quantity.Valid {
			entry.Quantity = &quantity.Float64
		}
		if unit.Valid {
			entry.Unit = &unit.String
		}
		if details.Valid {
			entry.Details = &details.String
		}
		if ts.Valid {
			entry.Timestamp = &ts.Time
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
