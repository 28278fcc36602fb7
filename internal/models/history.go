package models

import "time"

// HistoryEntry — запись журнала операций над ингредиентами.
// Action принимает значения "added", "updated", "deleted", "used".
type HistoryEntry struct {
	ID             string     `json:"id"`
	IngredientName string     `json:"ingredient_name"`
	Action         string     `json:"action"`
	Quantity       *float64   `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	Details        *string    `json:"details,omitempty"`
	Timestamp      *time.Time `json:"timestamp"`
}

// DummyHistoryEntry используется для приёма данных из JSON-запроса.
type DummyHistoryEntry struct {
	IngredientName string     `json:"ingredient_name" validate:"required"`
	Action         string     `json:"action" validate:"required"`
	Quantity       *float64   `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	Details        *string    `json:"details,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}
