package models

// Ingredient представляет продукт в кладовой пользователя.
// ExpiryDate хранится строкой в формате YYYY-MM-DD: исторические записи
// могут содержать произвольные значения, парсинг выполняется при чтении.
type Ingredient struct {
	ID         string  `json:"id"`
	UserUID    string  `json:"user_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Category   string  `json:"category"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// DummyIngredient используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Ingredient.
type DummyIngredient struct {
	UserUID    string  `json:"user_id"`
	Name       string  `json:"name" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	Unit       string  `json:"unit" validate:"required"`
	Category   string  `json:"category" validate:"required"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// ExpiringItem — позиция в письме о скором истечении срока годности.
type ExpiringItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	ExpiryDate string  `json:"expiry_date"`
}
