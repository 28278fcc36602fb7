// Package models содержит доменные структуры приложения: пользователей,
// ингредиенты, заявки на шаринг кладовой и записи истории.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string     `json:"id"`       // Уникальный идентификатор пользователя
	Username     string     `json:"username"` // Имя пользователя (уникальное)
	Email        string     `json:"email"`    // Электронная почта (уникальная)
	PasswordHash string     `json:"-"`        // Хэш пароля пользователя
	LegacyRef    string     `json:"-"`        // Идентификатор из старой системы, может быть пустым
	CreatedAt    *time.Time `json:"-"`
}
