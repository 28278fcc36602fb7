package models

import "time"

// ResetToken — токен восстановления пароля. В базе хранится только
// sha256-хэш токена, сам токен уходит пользователю в письме.
type ResetToken struct {
	ID        int
	Email     string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// ResetMail — сообщение для очереди отправки писем восстановления пароля.
type ResetMail struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
