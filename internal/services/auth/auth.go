// Package services содержит логику бизнес-уровня для работы с пользователями,
// аутентификацией и восстановлением пароля.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidResetToken возвращается, если токен восстановления не найден,
// просрочен или уже использован.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// Время жизни токена восстановления пароля.
const resetTokenTTL = time.Hour

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePasswordByEmail обновляет хэш пароля пользователя.
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int, error)
}

// ResetTokenRepository описывает контракт для работы с токенами восстановления.
type ResetTokenRepository interface {
	DeleteUnusedTokens(ctx context.Context, email string) error
	CreateResetToken(ctx context.Context, token models.ResetToken) error
	FindValidToken(ctx context.Context, tokenHash string) (*models.ResetToken, error)
	MarkTokenUsed(ctx context.Context, id int) error
}

// ResetMailPublisher публикует задание на отправку письма восстановления.
type ResetMailPublisher interface {
	PublishResetMail(mail models.ResetMail) error
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и восстановление пароля.
type AuthService struct {
	users     UserRepository
	tokens    ResetTokenRepository
	publisher ResetMailPublisher
	jwtMaker  jwt.Maker
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens ResetTokenRepository,
	publisher ResetMailPublisher, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		jwtMaker:  jwtMaker,
		log:       log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		Username: claims.Username,
		UID:      claims.UserUID,
	}
	return user, true, nil
}

// RequestPasswordReset выпускает токен восстановления и ставит письмо в очередь
// отправки. Если пользователь с таким email не найден, метод молча завершается:
// ответ API не должен раскрывать существование адреса.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.Info("password reset requested for unknown email")
		return nil
	}

	rawToken, err := generateResetToken()
	if err != nil {
		return err
	}

	// Активным остаётся только последний выпущенный токен
	if err := s.tokens.DeleteUnusedTokens(ctx, user.Email); err != nil {
		return err
	}
	if err := s.tokens.CreateResetToken(ctx, models.ResetToken{
		Email:     user.Email,
		TokenHash: hashResetToken(rawToken),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	if err := s.publisher.PublishResetMail(models.ResetMail{
		Email: user.Email,
		Token: rawToken,
	}); err != nil {
		s.log.Error("failed to publish reset mail", sl.Err(err))
		return err
	}

	s.log.Info("password reset token issued")
	return nil
}

// ConfirmPasswordReset проверяет токен восстановления и устанавливает
// новый пароль. Токен одноразовый: после успешного сброса он помечается
// использованным.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	token, err := s.tokens.FindValidToken(ctx, hashResetToken(rawToken))
	if err != nil {
		return ErrInvalidResetToken
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	rowsAffected, err := s.users.UpdatePasswordByEmail(ctx, token.Email, hashed)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvalidResetToken
	}

	if err := s.tokens.MarkTokenUsed(ctx, token.ID); err != nil {
		return err
	}
	s.log.Info("password reset completed")
	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// В базе хранится только sha256-хэш токена, чтобы утечка таблицы
// не позволяла сбросить чужой пароль.
func hashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
