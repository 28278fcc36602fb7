package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/magabrotheeeer/pantry-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	services "github.com/magabrotheeeer/pantry-aggregator/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.Int(0), args.Error(1)
}

// Мок для ResetTokenRepository
type TokenRepoMock struct {
	mock.Mock
}

func (m *TokenRepoMock) DeleteUnusedTokens(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *TokenRepoMock) CreateResetToken(ctx context.Context, token models.ResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *TokenRepoMock) FindValidToken(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResetToken), args.Error(1)
}

func (m *TokenRepoMock) MarkTokenUsed(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Мок для ResetMailPublisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishResetMail(mail models.ResetMail) error {
	args := m.Called(mail)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, userUID string) (string, error) {
	args := m.Called(username, userUID)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func newTestService(repo *UserRepoMock, tokens *TokenRepoMock,
	publisher *PublisherMock, jwtMock *JwtMakerMock) *services.AuthService {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return services.NewAuthService(repo, tokens, publisher, jwtMock, log)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		username    string
		password    string
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantErr     bool
		errMsg      string
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Username == "testuser" &&
						user.PasswordHash != ""
				})).Return("some-uuid-string", nil).Once()
			},
			wantUserUID: "some-uuid-string",
			wantErr:     false,
		},
		{
			name:     "repository error",
			email:    "test@example.com",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := newTestService(repo, new(TokenRepoMock), new(PublisherMock), new(JwtMakerMock))

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"

	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUser := &models.User{
		UID:          "user-uid-1",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: hashedPassword,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    bool
		errMsg     string
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				j.On("GenerateToken", "testuser", "user-uid-1").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
			wantErr:   false,
		},
		{
			name:     "user not found",
			username: "nonexistent",
			password: "password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "nonexistent").Return(nil, errors.New("user not found")).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "token generation error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				j.On("GenerateToken", "testuser", "user-uid-1").Return("", errors.New("token error")).Once()
			},
			wantErr: true,
			errMsg:  "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := newTestService(repo, new(TokenRepoMock), new(PublisherMock), jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, "testuser", user.Username)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	testUser := &models.User{
		UID:      "user-uid-1",
		Email:    "test@example.com",
		Username: "testuser",
	}

	tests := []struct {
		name       string
		email      string
		setupMocks func(r *UserRepoMock, tr *TokenRepoMock, p *PublisherMock)
		wantErr    bool
	}{
		{
			name:  "successful reset request",
			email: "test@example.com",
			setupMocks: func(r *UserRepoMock, tr *TokenRepoMock, p *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				tr.On("DeleteUnusedTokens", mock.Anything, "test@example.com").Return(nil).Once()
				tr.On("CreateResetToken", mock.Anything, mock.MatchedBy(func(token models.ResetToken) bool {
					// В базу уходит хэш, а не сырой токен
					return token.Email == "test@example.com" && len(token.TokenHash) == 64
				})).Return(nil).Once()
				p.On("PublishResetMail", mock.MatchedBy(func(mail models.ResetMail) bool {
					return mail.Email == "test@example.com" && mail.Token != ""
				})).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name:  "unknown email is silently ignored",
			email: "stranger@example.com",
			setupMocks: func(r *UserRepoMock, _ *TokenRepoMock, _ *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "stranger@example.com").
					Return(nil, errors.New("user not found")).Once()
			},
			wantErr: false,
		},
		{
			name:  "publish error",
			email: "test@example.com",
			setupMocks: func(r *UserRepoMock, tr *TokenRepoMock, p *PublisherMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				tr.On("DeleteUnusedTokens", mock.Anything, "test@example.com").Return(nil).Once()
				tr.On("CreateResetToken", mock.Anything, mock.Anything).Return(nil).Once()
				p.On("PublishResetMail", mock.Anything).Return(errors.New("broker unavailable")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tokens := new(TokenRepoMock)
			publisher := new(PublisherMock)
			svc := newTestService(repo, tokens, publisher, new(JwtMakerMock))

			tt.setupMocks(repo, tokens, publisher)

			err := svc.RequestPasswordReset(context.Background(), tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	storedToken := &models.ResetToken{
		ID:        1,
		Email:     "test@example.com",
		TokenHash: "stored-hash",
	}

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock, tr *TokenRepoMock)
		wantErr    error
	}{
		{
			name:  "successful password reset",
			token: "raw-token",
			setupMocks: func(r *UserRepoMock, tr *TokenRepoMock) {
				tr.On("FindValidToken", mock.Anything, mock.Anything).Return(storedToken, nil).Once()
				r.On("UpdatePasswordByEmail", mock.Anything, "test@example.com", mock.Anything).
					Return(1, nil).Once()
				tr.On("MarkTokenUsed", mock.Anything, 1).Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name:  "unknown token",
			token: "bad-token",
			setupMocks: func(_ *UserRepoMock, tr *TokenRepoMock) {
				tr.On("FindValidToken", mock.Anything, mock.Anything).
					Return(nil, errors.New("sql: no rows in result set")).Once()
			},
			wantErr: services.ErrInvalidResetToken,
		},
		{
			name:  "user deleted after token issued",
			token: "raw-token",
			setupMocks: func(r *UserRepoMock, tr *TokenRepoMock) {
				tr.On("FindValidToken", mock.Anything, mock.Anything).Return(storedToken, nil).Once()
				r.On("UpdatePasswordByEmail", mock.Anything, "test@example.com", mock.Anything).
					Return(0, nil).Once()
			},
			wantErr: services.ErrInvalidResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tokens := new(TokenRepoMock)
			svc := newTestService(repo, tokens, new(PublisherMock), new(JwtMakerMock))

			tt.setupMocks(repo, tokens)

			err := svc.ConfirmPasswordReset(context.Background(), tt.token, "newpassword123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
