package middlewarectx_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// MockService реализует интерфейс middlewarectx.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ValidateToken(ctx context.Context, token string) (*models.User, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockService)
		expectedStatus int
		wantUsername   string
		wantUserUID    string
	}{
		{
			name:       "валидный токен",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.User{Username: "alice", UID: "uid-1"}, true, nil)
			},
			expectedStatus: http.StatusOK,
			wantUsername:   "alice",
			wantUserUID:    "uid-1",
		},
		{
			name:           "нет заголовка авторизации",
			authHeader:     "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без схемы Bearer",
			authHeader:     "Token abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "просроченный токен",
			authHeader: "Bearer expired-token",
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "expired-token").
					Return(nil, false, errors.New("token expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			var gotUsername, gotUserUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUsername, _ = r.Context().Value(middlewarectx.User).(string)
				gotUserUID, _ = r.Context().Value(middlewarectx.UserUID).(string)
				w.WriteHeader(http.StatusOK)
			})

			handler := middlewarectx.JWTMiddleware(mockService, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "/ingredients", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.wantUsername, gotUsername)
				assert.Equal(t, tt.wantUserUID, gotUserUID)
			}

			mockService.AssertExpectations(t)
		})
	}
}
