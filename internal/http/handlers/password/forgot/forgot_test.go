package forgot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс forgot.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestForgotHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный запрос восстановления",
			requestBody: Request{Email: "test@example.com"},
			setupMock: func(m *MockService) {
				m.On("RequestPasswordReset", mock.Anything, "test@example.com").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"if the email is registered, a reset link has been sent"`,
		},
		{
			name:        "незарегистрированный email получает тот же ответ",
			requestBody: Request{Email: "unknown@example.com"},
			setupMock: func(m *MockService) {
				m.On("RequestPasswordReset", mock.Anything, "unknown@example.com").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"if the email is registered, a reset link has been sent"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "некорректный email",
			requestBody:    Request{Email: "not-an-email"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: Request{Email: "test@example.com"},
			setupMock: func(m *MockService) {
				m.On("RequestPasswordReset", mock.Anything, "test@example.com").
					Return(errors.New("queue unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to request password reset"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/forgot-password/request", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
