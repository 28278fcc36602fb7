package services_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	services "github.com/magabrotheeeer/pantry-aggregator/internal/services/resetmail"
)

// Мок для Mailer
type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendMail(to []string, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

func TestSenderService_SendResetMail(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("successful send", func(t *testing.T) {
		mailer := new(MailerMock)
		svc := services.NewSenderService(mailer, "https://pantry.example.com", log)

		mailer.On("SendMail", []string{"alice@example.com"}, "Password reset",
			mock.MatchedBy(func(body string) bool {
				return strings.Contains(body,
					"https://pantry.example.com/reset-password?token=raw-token")
			})).Return(nil).Once()

		payload, err := json.Marshal(models.ResetMail{
			Email: "alice@example.com",
			Token: "raw-token",
		})
		require.NoError(t, err)

		err = svc.SendResetMail(payload)
		assert.NoError(t, err)
		mailer.AssertExpectations(t)
	})

	t.Run("malformed message", func(t *testing.T) {
		mailer := new(MailerMock)
		svc := services.NewSenderService(mailer, "https://pantry.example.com", log)

		err := svc.SendResetMail([]byte("not json"))
		assert.Error(t, err)
		mailer.AssertNotCalled(t, "SendMail")
	})
}
