// Package services реализует отправку писем восстановления пароля,
// прочитанных из очереди сообщений.
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// Mailer отправляет HTML-письма.
type Mailer interface {
	SendMail(to []string, subject, htmlBody string) error
}

// SenderService отправляет письма восстановления пароля.
type SenderService struct {
	mailer     Mailer
	appBaseURL string
	log        *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// appBaseURL — база для построения ссылки сброса пароля в письме.
func NewSenderService(mailer Mailer, appBaseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		mailer:     mailer,
		appBaseURL: appBaseURL,
		log:        log,
	}
}

var resetMailTemplate = template.Must(template.New("reset").Parse(`<html>
<body>
<p>Hello!</p>
<p>You requested a password reset for your pantry account.</p>
<p><a href="{{.ResetLink}}">Reset your password</a></p>
<p>The link is valid for one hour and can be used once.
If you did not request a reset, ignore this message.</p>
</body>
</html>`))

// SendResetMail разбирает сообщение очереди и отправляет письмо
// со ссылкой сброса пароля.
func (s *SenderService) SendResetMail(body []byte) error {
	var message models.ResetMail
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s",
		s.appBaseURL, url.QueryEscape(message.Token))

	var mailBody bytes.Buffer
	if err := resetMailTemplate.Execute(&mailBody, struct{ ResetLink string }{resetLink}); err != nil {
		return fmt.Errorf("failed to render mail template: %w", err)
	}

	if err := s.mailer.SendMail([]string{message.Email}, "Password reset", mailBody.String()); err != nil {
		s.log.Error("failed to send reset mail", sl.Err(err))
		return err
	}
	s.log.Info("reset mail sent")
	return nil
}
