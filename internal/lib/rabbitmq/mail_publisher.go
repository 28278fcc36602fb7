package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// MailPublisher публикует письма восстановления пароля в обменник mail.
type MailPublisher struct {
	ch *amqp.Channel
}

// NewMailPublisher создает новый MailPublisher поверх открытого канала.
func NewMailPublisher(ch *amqp.Channel) *MailPublisher {
	return &MailPublisher{ch: ch}
}

// PublishResetMail отправляет сообщение о сбросе пароля в очередь почтового сервиса.
func (p *MailPublisher) PublishResetMail(mail models.ResetMail) error {
	return PublishMessage(p.ch, "mail", "password_reset", mail)
}
