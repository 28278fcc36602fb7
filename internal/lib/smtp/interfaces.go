// Package smtp предоставляет интерфейсы для работы с SMTP.
package smtp

import "io"

// Client интерфейс для SMTP клиента.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Mailer интерфейс отправки письма: получатель, тема, HTML-тело.
type Mailer interface {
	SendMail(to []string, subject, htmlBody string) error
}
