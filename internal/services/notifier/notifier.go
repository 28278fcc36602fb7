// Package services реализует джобу уведомлений о скором истечении срока
// годности. Джоба запускается раз в сутки, обходит кладовые строго
// последовательно и отправляет каждому владельцу одно письмо со всеми
// его истекающими продуктами.
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// Формат хранения срока годности.
const expiryDateLayout = "2006-01-02"

// IngredientRepository отдаёт ингредиенты с заполненными владельцем
// и сроком годности.
type IngredientRepository interface {
	ListExpiringCandidates(ctx context.Context) ([]*models.Ingredient, error)
}

// UserProvider резолвит ссылку на владельца кладовой.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByRawRef(ctx context.Context, ref string) (*models.User, error)
	GetUserByLegacyRef(ctx context.Context, ref string) (*models.User, error)
}

// Mailer отправляет HTML-письма.
type Mailer interface {
	SendMail(to []string, subject, htmlBody string) error
}

// NotifierService находит истекающие продукты и рассылает владельцам письма.
type NotifierService struct {
	repo          IngredientRepository
	users         UserProvider
	mailer        Mailer
	timezone      string
	lookaheadDays int
	log           *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
// timezone — референсная таймзона для сравнения дат, lookaheadDays — окно
// просмотра вперёд в днях (0 = только продукты, истекающие сегодня).
func NewNotifierService(repo IngredientRepository, users UserProvider, mailer Mailer,
	timezone string, lookaheadDays int, log *slog.Logger) *NotifierService {
	return &NotifierService{
		repo:          repo,
		users:         users,
		mailer:        mailer,
		timezone:      timezone,
		lookaheadDays: lookaheadDays,
		log:           log,
	}
}

var mailTemplate = template.Must(template.New("expiry").Parse(`<html>
<body>
<p>Hello, {{.Username}}!</p>
<p>The following items in your pantry are expiring soon:</p>
<ul>
{{- range .Items}}
<li><b>{{.Name}}</b> — {{.Quantity}} {{.Unit}}, expires {{.ExpiryDate}}</li>
{{- end}}
</ul>
<p>Use them before they go to waste.</p>
</body>
</html>`))

type mailData struct {
	Username string
	Items    []models.ExpiringItem
}

// Run выполняет один проход джобы: находит истекающие продукты, группирует
// их по владельцу и отправляет письма. Сбой на одном владельце не прерывает
// обход остальных. Возвращает количество отправленных писем.
func (s *NotifierService) Run(ctx context.Context) (int, error) {
	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		return 0, fmt.Errorf("invalid notifier timezone %q: %w", s.timezone, err)
	}
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	s.log.Info("starting expiry notification run",
		slog.String("timezone", s.timezone), slog.Int("lookahead_days", s.lookaheadDays))

	candidates, err := s.repo.ListExpiringCandidates(ctx)
	if err != nil {
		return 0, err
	}

	// Группировка по ссылке на владельца с сохранением порядка обхода
	groups := make(map[string][]models.ExpiringItem)
	var ownerRefs []string
	for _, ing := range candidates {
		expiry, err := time.ParseInLocation(expiryDateLayout, *ing.ExpiryDate, loc)
		if err != nil {
			s.log.Warn("skipping ingredient with unparseable expiry date",
				slog.String("id", ing.ID), slog.String("expiry_date", *ing.ExpiryDate))
			continue
		}
		daysLeft := daysBetween(today, expiry)
		if daysLeft < 0 || daysLeft > s.lookaheadDays {
			continue
		}
		if _, ok := groups[ing.UserUID]; !ok {
			ownerRefs = append(ownerRefs, ing.UserUID)
		}
		groups[ing.UserUID] = append(groups[ing.UserUID], models.ExpiringItem{
			Name:       ing.Name,
			Quantity:   ing.Quantity,
			Unit:       ing.Unit,
			ExpiryDate: *ing.ExpiryDate,
		})
	}

	if len(groups) == 0 {
		s.log.Info("no expiry notifications to send")
		return 0, nil
	}

	var sent int
	for _, ref := range ownerRefs {
		owner, err := s.resolveOwnerRef(ctx, ref)
		if err != nil {
			s.log.Warn("skipping pantry with unresolvable owner", slog.String("owner_ref", ref))
			continue
		}
		if err := s.sendExpiryMail(owner, groups[ref]); err != nil {
			s.log.Error("failed to send expiry notification",
				slog.String("email", owner.Email), sl.Err(err))
			continue
		}
		sent++
	}

	s.log.Info("expiry notification run finished",
		slog.Int("pantries", len(groups)), slog.Int("sent", sent))
	return sent, nil
}

func (s *NotifierService) sendExpiryMail(owner *models.User, items []models.ExpiringItem) error {
	var body bytes.Buffer
	if err := mailTemplate.Execute(&body, mailData{
		Username: owner.Username,
		Items:    items,
	}); err != nil {
		return fmt.Errorf("failed to render mail template: %w", err)
	}
	return s.mailer.SendMail([]string{owner.Email}, "Ingredients expiring soon", body.String())
}

// daysBetween считает расстояние между двумя датами в календарных днях.
// Обе даты нормализуются к полуночи UTC, поэтому переход на летнее время
// в референсной таймзоне не сдвигает результат.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// resolveOwnerRef разбирает ссылку на владельца в порядке: валидный UUID,
// текстовое представление UID, идентификатор из старой системы.
func (s *NotifierService) resolveOwnerRef(ctx context.Context, ref string) (*models.User, error) {
	if _, err := uuid.Parse(ref); err == nil {
		if user, err := s.users.GetUser(ctx, ref); err == nil {
			return user, nil
		}
	}
	if user, err := s.users.GetUserByRawRef(ctx, ref); err == nil {
		return user, nil
	}
	return s.users.GetUserByLegacyRef(ctx, ref)
}
