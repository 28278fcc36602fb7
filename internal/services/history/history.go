// Package services содержит бизнес-логику журнала операций над кладовой.
package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// HistoryRepository описывает контракт для работы с журналом в базе данных.
type HistoryRepository interface {
	CreateHistoryEntry(ctx context.Context, entry models.HistoryEntry) (string, error)
	ListHistory(ctx context.Context, action string) ([]*models.HistoryEntry, error)
}

// HistoryService реализует чтение и ручное пополнение журнала операций.
type HistoryService struct {
	repo HistoryRepository
	log  *slog.Logger
}

// NewHistoryService создает новый экземпляр HistoryService.
func NewHistoryService(repo HistoryRepository, log *slog.Logger) *HistoryService {
	return &HistoryService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет запись журнала вручную, минуя операции над ингредиентами.
func (s *HistoryService) Create(ctx context.Context, req models.DummyHistoryEntry) (string, error) {
	id, err := s.repo.CreateHistoryEntry(ctx, models.HistoryEntry{
		IngredientName: req.IngredientName,
		Action:         req.Action,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Details:        req.Details,
		Timestamp:      req.Timestamp,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created history entry", slog.String("id", id))
	return id, nil
}

// List возвращает записи журнала от новых к старым. Пустые action и search
// означают отсутствие фильтра. Поиск — регистронезависимое вхождение
// подстроки в имя ингредиента.
func (s *HistoryService) List(ctx context.Context, action, search string) ([]*models.HistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx, action)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return entries, nil
	}

	needle := strings.ToLower(search)
	filtered := make([]*models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.IngredientName), needle) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}
