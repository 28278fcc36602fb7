// Package services содержит бизнес-логику работы с ингредиентами кладовой.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// IngredientRepository описывает контракт для работы с ингредиентами в базе данных.
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ing models.Ingredient) (string, error)
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id string, ing models.Ingredient) (int, error)
	RemoveIngredient(ctx context.Context, id string) (int, error)
}

// HistoryRepository записывает операции над ингредиентами в журнал.
type HistoryRepository interface {
	CreateHistoryEntry(ctx context.Context, entry models.HistoryEntry) (string, error)
}

// Cache описывает контракт кэша ингредиентов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// IngredientService реализует операции над кладовой. Каждая мутация
// дублируется записью в журнал операций.
type IngredientService struct {
	repo    IngredientRepository
	history HistoryRepository
	cache   Cache
	log     *slog.Logger
}

// NewIngredientService создает новый экземпляр IngredientService.
func NewIngredientService(repo IngredientRepository, history HistoryRepository,
	cache Cache, log *slog.Logger) *IngredientService {
	return &IngredientService{
		repo:    repo,
		history: history,
		cache:   cache,
		log:     log,
	}
}

// Create добавляет новый ингредиент в кладовую пользователя.
func (s *IngredientService) Create(ctx context.Context, userUID string, req models.DummyIngredient) (string, error) {
	ing := models.Ingredient{
		UserUID:    userUID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Category:   req.Category,
		ExpiryDate: req.ExpiryDate,
		Notes:      req.Notes,
	}

	id, err := s.repo.CreateIngredient(ctx, ing)
	if err != nil {
		return "", err
	}
	s.log.Info("created new ingredient", slog.String("id", id))

	s.logHistory(ctx, req.Name, "added", &req.Quantity, &req.Unit)

	ing.ID = id
	cacheKey := fmt.Sprintf("ingredient:%s", id)
	if err := s.cache.Set(cacheKey, ing, time.Hour); err != nil {
		s.log.Warn("failed to cache ingredient", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает ингредиент по ID, сначала проверяя кэш.
// Невалидный UUID трактуется как отсутствие записи.
func (s *IngredientService) Read(ctx context.Context, id string) (*models.Ingredient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}

	var result *models.Ingredient
	cacheKey := fmt.Sprintf("ingredient:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает все ингредиенты кладовой.
func (s *IngredientService) List(ctx context.Context) ([]*models.Ingredient, error) {
	return s.repo.ListIngredients(ctx)
}

// Update обновляет ингредиент и возвращает количество изменённых строк.
// Невалидный UUID трактуется как отсутствие записи.
func (s *IngredientService) Update(ctx context.Context, id string, req models.DummyIngredient) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	ing := models.Ingredient{
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Category:   req.Category,
		ExpiryDate: req.ExpiryDate,
		Notes:      req.Notes,
	}
	rowsAffected, err := s.repo.UpdateIngredient(ctx, id, ing)
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return 0, nil
	}
	s.log.Info("updated ingredient in storage", slog.String("id", id))

	s.logHistory(ctx, req.Name, "updated", &req.Quantity, &req.Unit)

	ing.ID = id
	cacheKey := fmt.Sprintf("ingredient:%s", id)
	if err := s.cache.Set(cacheKey, ing, time.Hour); err != nil {
		s.log.Warn("failed to cache ingredient", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return rowsAffected, nil
}

// Remove удаляет ингредиент и возвращает количество удалённых строк.
// Невалидный UUID трактуется как отсутствие записи.
func (s *IngredientService) Remove(ctx context.Context, id string) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	existing, err := s.repo.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	cacheKey := fmt.Sprintf("ingredient:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	rowsAffected, err := s.repo.RemoveIngredient(ctx, id)
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 {
		s.logHistory(ctx, existing.Name, "deleted", &existing.Quantity, &existing.Unit)
	}
	return rowsAffected, nil
}

// Журнал операций ведётся по принципу best effort: сбой записи
// не откатывает саму операцию.
func (s *IngredientService) logHistory(ctx context.Context, name, action string, quantity *float64, unit *string) {
	_, err := s.history.CreateHistoryEntry(ctx, models.HistoryEntry{
		IngredientName: name,
		Action:         action,
		Quantity:       quantity,
		Unit:           unit,
	})
	if err != nil {
		s.log.Warn("failed to write history entry", sl.Err(err))
	}
}
