// Package services содержит бизнес-логику шаринга кладовой между пользователями.
//
// Заявка адресуется получателю по username: если имя ещё не зарегистрировано
// или пользователь сменил его, заявка резолвится в текущего владельца имени
// в момент чтения, а не в момент создания.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/timeago"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	"github.com/magabrotheeeer/pantry-aggregator/internal/storage"
)

// Ошибки уровня бизнес-логики шаринга.
var (
	// ErrUserNotFound — отправитель или получатель не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfShare — попытка поделиться кладовой с самим собой.
	ErrSelfShare = errors.New("cannot share pantry with yourself")
	// ErrDuplicatePending — на эту пару уже есть ожидающая заявка.
	ErrDuplicatePending = errors.New("share request already pending")
	// ErrRequestNotFound — заявка не существует или не адресована пользователю.
	ErrRequestNotFound = errors.New("share request not found")
)

// UserProvider описывает доступ к пользователям, включая разбор
// исторических ссылок на владельца.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByRawRef(ctx context.Context, ref string) (*models.User, error)
	GetUserByLegacyRef(ctx context.Context, ref string) (*models.User, error)
}

// ShareRepository описывает контракт для работы с заявками в базе данных.
type ShareRepository interface {
	CreateShareRequest(ctx context.Context, req models.ShareRequest) (string, error)
	GetShareRequest(ctx context.Context, id string) (*models.ShareRequest, error)
	FindPendingPair(ctx context.Context, fromUserUID, toUsername string) (*models.ShareRequest, error)
	ListPendingByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error)
	ListByFromUser(ctx context.Context, fromUserUID string) ([]*models.ShareRequest, error)
	ListAcceptedByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error)
	UpdateShareStatus(ctx context.Context, id, status string) (int, error)
}

// ShareService реализует жизненный цикл заявок на шаринг.
type ShareService struct {
	users UserProvider
	repo  ShareRepository
	log   *slog.Logger
}

// NewShareService создает новый экземпляр ShareService.
func NewShareService(users UserProvider, repo ShareRepository, log *slog.Logger) *ShareService {
	return &ShareService{
		users: users,
		repo:  repo,
		log:   log,
	}
}

// CreateRequest создает заявку на доступ к кладовой получателя.
// Заявка стартует в статусе pending. На пару (отправитель, получатель)
// допускается не более одной ожидающей заявки.
func (s *ShareService) CreateRequest(ctx context.Context, fromUserUID, toUsername, permission string) (string, error) {
	if _, err := uuid.Parse(fromUserUID); err != nil {
		return "", ErrUserNotFound
	}
	sender, err := s.users.GetUser(ctx, fromUserUID)
	if err != nil {
		return "", ErrUserNotFound
	}

	recipient, err := s.users.GetUserByUsername(ctx, toUsername)
	if err != nil {
		return "", ErrUserNotFound
	}
	if recipient.UID == sender.UID {
		return "", ErrSelfShare
	}

	if _, err := s.repo.FindPendingPair(ctx, sender.UID, recipient.Username); err == nil {
		return "", ErrDuplicatePending
	}

	if permission == "" {
		permission = models.SharePermissionView
	}

	id, err := s.repo.CreateShareRequest(ctx, models.ShareRequest{
		FromUserUID: sender.UID,
		ToUsername:  recipient.Username,
		ToEmail:     recipient.Email,
		Status:      models.ShareStatusPending,
		Permission:  permission,
	})
	if err != nil {
		// Уникальный индекс закрывает гонку между проверкой и вставкой
		if errors.Is(err, storage.ErrDuplicatePair) {
			return "", ErrDuplicatePending
		}
		return "", fmt.Errorf("create share request: %w", err)
	}

	s.log.Info("created share request",
		slog.String("id", id), slog.String("to_username", recipient.Username))
	return id, nil
}

// ListReceived возвращает ожидающие заявки, адресованные пользователю,
// от новых к старым. Данные отправителя резолвятся в момент чтения;
// заявки от удалённых отправителей в выдачу не попадают.
func (s *ShareService) ListReceived(ctx context.Context, userUID string) ([]*models.ReceivedShareView, error) {
	user, err := s.resolveUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.ListPendingByToUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]*models.ReceivedShareView, 0, len(requests))
	for _, req := range requests {
		sender, err := s.resolveOwnerRef(ctx, req.FromUserUID)
		if err != nil {
			s.log.Warn("skipping share request with unresolvable sender",
				slog.String("request_id", req.ID), slog.String("from_user_uid", req.FromUserUID))
			continue
		}
		views = append(views, &models.ReceivedShareView{
			ID:           req.ID,
			FromUserUID:  req.FromUserUID,
			FromUsername: sender.Username,
			FromEmail:    sender.Email,
			ToUsername:   req.ToUsername,
			Status:       req.Status,
			Permission:   req.Permission,
			TimeAgo:      timeago.Since(now, req.CreatedAt),
			CreatedAt:    req.CreatedAt.Format(time.RFC3339),
		})
	}
	return views, nil
}

// ListSent возвращает все заявки, отправленные пользователем, от новых к старым.
func (s *ShareService) ListSent(ctx context.Context, userUID string) ([]*models.ShareRequest, error) {
	user, err := s.resolveUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByFromUser(ctx, user.UID)
}

// Respond выставляет заявке статус accepted или rejected. Отвечать может
// только адресат заявки. Повторный ответ перезаписывает статус и обновляет
// updated_at, даже если заявка уже была в терминальном статусе.
func (s *ShareService) Respond(ctx context.Context, userUID, requestID string, accept bool) error {
	user, err := s.resolveUser(ctx, userUID)
	if err != nil {
		return err
	}

	if _, err := uuid.Parse(requestID); err != nil {
		return ErrRequestNotFound
	}
	req, err := s.repo.GetShareRequest(ctx, requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	// Чужая заявка неотличима от несуществующей
	if req.ToUsername != user.Username {
		return ErrRequestNotFound
	}

	status := models.ShareStatusRejected
	if accept {
		status = models.ShareStatusAccepted
	}
	rowsAffected, err := s.repo.UpdateShareStatus(ctx, requestID, status)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	s.log.Info("share request answered",
		slog.String("id", requestID), slog.String("status", status))
	return nil
}

// ListSharedWith возвращает пользователей, открывших свою кладовую
// указанному пользователю. Отправители с неразрешимой ссылкой пропускаются.
func (s *ShareService) ListSharedWith(ctx context.Context, userUID string) ([]*models.SharedWithEntry, error) {
	user, err := s.resolveUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.ListAcceptedByToUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.SharedWithEntry, 0, len(requests))
	for _, req := range requests {
		sharer, err := s.resolveOwnerRef(ctx, req.FromUserUID)
		if err != nil {
			s.log.Warn("skipping share with unresolvable sender",
				slog.String("request_id", req.ID), slog.String("from_user_uid", req.FromUserUID))
			continue
		}
		sharedAt := req.CreatedAt
		if req.UpdatedAt != nil {
			sharedAt = *req.UpdatedAt
		}
		entries = append(entries, &models.SharedWithEntry{
			UserUID:    sharer.UID,
			Username:   sharer.Username,
			Email:      sharer.Email,
			Permission: req.Permission,
			SharedAt:   sharedAt.Format(time.RFC3339),
		})
	}
	return entries, nil
}

func (s *ShareService) resolveUser(ctx context.Context, userUID string) (*models.User, error) {
	if _, err := uuid.Parse(userUID); err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// resolveOwnerRef разбирает ссылку на пользователя в порядке: валидный UUID,
// текстовое представление UID, идентификатор из старой системы.
func (s *ShareService) resolveOwnerRef(ctx context.Context, ref string) (*models.User, error) {
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
