package services_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	services "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
	"github.com/magabrotheeeer/pantry-aggregator/internal/storage"
)

// Мок для UserProvider
type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) GetUserByRawRef(ctx context.Context, ref string) (*models.User, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) GetUserByLegacyRef(ctx context.Context, ref string) (*models.User, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для ShareRepository
type ShareRepoMock struct {
	mock.Mock
}

func (m *ShareRepoMock) CreateShareRequest(ctx context.Context, req models.ShareRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *ShareRepoMock) GetShareRequest(ctx context.Context, id string) (*models.ShareRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShareRequest), args.Error(1)
}

func (m *ShareRepoMock) FindPendingPair(ctx context.Context, fromUserUID, toUsername string) (*models.ShareRequest, error) {
	args := m.Called(ctx, fromUserUID, toUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShareRequest), args.Error(1)
}

func (m *ShareRepoMock) ListPendingByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error) {
	args := m.Called(ctx, toUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShareRequest), args.Error(1)
}

func (m *ShareRepoMock) ListByFromUser(ctx context.Context, fromUserUID string) ([]*models.ShareRequest, error) {
	args := m.Called(ctx, fromUserUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShareRequest), args.Error(1)
}

func (m *ShareRepoMock) ListAcceptedByToUsername(ctx context.Context, toUsername string) ([]*models.ShareRequest, error) {
	args := m.Called(ctx, toUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShareRequest), args.Error(1)
}

func (m *ShareRepoMock) UpdateShareStatus(ctx context.Context, id, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}

func newTestService(users *UsersMock, repo *ShareRepoMock) *services.ShareService {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return services.NewShareService(users, repo, log)
}

func TestShareService_CreateRequest(t *testing.T) {
	senderUID := uuid.New().String()
	recipientUID := uuid.New().String()

	sender := &models.User{UID: senderUID, Username: "alice", Email: "alice@example.com"}
	recipient := &models.User{UID: recipientUID, Username: "bob", Email: "bob@example.com"}

	tests := []struct {
		name         string
		fromUserUID  string
		toUsername   string
		permission   string
		setupMocks   func(u *UsersMock, r *ShareRepoMock)
		wantID       string
		wantErr      error
		wantPlainErr bool
	}{
		{
			name:        "successful request",
			fromUserUID: senderUID,
			toUsername:  "bob",
			permission:  models.SharePermissionEdit,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "bob").Return(recipient, nil).Once()
				r.On("FindPendingPair", mock.Anything, senderUID, "bob").
					Return(nil, errors.New("sql: no rows in result set")).Once()
				r.On("CreateShareRequest", mock.Anything, mock.MatchedBy(func(req models.ShareRequest) bool {
					return req.FromUserUID == senderUID &&
						req.ToUsername == "bob" &&
						req.ToEmail == "bob@example.com" &&
						req.Status == models.ShareStatusPending &&
						req.Permission == models.SharePermissionEdit
				})).Return("request-id", nil).Once()
			},
			wantID: "request-id",
		},
		{
			name:        "default permission is view",
			fromUserUID: senderUID,
			toUsername:  "bob",
			permission:  "",
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "bob").Return(recipient, nil).Once()
				r.On("FindPendingPair", mock.Anything, senderUID, "bob").
					Return(nil, errors.New("sql: no rows in result set")).Once()
				r.On("CreateShareRequest", mock.Anything, mock.MatchedBy(func(req models.ShareRequest) bool {
					return req.Permission == models.SharePermissionView
				})).Return("request-id", nil).Once()
			},
			wantID: "request-id",
		},
		{
			name:        "recipient not found",
			fromUserUID: senderUID,
			toUsername:  "ghost",
			setupMocks: func(u *UsersMock, _ *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, errors.New("sql: no rows in result set")).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:        "self share",
			fromUserUID: senderUID,
			toUsername:  "alice",
			setupMocks: func(u *UsersMock, _ *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "alice").Return(sender, nil).Once()
			},
			wantErr: services.ErrSelfShare,
		},
		{
			name:        "duplicate pending request",
			fromUserUID: senderUID,
			toUsername:  "bob",
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "bob").Return(recipient, nil).Once()
				r.On("FindPendingPair", mock.Anything, senderUID, "bob").
					Return(&models.ShareRequest{ID: "existing"}, nil).Once()
			},
			wantErr: services.ErrDuplicatePending,
		},
		{
			name:        "invalid sender uid",
			fromUserUID: "not-a-uuid",
			toUsername:  "bob",
			setupMocks:  func(_ *UsersMock, _ *ShareRepoMock) {},
			wantErr:     services.ErrUserNotFound,
		},
		{
			// Гонка между проверкой и вставкой: уникальный индекс отвечает за пару
			name:        "insert race maps to duplicate pending",
			fromUserUID: senderUID,
			toUsername:  "bob",
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "bob").Return(recipient, nil).Once()
				r.On("FindPendingPair", mock.Anything, senderUID, "bob").
					Return(nil, errors.New("sql: no rows in result set")).Once()
				r.On("CreateShareRequest", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("storage.CreateShareRequest: %w", storage.ErrDuplicatePair)).Once()
			},
			wantErr: services.ErrDuplicatePending,
		},
		{
			name:        "insert outage is not a duplicate",
			fromUserUID: senderUID,
			toUsername:  "bob",
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, senderUID).Return(sender, nil).Once()
				u.On("GetUserByUsername", mock.Anything, "bob").Return(recipient, nil).Once()
				r.On("FindPendingPair", mock.Anything, senderUID, "bob").
					Return(nil, errors.New("sql: no rows in result set")).Once()
				r.On("CreateShareRequest", mock.Anything, mock.Anything).
					Return("", errors.New("dial tcp: connection refused")).Once()
			},
			wantPlainErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			repo := new(ShareRepoMock)
			svc := newTestService(users, repo)

			tt.setupMocks(users, repo)

			gotID, err := svc.CreateRequest(context.Background(), tt.fromUserUID, tt.toUsername, tt.permission)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantPlainErr:
				// Сбой хранилища не должен маскироваться под дубликат заявки
				require.Error(t, err)
				assert.NotErrorIs(t, err, services.ErrDuplicatePending)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}

			users.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestShareService_Respond(t *testing.T) {
	recipientUID := uuid.New().String()
	recipient := &models.User{UID: recipientUID, Username: "bob", Email: "bob@example.com"}
	requestID := uuid.New().String()

	tests := []struct {
		name       string
		requestID  string
		accept     bool
		setupMocks func(u *UsersMock, r *ShareRepoMock)
		wantErr    error
	}{
		{
			name:      "accept pending request",
			requestID: requestID,
			accept:    true,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
				r.On("GetShareRequest", mock.Anything, requestID).Return(&models.ShareRequest{
					ID:         requestID,
					ToUsername: "bob",
					Status:     models.ShareStatusPending,
				}, nil).Once()
				r.On("UpdateShareStatus", mock.Anything, requestID, models.ShareStatusAccepted).
					Return(1, nil).Once()
			},
		},
		{
			name:      "reject pending request",
			requestID: requestID,
			accept:    false,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
				r.On("GetShareRequest", mock.Anything, requestID).Return(&models.ShareRequest{
					ID:         requestID,
					ToUsername: "bob",
					Status:     models.ShareStatusPending,
				}, nil).Once()
				r.On("UpdateShareStatus", mock.Anything, requestID, models.ShareStatusRejected).
					Return(1, nil).Once()
			},
		},
		{
			name:      "repeated answer overwrites terminal status",
			requestID: requestID,
			accept:    false,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
				r.On("GetShareRequest", mock.Anything, requestID).Return(&models.ShareRequest{
					ID:         requestID,
					ToUsername: "bob",
					Status:     models.ShareStatusAccepted,
				}, nil).Once()
				r.On("UpdateShareStatus", mock.Anything, requestID, models.ShareStatusRejected).
					Return(1, nil).Once()
			},
		},
		{
			name:      "request not found",
			requestID: requestID,
			accept:    true,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
				r.On("GetShareRequest", mock.Anything, requestID).
					Return(nil, errors.New("sql: no rows in result set")).Once()
			},
			wantErr: services.ErrRequestNotFound,
		},
		{
			name:      "foreign request looks like missing",
			requestID: requestID,
			accept:    true,
			setupMocks: func(u *UsersMock, r *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
				r.On("GetShareRequest", mock.Anything, requestID).Return(&models.ShareRequest{
					ID:         requestID,
					ToUsername: "carol",
					Status:     models.ShareStatusPending,
				}, nil).Once()
			},
			wantErr: services.ErrRequestNotFound,
		},
		{
			name:      "invalid request id",
			requestID: "not-a-uuid",
			accept:    true,
			setupMocks: func(u *UsersMock, _ *ShareRepoMock) {
				u.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
			},
			wantErr: services.ErrRequestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			repo := new(ShareRepoMock)
			svc := newTestService(users, repo)

			tt.setupMocks(users, repo)

			err := svc.Respond(context.Background(), recipientUID, tt.requestID, tt.accept)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			users.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestShareService_ListReceived(t *testing.T) {
	recipientUID := uuid.New().String()
	recipient := &models.User{UID: recipientUID, Username: "bob", Email: "bob@example.com"}

	knownSenderUID := uuid.New().String()
	knownSender := &models.User{UID: knownSenderUID, Username: "alice", Email: "alice@example.com"}

	createdAt := time.Now().UTC().Add(-48 * time.Hour)

	users := new(UsersMock)
	repo := new(ShareRepoMock)
	svc := newTestService(users, repo)

	users.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
	repo.On("ListPendingByToUsername", mock.Anything, "bob").Return([]*models.ShareRequest{
		{
			ID:          "req-1",
			FromUserUID: knownSenderUID,
			ToUsername:  "bob",
			Status:      models.ShareStatusPending,
			Permission:  models.SharePermissionView,
			CreatedAt:   createdAt,
		},
		{
			ID:          "req-2",
			FromUserUID: "ghost-ref",
			ToUsername:  "bob",
			Status:      models.ShareStatusPending,
			Permission:  models.SharePermissionEdit,
			CreatedAt:   createdAt,
		},
	}, nil).Once()
	users.On("GetUser", mock.Anything, knownSenderUID).Return(knownSender, nil).Once()
	// Удалённый отправитель: вся цепочка разбора ссылки промахивается
	users.On("GetUserByRawRef", mock.Anything, "ghost-ref").
		Return(nil, errors.New("sql: no rows in result set")).Once()
	users.On("GetUserByLegacyRef", mock.Anything, "ghost-ref").
		Return(nil, errors.New("sql: no rows in result set")).Once()

	got, err := svc.ListReceived(context.Background(), recipientUID)
	require.NoError(t, err)
	// Заявка от удалённого отправителя выпадает из выдачи целиком
	require.Len(t, got, 1)

	assert.Equal(t, "req-1", got[0].ID)
	assert.Equal(t, "alice", got[0].FromUsername)
	assert.Equal(t, "alice@example.com", got[0].FromEmail)
	assert.Equal(t, "2 days ago", got[0].TimeAgo)

	users.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestShareService_ListSharedWith(t *testing.T) {
	recipientUID := uuid.New().String()
	recipient := &models.User{UID: recipientUID, Username: "bob", Email: "bob@example.com"}

	sharerUID := uuid.New().String()
	sharer := &models.User{UID: sharerUID, Username: "alice", Email: "alice@example.com"}

	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	acceptedAt := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)

	users := new(UsersMock)
	repo := new(ShareRepoMock)
	svc := newTestService(users, repo)

	users.On("GetUser", mock.Anything, recipientUID).Return(recipient, nil).Once()
	repo.On("ListAcceptedByToUsername", mock.Anything, "bob").Return([]*models.ShareRequest{
		{
			ID:          "req-1",
			FromUserUID: sharerUID,
			ToUsername:  "bob",
			Status:      models.ShareStatusAccepted,
			Permission:  models.SharePermissionEdit,
			CreatedAt:   createdAt,
			UpdatedAt:   &acceptedAt,
		},
		{
			ID:          "req-2",
			FromUserUID: "legacy-user-7",
			ToUsername:  "bob",
			Status:      models.ShareStatusAccepted,
			Permission:  models.SharePermissionView,
			CreatedAt:   createdAt,
		},
		{
			ID:          "req-3",
			FromUserUID: "ghost-ref",
			ToUsername:  "bob",
			Status:      models.ShareStatusAccepted,
			Permission:  models.SharePermissionView,
			CreatedAt:   createdAt,
		},
	}, nil).Once()
	users.On("GetUser", mock.Anything, sharerUID).Return(sharer, nil).Once()
	// Второй отправитель резолвится только по идентификатору старой системы
	users.On("GetUserByRawRef", mock.Anything, "legacy-user-7").
		Return(nil, errors.New("sql: no rows in result set")).Once()
	users.On("GetUserByLegacyRef", mock.Anything, "legacy-user-7").
		Return(&models.User{UID: "uid-legacy", Username: "carol", Email: "carol@example.com"}, nil).Once()
	// Третий отправитель удалён: вся цепочка разбора ссылки промахивается
	users.On("GetUserByRawRef", mock.Anything, "ghost-ref").
		Return(nil, errors.New("sql: no rows in result set")).Once()
	users.On("GetUserByLegacyRef", mock.Anything, "ghost-ref").
		Return(nil, errors.New("sql: no rows in result set")).Once()

	got, err := svc.ListSharedWith(context.Background(), recipientUID)
	require.NoError(t, err)
	// Шаринг от удалённого отправителя выпадает из выдачи
	require.Len(t, got, 2)

	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, models.SharePermissionEdit, got[0].Permission)
	// Момент шаринга — время ответа, а не создания заявки
	assert.Equal(t, acceptedAt.Format(time.RFC3339), got[0].SharedAt)

	assert.Equal(t, "carol", got[1].Username)
	assert.Equal(t, createdAt.Format(time.RFC3339), got[1].SharedAt)

	users.AssertExpectations(t)
	repo.AssertExpectations(t)
}
