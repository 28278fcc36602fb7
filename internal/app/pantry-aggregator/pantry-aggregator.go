// Package pantryaggregator собирает основное HTTP-приложение: хранилище,
// кэш, брокер сообщений, сервисы и маршруты.
package pantryaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/pantry-aggregator/internal/cache"
	"github.com/magabrotheeeer/pantry-aggregator/internal/config"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/jwt"
	librabbitmq "github.com/magabrotheeeer/pantry-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pantry-aggregator/internal/migrations"
	"github.com/magabrotheeeer/pantry-aggregator/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/auth"
	historyservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/history"
	ingredientservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/ingredient"
	shareservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
	"github.com/magabrotheeeer/pantry-aggregator/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	mailPublisher := librabbitmq.NewMailPublisher(ch)

	authService := authservice.NewAuthService(db, db, mailPublisher, jwtMaker, logger)
	historyService := historyservice.NewHistoryService(db, logger)
	ingredientService := ingredientservice.NewIngredientService(db, db, cacheRedis, logger)
	shareService := shareservice.NewShareService(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, ingredientService, historyService, shareService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
