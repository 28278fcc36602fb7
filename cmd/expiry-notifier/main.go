// Команда expiry-notifier запускает разовый проход рассылки уведомлений
// о скором истечении срока годности. Запускается по расписанию извне (cron).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/pantry-aggregator/internal/config"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/notifier"
	"github.com/magabrotheeeer/pantry-aggregator/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting expiry notifier", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.DB.Close()

	transport := smtp.NewTransport(cfg, logger)
	notifier := notifierservice.NewNotifierService(db, db, transport,
		cfg.Timezone, cfg.LookaheadDays, logger)

	sent, err := notifier.Run(ctx)
	if err != nil {
		logger.Error("expiry notifier failed", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("expiry notifier finished", slog.Int("sent", sent))
}
