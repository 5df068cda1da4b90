package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// archiveHandler сохраняет каждое событие каталога JSON-объектом в бакет.
// Ошибка загрузки возвращается consumer'у, и сообщение уходит обратно в очередь.
func archiveHandler(files ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.CatalogEvent) error {
	return func(ctx context.Context, event payloads.CatalogEvent) error {
		start := time.Now()

		body, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.ID, err)
		}

		key := event.ObjectKey()
		url, err := files.UploadFile(ctx, key, bytes.NewReader(body), "application/json")
		if err != nil {
			logger.Error("event archive failed", "event_id", event.ID, "type", event.Type, "error", err)
			return fmt.Errorf("upload %s: %w", key, err)
		}

		logger.Info("event archived",
			"event_id", event.ID,
			"type", event.Type,
			"url", url,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и архивирует события до отмены ctx.
func runWorker(ctx context.Context, a *App) error {
	if a.Consumer == nil {
		return errors.New("worker: RABBITMQ_URL не задан")
	}
	if a.FileStorage == nil {
		return errors.New("worker: объектное хранилище не настроено")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := a.Consumer.StartConsumingCatalogEvents(workerCtx, archiveHandler(a.FileStorage, a.Logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	a.Logger.Info("worker started, waiting for catalog events")

	<-ctx.Done()
	a.Logger.Info("worker stopping")
	return nil
}
