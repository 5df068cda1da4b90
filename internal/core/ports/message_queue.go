package ports

//go:generate mockgen -destination=../../mocks/mock_message_queue.go -package=mocks github.com/GoArmGo/LibraryApp/internal/core/ports CatalogEventPublisher

import (
	"context"

	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// CatalogEventPublisher публикует события каталога.
// Используется usecase-слоем после успешной записи.
type CatalogEventPublisher interface {
	PublishCatalogEvent(ctx context.Context, event payloads.CatalogEvent) error
}

// CatalogEventConsumer используется воркером для получения событий из очереди
type CatalogEventConsumer interface {
	// StartConsumingCatalogEvents начинает прослушивание очереди,
	// handler вызывается для каждого полученного события
	StartConsumingCatalogEvents(ctx context.Context, handler func(context.Context, payloads.CatalogEvent) error) error
}
