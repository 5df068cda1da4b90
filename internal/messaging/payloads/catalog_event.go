package payloads

import (
	"fmt"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/google/uuid"
)

// Типы событий каталога.
const (
	EventUserRegistered = "user.registered"
	EventBookCreated    = "book.created"
	EventBookUpdated    = "book.updated"
	EventBookDeleted    = "book.deleted"
)

// CatalogEvent описывает изменение в каталоге или регистрацию пользователя,
// которое публикуется в RabbitMQ и архивируется воркером.
type CatalogEvent struct {
	ID         uuid.UUID    `json:"id"`
	Type       string       `json:"type"`
	Entity     string       `json:"entity"`
	EntityID   int64        `json:"entity_id"`
	Actor      string       `json:"actor,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
	Book       *domain.Book `json:"book,omitempty"`
}

// NewBookEvent собирает событие по книге.
func NewBookEvent(eventType, actor string, book domain.Book, at time.Time) CatalogEvent {
	return CatalogEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Entity:     "book",
		EntityID:   book.ID,
		Actor:      actor,
		OccurredAt: at.UTC(),
		Book:       &book,
	}
}

// NewUserRegisteredEvent собирает событие регистрации. Данные пользователя, кроме id, в событие не попадают.
func NewUserRegisteredEvent(userID int64, at time.Time) CatalogEvent {
	return CatalogEvent{
		ID:         uuid.New(),
		Type:       EventUserRegistered,
		Entity:     "user",
		EntityID:   userID,
		OccurredAt: at.UTC(),
	}
}

// ObjectKey возвращает ключ объекта для архива: catalog-events/YYYY/MM/DD/<id>.json.
func (e CatalogEvent) ObjectKey() string {
	t := e.OccurredAt.UTC()
	return fmt.Sprintf("catalog-events/%04d/%02d/%02d/%s.json", t.Year(), int(t.Month()), t.Day(), e.ID)
}
