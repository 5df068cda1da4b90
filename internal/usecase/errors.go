package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// Ошибки бизнес-логики. HTTP-слой переводит их в коды ответа.
var (
	// ErrValidation: не заполнено обязательное поле или нарушено ограничение (400).
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail: пользователь с таким email уже есть (400).
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrInvalidCredentials: неизвестный email или неверный пароль, без различия (401).
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound: запись не найдена (404).
	ErrNotFound = errors.New("not found")
	// ErrIDMismatch: id в пути не совпадает с id в теле (400).
	ErrIDMismatch = errors.New("id mismatch")
)

// ValidationError описывает ошибку валидации входных данных.
// Fields: сообщения по полям, может быть пустым.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// publishEvent отправляет событие, ошибки только логируются: запись в БД уже прошла.
func publishEvent(ctx context.Context, pub ports.CatalogEventPublisher, logger *slog.Logger, event payloads.CatalogEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishCatalogEvent(ctx, event); err != nil {
		logger.Warn("failed to publish catalog event",
			"event_id", event.ID,
			"type", event.Type,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}
