package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// bookUseCase implements BookUseCase
type bookUseCase struct {
	books  ports.BookStorage
	events ports.CatalogEventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewBookUseCase создает новый экземпляр BookUseCase. events может быть nil.
func NewBookUseCase(books ports.BookStorage, events ports.CatalogEventPublisher, logger *slog.Logger) BookUseCase {
	return &bookUseCase{
		books:  books,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// ValidateBook проверяет обязательность и длину полей книги.
func ValidateBook(b domain.Book) error {
	fields := map[string]string{}

	check := func(name, value string, max int) {
		switch {
		case isBlank(value):
			fields[name] = fmt.Sprintf("The %s field is required.", name)
		case utf8.RuneCountInString(value) > max:
			fields[name] = fmt.Sprintf("The field %s must be a string with a maximum length of %d.", name, max)
		}
	}
	check("title", b.Title, domain.MaxTitleLen)
	check("author", b.Author, domain.MaxAuthorLen)
	check("description", b.Description, domain.MaxDescriptionLen)

	if len(fields) > 0 {
		return &ValidationError{Message: "One or more validation errors occurred.", Fields: fields}
	}
	return nil
}

func (uc *bookUseCase) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := uc.books.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase.ListBooks: %w", err)
	}
	return books, nil
}

func (uc *bookUseCase) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	const op = "usecase.GetBook"

	book, err := uc.books.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%s: book %d: %w", op, id, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return book, nil
}

func (uc *bookUseCase) AddBook(ctx context.Context, book domain.Book) (*domain.Book, error) {
	const op = "usecase.AddBook"

	if err := ValidateBook(book); err != nil {
		return nil, err
	}

	book.ID = 0
	if err := uc.books.CreateBook(ctx, &book); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	actor := auth.SubjectFromContext(ctx)
	uc.logger.Info("book created", "op", op, "book_id", book.ID, "actor", actor)
	publishEvent(ctx, uc.events, uc.logger, payloads.NewBookEvent(payloads.EventBookCreated, actor, book, uc.now()))

	return &book, nil
}

func (uc *bookUseCase) UpdateBook(ctx context.Context, id int64, book domain.Book) error {
	const op = "usecase.UpdateBook"

	if book.ID != id {
		return ErrIDMismatch
	}
	if err := ValidateBook(book); err != nil {
		return err
	}

	err := uc.books.UpdateBook(ctx, &book)
	if errors.Is(err, ports.ErrConflict) {
		// строка не обновилась: если книги уже нет, это 404, иначе отдаём конфликт как есть
		exists, exErr := uc.books.BookExists(ctx, id)
		if exErr != nil {
			return fmt.Errorf("%s: %w", op, exErr)
		}
		if !exists {
			return fmt.Errorf("%s: book %d: %w", op, id, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	actor := auth.SubjectFromContext(ctx)
	uc.logger.Info("book updated", "op", op, "book_id", id, "actor", actor)
	publishEvent(ctx, uc.events, uc.logger, payloads.NewBookEvent(payloads.EventBookUpdated, actor, book, uc.now()))

	return nil
}

func (uc *bookUseCase) DeleteBook(ctx context.Context, id int64) error {
	const op = "usecase.DeleteBook"

	if err := uc.books.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("%s: book %d: %w", op, id, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	actor := auth.SubjectFromContext(ctx)
	uc.logger.Info("book deleted", "op", op, "book_id", id, "actor", actor)
	publishEvent(ctx, uc.events, uc.logger, payloads.NewBookEvent(payloads.EventBookDeleted, actor, domain.Book{ID: id}, uc.now()))

	return nil
}
