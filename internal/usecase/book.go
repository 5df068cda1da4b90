package usecase

import (
	"context"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// BookUseCase определяет интерфейс для работы с каталогом книг.
type BookUseCase interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)

	// GetBook возвращает ErrNotFound, если книги нет.
	GetBook(ctx context.Context, id int64) (*domain.Book, error)

	// AddBook валидирует книгу, сохраняет и возвращает её с присвоенным id.
	AddBook(ctx context.Context, book domain.Book) (*domain.Book, error)

	// UpdateBook требует совпадения id из пути и тела (ErrIDMismatch до любой записи).
	UpdateBook(ctx context.Context, id int64, book domain.Book) error

	// DeleteBook возвращает ErrNotFound, если книги нет.
	DeleteBook(ctx context.Context, id int64) error
}
