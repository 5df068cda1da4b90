package ports

//go:generate mockgen -destination=../../mocks/mock_storage.go -package=mocks github.com/GoArmGo/LibraryApp/internal/core/ports UserStorage,BookStorage

import (
	"context"
	"errors"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// Ошибки уровня хранилища.
var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyExists: нарушение уникальности (например, email).
	ErrAlreadyExists = errors.New("storage: already exists")
	// ErrConflict: запись не была изменена при обновлении.
	ErrConflict = errors.New("storage: update conflict")
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser сохраняет пользователя и проставляет ему ID.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByEmail возвращает ErrNotFound, если пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// BookStorage определяет методы для взаимодействия с хранилищем книг
type BookStorage interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBookByID(ctx context.Context, id int64) (*domain.Book, error)
	// CreateBook сохраняет книгу и проставляет ей ID.
	CreateBook(ctx context.Context, book *domain.Book) error
	// UpdateBook возвращает ErrConflict, если ни одна строка не изменилась.
	UpdateBook(ctx context.Context, book *domain.Book) error
	// DeleteBook возвращает ErrNotFound, если книги нет.
	DeleteBook(ctx context.Context, id int64) error
	BookExists(ctx context.Context, id int64) (bool, error)
}

// HealthChecker проверяет доступность хранилища.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
