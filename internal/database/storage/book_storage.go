package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/jmoiron/sqlx"
)

// BookStorage реализует ports.BookStorage поверх sqlx
type BookStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewBookStorage создает новый экземпляр BookStorage
func NewBookStorage(db *sqlx.DB, logger *slog.Logger) *BookStorage {
	return &BookStorage{db: db, logger: logger}
}

// ListBooks возвращает все книги по возрастанию id.
func (s *BookStorage) ListBooks(ctx context.Context) ([]domain.Book, error) {
	start := time.Now()

	books := []domain.Book{}
	if err := s.db.SelectContext(ctx, &books, `SELECT id, title, author, description FROM books ORDER BY id`); err != nil {
		s.logger.Error("failed to list books", "error", err)
		return nil, fmt.Errorf("select books: %w", err)
	}

	s.logger.Debug("books listed",
		"count", len(books),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return books, nil
}

func (s *BookStorage) GetBookByID(ctx context.Context, id int64) (*domain.Book, error) {
	var book domain.Book
	err := s.db.GetContext(ctx, &book,
		s.db.Rebind(`SELECT id, title, author, description FROM books WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("book not found", "book_id", id)
		return nil, ports.ErrNotFound
	}
	if err != nil {
		s.logger.Error("failed to select book", "book_id", id, "error", err)
		return nil, fmt.Errorf("select book %d: %w", id, err)
	}
	return &book, nil
}

// CreateBook сохраняет книгу и записывает присвоенный id в book.ID.
func (s *BookStorage) CreateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	query := s.db.Rebind(`
		INSERT INTO books (title, author, description)
		VALUES (?, ?, ?)
		RETURNING id`)

	if err := s.db.QueryRowxContext(ctx, query, book.Title, book.Author, book.Description).Scan(&book.ID); err != nil {
		s.logger.Error("failed to insert book", "error", err)
		return fmt.Errorf("insert book: %w", err)
	}

	s.logger.Info("book inserted",
		"book_id", book.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateBook возвращает ports.ErrConflict, если ни одна строка не изменилась.
func (s *BookStorage) UpdateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE books
		SET title = :title, author = :author, description = :description
		WHERE id = :id`, book)
	if err != nil {
		s.logger.Error("failed to update book", "book_id", book.ID, "error", err)
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %d: rows affected: %w", book.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update book %d: %w", book.ID, ports.ErrConflict)
	}

	s.logger.Info("book updated",
		"book_id", book.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteBook возвращает ports.ErrNotFound, если книги нет.
func (s *BookStorage) DeleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM books WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete book", "book_id", id, "error", err)
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}

	s.logger.Info("book deleted", "book_id", id)
	return nil
}

func (s *BookStorage) BookExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists,
		s.db.Rebind(`SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)`), id); err != nil {
		return false, fmt.Errorf("check book exists: %w", err)
	}
	return exists, nil
}
