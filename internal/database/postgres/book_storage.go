package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"gorm.io/gorm"
)

// GormBookStorage реализует ports.BookStorage с использованием GORM
type GormBookStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormBookStorage создает новый экземпляр GormBookStorage
func NewGormBookStorage(db *gorm.DB, logger *slog.Logger) *GormBookStorage {
	return &GormBookStorage{db: db, logger: logger}
}

func (s *GormBookStorage) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books := []domain.Book{}
	if err := s.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении списка книг с GORM: %w", err)
	}
	return books, nil
}

func (s *GormBookStorage) GetBookByID(ctx context.Context, id int64) (*domain.Book, error) {
	var book domain.Book
	err := s.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении книги %d с GORM: %w", id, err)
	}
	return &book, nil
}

func (s *GormBookStorage) CreateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("ошибка при сохранении книги с GORM: %w", err)
	}

	s.logger.Info("book inserted (gorm)",
		"book_id", book.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateBook обновляет все текстовые поля, ports.ErrConflict если строка не найдена.
func (s *GormBookStorage) UpdateBook(ctx context.Context, book *domain.Book) error {
	res := s.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", book.ID).Updates(map[string]interface{}{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("ошибка при обновлении книги %d с GORM: %w", book.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update book %d: %w", book.ID, ports.ErrConflict)
	}
	return nil
}

func (s *GormBookStorage) DeleteBook(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("ошибка при удалении книги %d с GORM: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *GormBookStorage) BookExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("ошибка при проверке книги %d с GORM: %w", id, err)
	}
	return n > 0, nil
}
