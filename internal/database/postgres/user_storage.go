package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/database/storage"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || storage.IsUniqueViolation(err)
}

func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("ошибка при создании пользователя с GORM: %w", ports.ErrAlreadyExists)
		}
		return fmt.Errorf("ошибка при создании пользователя с GORM: %w", err)
	}

	s.logger.Info("user inserted (gorm)",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске пользователя с GORM: %w", err)
	}
	return &user, nil
}

func (s *GormUserStorage) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("ошибка при проверке email с GORM: %w", err)
	}
	return n > 0, nil
}
