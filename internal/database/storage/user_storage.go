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

// UserStorage реализует ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя и записывает присвоенный id в user.ID.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := s.db.Rebind(`
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	err := s.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			s.logger.Warn("user with this email already exists")
			return fmt.Errorf("insert user: %w", ports.ErrAlreadyExists)
		}
		s.logger.Error("failed to insert user", "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user inserted",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByEmail возвращает ports.ErrNotFound, если пользователя нет.
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := s.db.GetContext(ctx, &user,
		s.db.Rebind(`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		s.logger.Error("failed to select user by email", "error", err)
		return nil, fmt.Errorf("select user by email: %w", err)
	}

	s.logger.Debug("user found",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

func (s *UserStorage) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`), email)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}
