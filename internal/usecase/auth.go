package usecase

//go:generate mockgen -destination=../mocks/mock_token.go -package=mocks github.com/GoArmGo/LibraryApp/internal/usecase TokenIssuer

import (
	"context"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// TokenIssuer выпускает токен для аутентифицированного пользователя.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// RegisterInput: данные для регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult: результат успешного входа.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthUseCase определяет интерфейс регистрации и входа.
type AuthUseCase interface {
	// Register создаёт пользователя. Ошибки: ErrValidation, ErrDuplicateEmail.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login проверяет email и пароль и выпускает токен.
	// Для неизвестного email и неверного пароля возвращается одна и та же ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
