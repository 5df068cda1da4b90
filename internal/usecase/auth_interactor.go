package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users  ports.UserStorage
	hasher auth.PasswordHasher
	tokens TokenIssuer
	events ports.CatalogEventPublisher
	logger *slog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
// events может быть nil, тогда события не публикуются.
func NewAuthUseCase(
	users ports.UserStorage,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	events ports.CatalogEventPublisher,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Register регистрирует нового пользователя. Пароль сохраняется только в виде хэша.
func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	const op = "usecase.Register"

	if isBlank(in.Name) || isBlank(in.Email) || isBlank(in.Password) {
		return nil, &ValidationError{Message: "All fields are required"}
	}
	email := normalizeEmail(in.Email)

	exists, err := uc.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		uc.logger.Info("registration rejected: email taken", "op", op)
		return nil, ErrDuplicateEmail
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.now().UTC(),
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		// гонка двух регистраций с одним email ловится уникальным индексом
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uc.logger.Info("user registered", "op", op, "user_id", user.ID)
	publishEvent(ctx, uc.events, uc.logger, payloads.NewUserRegisteredEvent(user.ID, uc.now()))

	return user, nil
}

// Login аутентифицирует пользователя: поиск по email, затем сверка хэша пароля.
func (uc *authUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "usecase.Login"

	if isBlank(email) || isBlank(password) {
		return nil, &ValidationError{Message: "Email and password are required"}
	}

	user, err := uc.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			// сверяем с фиктивным хэшем, чтобы время ответа не выдавало отсутствие пользователя
			_, _ = uc.hasher.Verify(password, uc.dummy())
			uc.logger.Info("login failed", "op", op, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := uc.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		uc.logger.Error("stored password hash is unreadable", "op", op, "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		uc.logger.Info("login failed", "op", op, "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uc.logger.Info("user logged in", "op", op, "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

func (uc *authUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.Hash("library-app-dummy-password")
		if err != nil {
			uc.logger.Warn("failed to prepare dummy hash", "error", err)
			return
		}
		uc.dummyHash = h
	})
	return uc.dummyHash
}
