package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Ошибки выпуска и проверки токенов.
var (
	// ErrMissingSigningKey: секрет подписи не задан (ошибка конфигурации).
	ErrMissingSigningKey = errors.New("auth: signing key is not configured")
	// ErrInvalidToken: токен не прошёл проверку (подпись, алгоритм, iss/aud, формат).
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired: срок действия токена истёк. Оборачивает ErrInvalidToken.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// TokenConfig: неизменяемые параметры токенов, передаются при создании.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration
}

// Claims: утверждения access-токена.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID возвращает числовой id пользователя из sub.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenManager выпускает и проверяет HS256 токены.
type TokenManager struct {
	cfg TokenConfig
	now func() time.Time
}

// Option настраивает TokenManager.
type Option func(*TokenManager)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(cfg TokenConfig, opts ...Option) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", cfg.TTL)
	}

	m := &TokenManager{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL возвращает срок жизни выпускаемых токенов.
func (m *TokenManager) TTL() time.Duration {
	return m.cfg.TTL
}

// Issue выпускает токен для уже аутентифицированного пользователя.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	const op = "auth.TokenManager.Issue"

	now := m.now()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Verify проверяет подпись, алгоритм, издателя, аудиторию и срок действия.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	const op = "auth.TokenManager.Verify"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
