package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash: сохранённое значение не похоже ни на один поддерживаемый хэш.
var ErrInvalidHash = errors.New("auth: invalid password hash")

const argonPrefix = "argon2id$"

// PasswordHasher хэширует пароли и сверяет их с сохранённым хэшем.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// ArgonParams: параметры argon2id.
type ArgonParams struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLen     int
	KeyLen      uint32
}

// DefaultArgon: параметры для production.
var DefaultArgon = ArgonParams{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

// NewPasswordHasher возвращает хэшер по имени алгоритма ("argon2id" или "bcrypt").
// Проверка пароля определяет алгоритм по формату хэша, поэтому смена алгоритма
// не ломает вход для уже зарегистрированных пользователей.
func NewPasswordHasher(algorithm string) (PasswordHasher, error) {
	switch algorithm {
	case "argon2id", "":
		return &Hasher{Algorithm: "argon2id", Argon: DefaultArgon, BcryptCost: bcrypt.DefaultCost}, nil
	case "bcrypt":
		return &Hasher{Algorithm: "bcrypt", Argon: DefaultArgon, BcryptCost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("auth: unknown password hasher %q", algorithm)
	}
}

// Hasher реализует PasswordHasher для argon2id и bcrypt.
type Hasher struct {
	Algorithm  string
	Argon      ArgonParams
	BcryptCost int
}

// Hash возвращает закодированный хэш с солью.
func (h *Hasher) Hash(password string) (string, error) {
	if h.Algorithm == "bcrypt" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("auth: bcrypt hash: %w", err)
		}
		return string(b), nil
	}

	p := h.Argon
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)

	// argon2id$m=<M>,t=<T>,p=<P>$<b64(salt)>$<b64(key)>
	return fmt.Sprintf("%sm=%d,t=%d,p=%d$%s$%s",
		argonPrefix, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify сверяет пароль с хэшем за постоянное время.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, argonPrefix):
		return verifyArgon(password, encoded)
	case strings.HasPrefix(encoded, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, ErrInvalidHash
		}
		return true, nil
	default:
		return false, ErrInvalidHash
	}
}

func verifyArgon(password, encoded string) (bool, error) {
	parts := strings.Split(encoded[len(argonPrefix):], "$")
	if len(parts) != 3 {
		return false, ErrInvalidHash
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[0], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, ErrInvalidHash
	}
	keyRef, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(keyRef) == 0 {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(keyRef)))
	return subtle.ConstantTimeCompare(key, keyRef) == 1, nil
}
