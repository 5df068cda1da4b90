package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testHasher: дешёвые параметры, чтобы тесты не тратили 64 MiB на хэш.
func testHasher(alg string) *Hasher {
	return &Hasher{
		Algorithm:  alg,
		Argon:      ArgonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32},
		BcryptCost: bcrypt.MinCost,
	}
}

func TestHasher_Argon2id(t *testing.T) {
	t.Parallel()
	h := testHasher("argon2id")

	enc, err := h.Hash("pw1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enc, "argon2id$m=1024,t=1,p=1$"))
	require.NotContains(t, enc, "pw1")

	ok, err := h.Verify("pw1", enc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("PW1", enc)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()
	h := testHasher("argon2id")

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHasher_Bcrypt(t *testing.T) {
	t.Parallel()
	h := testHasher("bcrypt")

	enc, err := h.Hash("secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enc, "$2"))

	ok, err := h.Verify("secret", enc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", enc)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_VerifyAcrossAlgorithms(t *testing.T) {
	t.Parallel()

	enc, err := testHasher("bcrypt").Hash("pw")
	require.NoError(t, err)

	ok, err := testHasher("argon2id").Verify("pw", enc)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHasher_InvalidHash(t *testing.T) {
	t.Parallel()
	h := testHasher("argon2id")

	for _, enc := range []string{"", "pw1", "argon2id$garbage", "argon2id$m=1,t=1,p=1$!!$!!", "$2a$broken"} {
		ok, err := h.Verify("pw1", enc)
		require.ErrorIs(t, err, ErrInvalidHash, enc)
		require.False(t, ok)
	}
}

func TestNewPasswordHasher(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher("bcrypt")
	require.NoError(t, err)
	require.Equal(t, "bcrypt", h.(*Hasher).Algorithm)

	h, err = NewPasswordHasher("")
	require.NoError(t, err)
	require.Equal(t, "argon2id", h.(*Hasher).Algorithm)

	_, err = NewPasswordHasher("md5")
	require.Error(t, err)
}
