package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
	"github.com/GoArmGo/LibraryApp/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() auth.PasswordHasher {
	return &auth.Hasher{
		Algorithm:  "argon2id",
		Argon:      auth.ArgonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32},
		BcryptCost: bcrypt.MinCost,
	}
}

type authDeps struct {
	users  *mocks.MockUserStorage
	tokens *mocks.MockTokenIssuer
	events *mocks.MockCatalogEventPublisher
	uc     AuthUseCase
}

func newAuthDeps(t *testing.T) *authDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &authDeps{
		users:  mocks.NewMockUserStorage(ctrl),
		tokens: mocks.NewMockTokenIssuer(ctrl),
		events: mocks.NewMockCatalogEventPublisher(ctrl),
	}
	d.uc = NewAuthUseCase(d.users, testHasher(), d.tokens, d.events, logger.Discard())
	return d
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)
	ctx := context.Background()

	var stored *domain.User
	d.users.EXPECT().EmailExists(ctx, "ann@x.com").Return(false, nil)
	d.users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
		u.ID = 1
		stored = u
		return nil
	})
	d.events.EXPECT().PublishCatalogEvent(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e payloads.CatalogEvent) error {
		require.Equal(t, payloads.EventUserRegistered, e.Type)
		require.EqualValues(t, 1, e.EntityID)
		return nil
	})

	u, err := d.uc.Register(ctx, RegisterInput{Name: "Ann", Email: " Ann@X.com ", Password: "pw1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, u.ID)
	require.Equal(t, "Ann", u.Name)
	require.Equal(t, "ann@x.com", u.Email)

	// в хранилище уходит только хэш
	require.NotEqual(t, "pw1", stored.PasswordHash)
	ok, err := testHasher().Verify("pw1", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	inputs := []RegisterInput{
		{Name: "", Email: "a@x.com", Password: "pw"},
		{Name: "Ann", Email: "   ", Password: "pw"},
		{Name: "Ann", Email: "a@x.com", Password: "\t"},
	}
	for _, in := range inputs {
		d := newAuthDeps(t)
		_, err := d.uc.Register(context.Background(), in)
		require.ErrorIs(t, err, ErrValidation)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "All fields are required", ve.Message)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)

	d.users.EXPECT().EmailExists(gomock.Any(), "ann@x.com").Return(true, nil)

	_, err := d.uc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)

	d.users.EXPECT().EmailExists(gomock.Any(), "ann@x.com").Return(false, nil)
	d.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(ports.ErrAlreadyExists)

	_, err := d.uc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_StorageError(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)
	boom := errors.New("db down")

	d.users.EXPECT().EmailExists(gomock.Any(), gomock.Any()).Return(false, boom)

	_, err := d.uc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.ErrorIs(t, err, boom)
}

func TestRegister_PublishFailureIgnored(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)

	d.users.EXPECT().EmailExists(gomock.Any(), gomock.Any()).Return(false, nil)
	d.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
	d.events.EXPECT().PublishCatalogEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := d.uc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"})
	require.NoError(t, err)
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)

	hash, err := testHasher().Hash("pw1")
	require.NoError(t, err)
	user := &domain.User{ID: 1, Name: "Ann", Email: "ann@x.com", PasswordHash: hash}

	d.users.EXPECT().GetUserByEmail(gomock.Any(), "ann@x.com").Return(user, nil)
	d.tokens.EXPECT().Issue(user).Return("signed-token", nil)

	res, err := d.uc.Login(context.Background(), "ANN@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "signed-token", res.Token)
	require.Same(t, user, res.User)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	t.Parallel()

	hash, err := testHasher().Hash("pw1")
	require.NoError(t, err)

	// неизвестный email
	d := newAuthDeps(t)
	d.users.EXPECT().GetUserByEmail(gomock.Any(), "nobody@x.com").Return(nil, ports.ErrNotFound)
	_, errUnknown := d.uc.Login(context.Background(), "nobody@x.com", "pw1")

	// неверный пароль
	d = newAuthDeps(t)
	d.users.EXPECT().GetUserByEmail(gomock.Any(), "ann@x.com").
		Return(&domain.User{ID: 1, Email: "ann@x.com", PasswordHash: hash}, nil)
	_, errWrong := d.uc.Login(context.Background(), "ann@x.com", "wrong")

	// пароль чувствителен к регистру
	d = newAuthDeps(t)
	d.users.EXPECT().GetUserByEmail(gomock.Any(), "ann@x.com").
		Return(&domain.User{ID: 1, Email: "ann@x.com", PasswordHash: hash}, nil)
	_, errCase := d.uc.Login(context.Background(), "ann@x.com", "PW1")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.Equal(t, errUnknown, errWrong)
	require.Equal(t, errUnknown, errCase)
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)

	_, err := d.uc.Login(context.Background(), " ", "pw")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Email and password are required", ve.Message)

	_, err = d.uc.Login(context.Background(), "ann@x.com", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLogin_StorageError(t *testing.T) {
	t.Parallel()
	d := newAuthDeps(t)
	boom := errors.New("db down")

	d.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := d.uc.Login(context.Background(), "ann@x.com", "pw1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}
