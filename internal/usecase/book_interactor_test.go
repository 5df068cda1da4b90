package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
	"github.com/GoArmGo/LibraryApp/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newBookDeps(t *testing.T) (*mocks.MockBookStorage, *mocks.MockCatalogEventPublisher, BookUseCase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	books := mocks.NewMockBookStorage(ctrl)
	events := mocks.NewMockCatalogEventPublisher(ctrl)
	return books, events, NewBookUseCase(books, events, logger.Discard())
}

func ctxWithSubject(sub string) context.Context {
	c := &auth.Claims{}
	c.Subject = sub
	return auth.WithClaims(context.Background(), c)
}

func TestValidateBook(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateBook(domain.Book{Title: "T", Author: "A", Description: "D"}))
	require.NoError(t, ValidateBook(domain.Book{
		Title:       strings.Repeat("я", domain.MaxTitleLen),
		Author:      strings.Repeat("a", domain.MaxAuthorLen),
		Description: strings.Repeat("d", domain.MaxDescriptionLen),
	}))

	err := ValidateBook(domain.Book{
		Title:       strings.Repeat("t", domain.MaxTitleLen+1),
		Author:      "  ",
		Description: "D",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, ve.Fields, "title")
	require.Contains(t, ve.Fields, "author")
	require.NotContains(t, ve.Fields, "description")
}

func TestAddBook_OK(t *testing.T) {
	t.Parallel()
	books, events, uc := newBookDeps(t)
	ctx := ctxWithSubject("1")

	books.EXPECT().CreateBook(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *domain.Book) error {
		require.Zero(t, b.ID)
		b.ID = 10
		return nil
	})
	events.EXPECT().PublishCatalogEvent(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e payloads.CatalogEvent) error {
		require.Equal(t, payloads.EventBookCreated, e.Type)
		require.Equal(t, "1", e.Actor)
		require.EqualValues(t, 10, e.EntityID)
		return nil
	})

	got, err := uc.AddBook(ctx, domain.Book{ID: 99, Title: "T", Author: "A", Description: "D"})
	require.NoError(t, err)
	require.Equal(t, domain.Book{ID: 10, Title: "T", Author: "A", Description: "D"}, *got)
}

func TestAddBook_Invalid(t *testing.T) {
	t.Parallel()
	_, _, uc := newBookDeps(t)

	_, err := uc.AddBook(context.Background(), domain.Book{Title: "T"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetBook(t *testing.T) {
	t.Parallel()
	books, _, uc := newBookDeps(t)

	books.EXPECT().GetBookByID(gomock.Any(), int64(1)).Return(&domain.Book{ID: 1, Title: "T"}, nil)
	books.EXPECT().GetBookByID(gomock.Any(), int64(2)).Return(nil, ports.ErrNotFound)

	b, err := uc.GetBook(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "T", b.Title)

	_, err = uc.GetBook(context.Background(), 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListBooks(t *testing.T) {
	t.Parallel()
	books, _, uc := newBookDeps(t)

	books.EXPECT().ListBooks(gomock.Any()).Return([]domain.Book{{ID: 1}, {ID: 2}}, nil)

	list, err := uc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestUpdateBook_IDMismatchBeforeWrite(t *testing.T) {
	t.Parallel()
	_, _, uc := newBookDeps(t)

	// никаких вызовов хранилища не ожидается: gomock упадёт на любом
	err := uc.UpdateBook(context.Background(), 1, domain.Book{ID: 2, Title: "T", Author: "A", Description: "D"})
	require.ErrorIs(t, err, ErrIDMismatch)
}

func TestUpdateBook_OK(t *testing.T) {
	t.Parallel()
	books, events, uc := newBookDeps(t)
	b := domain.Book{ID: 3, Title: "T2", Author: "A", Description: "D"}

	books.EXPECT().UpdateBook(gomock.Any(), &b).Return(nil)
	events.EXPECT().PublishCatalogEvent(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, uc.UpdateBook(context.Background(), 3, b))
}

func TestUpdateBook_ConflictVanished(t *testing.T) {
	t.Parallel()
	books, _, uc := newBookDeps(t)

	books.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).Return(ports.ErrConflict)
	books.EXPECT().BookExists(gomock.Any(), int64(3)).Return(false, nil)

	err := uc.UpdateBook(context.Background(), 3, domain.Book{ID: 3, Title: "T", Author: "A", Description: "D"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBook_ConflictPropagated(t *testing.T) {
	t.Parallel()
	books, _, uc := newBookDeps(t)

	books.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).Return(ports.ErrConflict)
	books.EXPECT().BookExists(gomock.Any(), int64(3)).Return(true, nil)

	err := uc.UpdateBook(context.Background(), 3, domain.Book{ID: 3, Title: "T", Author: "A", Description: "D"})
	require.ErrorIs(t, err, ports.ErrConflict)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()
	books, events, uc := newBookDeps(t)

	books.EXPECT().DeleteBook(gomock.Any(), int64(4)).Return(nil)
	events.EXPECT().PublishCatalogEvent(gomock.Any(), gomock.Any()).Return(nil)
	books.EXPECT().DeleteBook(gomock.Any(), int64(5)).Return(ports.ErrNotFound)
	books.EXPECT().DeleteBook(gomock.Any(), int64(6)).Return(errors.New("db down"))

	require.NoError(t, uc.DeleteBook(context.Background(), 4))
	require.ErrorIs(t, uc.DeleteBook(context.Background(), 5), ErrNotFound)

	err := uc.DeleteBook(context.Background(), 6)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestNilPublisher(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	books := mocks.NewMockBookStorage(ctrl)
	uc := NewBookUseCase(books, nil, logger.Discard())

	books.EXPECT().DeleteBook(gomock.Any(), int64(1)).Return(nil)
	require.NoError(t, uc.DeleteBook(context.Background(), 1))
}
