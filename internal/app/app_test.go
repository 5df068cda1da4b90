package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/config"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
	"github.com/GoArmGo/LibraryApp/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestArchiveHandler_Uploads(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStorage(ctrl)

	at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	event := payloads.NewBookEvent(payloads.EventBookCreated, "1", domain.Book{ID: 5, Title: "Dune"}, at)

	files.EXPECT().
		UploadFile(gomock.Any(), event.ObjectKey(), gomock.Any(), "application/json").
		DoAndReturn(func(_ context.Context, _ string, r io.Reader, _ string) (string, error) {
			var got payloads.CatalogEvent
			require.NoError(t, json.NewDecoder(r).Decode(&got))
			require.Equal(t, event.ID, got.ID)
			require.Equal(t, payloads.EventBookCreated, got.Type)
			require.Equal(t, "Dune", got.Book.Title)
			return "http://minio/bucket/" + event.ObjectKey(), nil
		})

	err := archiveHandler(files, logger.Discard())(context.Background(), event)
	require.NoError(t, err)
}

func TestArchiveHandler_UploadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStorage(ctrl)

	boom := errors.New("s3 down")
	files.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

	event := payloads.NewUserRegisteredEvent(1, time.Now())
	err := archiveHandler(files, logger.Discard())(context.Background(), event)
	require.ErrorIs(t, err, boom)
}

type eventHandler = func(context.Context, payloads.CatalogEvent) error

type fakeConsumer struct {
	started chan eventHandler
	err     error
	closed  int
}

func (c *fakeConsumer) StartConsumingCatalogEvents(_ context.Context, h eventHandler) error {
	if c.started != nil {
		c.started <- h
	}
	return c.err
}

func (c *fakeConsumer) PublishCatalogEvent(context.Context, payloads.CatalogEvent) error { return nil }

func (c *fakeConsumer) Close() error {
	c.closed++
	return nil
}

func TestRunWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileStorage(ctrl)
	files.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("url", nil)

	consumer := &fakeConsumer{started: make(chan eventHandler, 1)}
	a := NewApp(Deps{Logger: logger.Discard(), Consumer: consumer, FileStorage: files})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWorker(ctx, a) }()

	h := <-consumer.started
	require.NoError(t, h(ctx, payloads.NewUserRegisteredEvent(1, time.Now())))

	cancel()
	require.NoError(t, <-done)
}

func TestRunWorker_Misconfigured(t *testing.T) {
	a := NewApp(Deps{Logger: logger.Discard()})
	require.Error(t, runWorker(context.Background(), a))

	a = NewApp(Deps{Logger: logger.Discard(), Consumer: &fakeConsumer{err: errors.New("no channel")}, FileStorage: mocks.NewMockFileStorage(gomock.NewController(t))})
	require.Error(t, runWorker(context.Background(), a))
}

func TestRun_UnknownMode(t *testing.T) {
	a := NewApp(Deps{Logger: logger.Discard()})
	err := a.Run(context.Background(), "batch")
	require.Error(t, err)
	require.Contains(t, err.Error(), "batch")
}

func TestShutdown_ClosesSharedClientOnce(t *testing.T) {
	c := &fakeConsumer{}
	a := NewApp(Deps{Logger: logger.Discard(), Publisher: c, Consumer: c})
	require.NoError(t, a.Shutdown())
	require.Equal(t, 1, c.closed)
}

func TestServe_GracefulShutdown(t *testing.T) {
	a := NewApp(Deps{
		Logger: logger.Discard(),
		Config: &config.Config{ServerPort: "0", RequestTimeout: time.Second},
	})
	server := newHTTPServer(a)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, ln, a) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/livez")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
