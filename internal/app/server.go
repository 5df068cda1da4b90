package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/handler"
)

const shutdownTimeout = 30 * time.Second

// newHTTPServer собирает http.Server с роутером приложения.
func newHTTPServer(a *App) *http.Server {
	cfg := a.Config

	opts := handler.RouterOptions{
		Logger:         a.Logger,
		Auth:           a.AuthUseCase,
		Books:          a.BookUseCase,
		Verifier:       a.Verifier,
		LoginLimiter:   a.LoginLimiter,
		Registry:       a.Registry,
		BasePath:       cfg.BasePath,
		Timeout:        cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if a.DB != nil {
		opts.Health = a.DB
	}
	router := handler.NewRouter(opts)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServer запускает HTTP сервер и ждёт отмены ctx.
func runServer(ctx context.Context, a *App) error {
	server := newHTTPServer(a)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}
	return serve(ctx, server, ln, a)
}

func serve(ctx context.Context, server *http.Server, ln net.Listener, a *App) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server started", "addr", ln.Addr().String(), "base_path", a.Config.BasePath)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.Logger.Info("http server stopped")
	return nil
}
