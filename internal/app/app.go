package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/LibraryApp/internal/config"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/database/client"
	"github.com/GoArmGo/LibraryApp/internal/handler"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps: всё, что DI-контейнер передаёт приложению.
// Publisher, Consumer и FileStorage могут быть nil, если соответствующий
// сервис не настроен.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *client.Client

	AuthUseCase usecase.AuthUseCase
	BookUseCase usecase.BookUseCase
	Verifier    handler.TokenVerifier

	Publisher   ports.CatalogEventPublisher
	Consumer    ports.CatalogEventConsumer
	FileStorage ports.FileStorage

	Registry     *prometheus.Registry
	LoginLimiter *handler.IPRateLimiter
}

type App struct {
	Deps
}

func NewApp(deps Deps) *App {
	return &App{Deps: deps}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.Logger
}

// Run запускает приложение в режиме server или worker и блокируется
// до SIGINT/SIGTERM либо отмены ctx.
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("app starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a)
	case "worker":
		err = runWorker(ctx, a)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.Logger.Error("shutdown failed", "error", closeErr)
	}

	if err != nil {
		return err
	}
	a.Logger.Info("app stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия БД: %w", err))
		}
	}

	// publisher и consumer обычно один и тот же клиент RabbitMQ
	closed := map[any]bool{}
	for _, c := range []any{a.Publisher, a.Consumer} {
		closer, ok := c.(interface{ Close() error })
		if !ok || closed[c] {
			continue
		}
		closed[c] = true
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия RabbitMQ: %w", err))
		}
	}

	return errors.Join(errs...)
}
