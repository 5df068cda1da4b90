package di

import (
	"context"
	"fmt"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/LibraryApp/internal/app"
	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/config"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/database/client"
	"github.com/GoArmGo/LibraryApp/internal/database/postgres"
	"github.com/GoArmGo/LibraryApp/internal/database/storage"
	"github.com/GoArmGo/LibraryApp/internal/handler"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/rabbitmq"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// лимитеры IP, не обращавшиеся дольше этого времени, удаляются
const limiterTTL = 10 * time.Minute

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// mode влияет только на то, поднимается ли клиент объектного хранилища.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Токены и пароли: пустой секрет считается фатальной ошибкой конфигурации
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
		Leeway:   cfg.Auth.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return nil, err
	}

	// 3. База данных и миграции
	dbClient, err := client.NewClient(ctx, cfg.DBDriver, cfg.DatabaseURL, slogger)
	if err != nil {
		return nil, err
	}

	// 4. Инициализация хранилищ
	var (
		userStorage ports.UserStorage
		bookStorage ports.BookStorage
	)
	switch cfg.DBEngine {
	case "gorm":
		gdb, err := postgres.NewGormDB(dbClient.DB.DB)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		userStorage = postgres.NewGormUserStorage(gdb, slogger)
		bookStorage = postgres.NewGormBookStorage(gdb, slogger)
	default:
		userStorage = storage.NewUserStorage(dbClient.DB, slogger)
		bookStorage = storage.NewBookStorage(dbClient.DB, slogger)
	}
	slogger.Info("storage initialized", "driver", cfg.DBDriver, "engine", cfg.DBEngine)

	deps := app.Deps{
		Config:   cfg,
		Logger:   slogger,
		DB:       dbClient,
		Verifier: tokens,
	}

	// 5. RabbitMQ опционален: без него события каталога не публикуются
	if cfg.MessagingEnabled() {
		mq, err := rabbitmq.NewClient(cfg.RabbitMQ.RabbitMQURL, cfg.RabbitMQ.RabbitMQQueueName, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		deps.Publisher = mq
		deps.Consumer = mq
	} else {
		slogger.Warn("RABBITMQ_URL is not set, catalog events are disabled")
	}

	// 6. Объектное хранилище нужно только воркеру
	if mode == "worker" {
		files, err := minio.NewMinioClient(ctx, minio.Options{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKeyID,
			SecretAccessKey: cfg.MinioSecretAccessKey,
			UseSSL:          cfg.MinioUseSSL,
			BucketName:      cfg.MinioBucketName,
			Region:          cfg.MinioRegion,
		}, slogger)
		if err != nil {
			_ = app.NewApp(deps).Shutdown()
			return nil, err
		}
		deps.FileStorage = files
	}

	// 7. Инициализация бизнес-логики (usecases)
	deps.AuthUseCase = usecase.NewAuthUseCase(userStorage, hasher, tokens, deps.Publisher, slogger)
	deps.BookUseCase = usecase.NewBookUseCase(bookStorage, deps.Publisher, slogger)

	// 8. Метрики и ограничение частоты входа
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Registry = registry
	deps.LoginLimiter = handler.NewIPRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, limiterTTL)

	slogger.Info("all dependencies initialized", "mode", mode)
	return app.NewApp(deps), nil
}
