package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	BasePath       string        `env:"HTTP_BASE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`

	// DBDriver: "sqlite3" или "postgres".
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"library.db"`
	// DBEngine: "sqlx" или "gorm" (gorm только для postgres).
	DBEngine string `env:"DB_ENGINE" envDefault:"sqlx"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`

	Auth AuthConfig

	RateLimit struct {
		LoginPerSecond float64 `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
		LoginBurst     int     `env:"LOGIN_RATE_BURST" envDefault:"10"`
	}

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"catalog_events"`
	}

	// Настройки MinIO, нужны только воркеру
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"catalog-archive"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
}

// AuthConfig описывает параметры выпуска и проверки токенов.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	Issuer    string        `env:"JWT_ISSUER,required,notEmpty"`
	Audience  string        `env:"JWT_AUDIENCE,required,notEmpty"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"4h"`
	Leeway    time.Duration `env:"JWT_LEEWAY" envDefault:"0s"`

	// PasswordHasher: "argon2id" или "bcrypt".
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"argon2id"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("неизвестный DB_DRIVER: %q", c.DBDriver)
	}

	switch c.DBEngine {
	case "sqlx":
	case "gorm":
		if c.DBDriver != "postgres" {
			return fmt.Errorf("DB_ENGINE=gorm поддерживается только с DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("неизвестный DB_ENGINE: %q", c.DBEngine)
	}

	switch c.Auth.PasswordHasher {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("неизвестный PASSWORD_HASHER: %q", c.Auth.PasswordHasher)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL должен быть положительным")
	}

	return nil
}

// MessagingEnabled сообщает, настроен ли RabbitMQ.
func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
