package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Client держит пул соединений sqlx для PostgreSQL или SQLite.
type Client struct {
	DB     *sqlx.DB
	Driver string
	logger *slog.Logger
}

// NewClient открывает соединение, проверяет его и применяет миграции.
// driver: "postgres" или "sqlite3".
func NewClient(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		logger.Error("failed to open database connection", "driver", driver, "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	if driver == "sqlite3" {
		// одно соединение: SQLite не любит параллельную запись, а :memory: живёт в рамках соединения
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := applyMigrations(db, driver, dsn, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	logger.Info("database connection established",
		"driver", driver,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Driver: driver, logger: logger}, nil
}

// Ping проверяет доступность базы, используется в /healthz.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	start := time.Now()
	if err := c.DB.Close(); err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
