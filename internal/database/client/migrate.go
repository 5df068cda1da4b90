package client

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// applyMigrations применяет все доступные миграции для выбранного драйвера.
func applyMigrations(db *sqlx.DB, driver, dsn string, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("не удалось открыть миграции для %s: %w", driver, err)
	}

	var m *migrate.Migrate
	switch driver {
	case "postgres":
		// мигратор открывает своё соединение и закрывает его в m.Close
		m, err = migrate.NewWithSourceInstance("iofs", src, dsn)
		if err != nil {
			return fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
		}
		defer func() {
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				logger.Warn("failed to close migrator", "source_error", srcErr, "db_error", dbErr)
			}
		}()
	case "sqlite3":
		// для SQLite работаем на том же *sql.DB (важно для :memory:), поэтому m.Close не вызываем
		inst, dErr := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if dErr != nil {
			return fmt.Errorf("не удалось подготовить sqlite3 для миграций: %w", dErr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", inst)
		if err != nil {
			return fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
		}
	default:
		return fmt.Errorf("миграции для драйвера %q не поддерживаются", driver)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations not required, database is up to date", "driver", driver)
	case err != nil:
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	default:
		logger.Info("migrations applied", "driver", driver)
	}
	return nil
}
