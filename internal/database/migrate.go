package database

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate накатывает все миграции из embed-каталога migrations.
func Migrate(db *sqlx.DB, logger *zap.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("не удалось выбрать диалект миграций: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		logger.Error("Ошибка применения миграций", zap.Error(err))
		return fmt.Errorf("не удалось применить миграции: %w", err)
	}

	logger.Info("Миграции применены")
	return nil
}

// Rollback откатывает последнюю примененную миграцию.
func Rollback(db *sqlx.DB, logger *zap.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("не удалось выбрать диалект миграций: %w", err)
	}

	if err := goose.Down(db.DB, "migrations"); err != nil {
		logger.Error("Ошибка отката миграции", zap.Error(err))
		return fmt.Errorf("не удалось откатить миграцию: %w", err)
	}

	logger.Info("Миграция откатана")
	return nil
}
