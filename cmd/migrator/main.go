package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/linemk/basket-shop/internal/config"
	"github.com/linemk/basket-shop/internal/lib/logger"
)

const migrationTableName = "migrations"

// buildMigrateDSN добавляет к DSN имя таблицы версий миграций
func buildMigrateDSN(dbCfg config.DatabaseConfig, migrationTable string) string {
	return dbCfg.DSN() + "&x-migrations-table=" + migrationTable
}

func main() {
	var migrationsPathFlag string
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")

	// MustLoad сам вызывает flag.Parse, поэтому флаги объявлены выше
	cfg := config.MustLoad()
	log := logger.SetupLogger(cfg.Env)

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	if err := run(log, command, "file://"+migrationsPath, buildMigrateDSN(cfg.Database, migrationTableName)); err != nil {
		log.Error("migrator failed", slog.String("command", command), logger.Err(err))
		os.Exit(1)
	}

	if command == "up" {
		if err := printTables(log, cfg.Database); err != nil {
			log.Error("failed to list tables", logger.Err(err))
			os.Exit(1)
		}
	}
}

// run создаёт мигратор и выполняет команду; мигратор закрывается при любом исходе
func run(log *slog.Logger, command, sourceURL, databaseURL string) error {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Error("failed to close migrator", slog.Any("source_error", srcErr), slog.Any("database_error", dbErr))
		}
	}()

	return applyCommand(log, m, command)
}

func applyCommand(log *slog.Logger, m *migrate.Migrate, command string) error {
	switch command {
	case "up":
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Info("migrations applied successfully")

	case "down":
		err := m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to rollback")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Info("migration rolled back successfully")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Info("current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	default:
		return fmt.Errorf("unknown command %q, usage: migrator [up|down|version]", command)
	}
	return nil
}

// printTables выводит таблицы схемы public после применения миграций
func printTables(log *slog.Logger, dbCfg config.DatabaseConfig) error {
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return err
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	log.Info("current tables in the database", slog.Any("tables", tables))
	return nil
}
