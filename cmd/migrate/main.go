package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/keva-agency/keva-site/migrations"
	"github.com/keva-agency/keva-site/pkg/logging"
)

// Usage: migrate [up | down | version | force <version>]
func main() {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("ping db", "error", err)
		os.Exit(1)
	}

	m, err := newMigrator(db)
	if err != nil {
		logger.Error("create migrator", "error", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	if err := cmd.apply(m); err != nil {
		logger.Error("migration failed", "command", cmd.name, "error", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Warn("read schema version", "error", err)
	}
	logger.Info("migrations complete", "command", cmd.name, "version", version, "dirty", dirty)
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("db driver: %w", err)
	}
	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("source driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
}

type command struct {
	name    string
	version int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{name: "up"}, nil
	}
	switch args[0] {
	case "up", "down", "version":
		return command{name: args[0]}, nil
	case "force":
		if len(args) < 2 {
			return command{}, errors.New("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return command{name: "force", version: v}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", args[0])
	}
}

func (c command) apply(m *migrate.Migrate) error {
	var err error
	switch c.name {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		err = m.Force(c.version)
	case "version":
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
