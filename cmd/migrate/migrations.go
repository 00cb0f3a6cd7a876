package main

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrator wraps a golang-migrate instance over the embedded migrations.
type migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

func newMigrator(databaseURL string, logger *slog.Logger) (*migrator, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	m.Log = migrateLogger{logger: logger}

	return &migrator{m: m, logger: logger}, nil
}

func (mg *migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		mg.logger.Warn("close migrator", "error", err)
	}
}

// Up applies all pending migrations, or at most steps when steps > 0.
func (mg *migrator) Up(steps int) error {
	var err error
	if steps > 0 {
		err = mg.m.Steps(steps)
	} else {
		err = mg.m.Up()
	}
	return noChange(err)
}

// Down reverts steps migrations, or all of them when steps <= 0.
func (mg *migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = mg.m.Steps(-steps)
	} else {
		err = mg.m.Down()
	}
	return noChange(err)
}

func (mg *migrator) Force(version int) error {
	return mg.m.Force(version)
}

// Version returns the current schema version. ok is false before the
// first migration.
func (mg *migrator) Version() (version uint, dirty, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

func noChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool {
	return false
}
