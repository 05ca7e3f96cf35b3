// Package migration applies versioned SQL migrations with golang-migrate.
//
// Migration files follow VERSION_name.up.sql / VERSION_name.down.sql and are
// read from any fs.FS, usually an embed.FS owned by the package whose schema
// they define:
//
//	//go:embed migrations/*.sql
//	var migrationsFS embed.FS
//
//	m := migration.New(migrationsFS, "migrations", migration.SQLite)
//	err := m.Up(gormDB)
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// DriverFunc creates a migrate database driver from sql.DB.
type DriverFunc func(*sql.DB) (database.Driver, error)

// SQLite is the DriverFunc for SQLite databases.
func SQLite(db *sql.DB) (database.Driver, error) {
	return sqlite3.WithInstance(db, &sqlite3.Config{})
}

// Migrator runs the migrations found under path in source.
type Migrator struct {
	source fs.FS
	path   string
	driver DriverFunc
}

// New creates a Migrator.
func New(source fs.FS, path string, driver DriverFunc) *Migrator {
	return &Migrator{source: source, path: path, driver: driver}
}

// Up applies all pending migrations. Having nothing to apply is not an error.
func (m *Migrator) Up(db *gorm.DB) error {
	mg, err := m.open(db)
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back every applied migration.
func (m *Migrator) Down(db *gorm.DB) error {
	mg, err := m.open(db)
	if err != nil {
		return err
	}
	if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Steps applies n migrations forward (n > 0) or rolls back -n (n < 0).
func (m *Migrator) Steps(db *gorm.DB, n int) error {
	mg, err := m.open(db)
	if err != nil {
		return err
	}
	if err := mg.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate steps: %w", err)
	}
	return nil
}

// Version returns the applied version and dirty flag. A fresh database reports version 0.
func (m *Migrator) Version(db *gorm.DB) (version uint, dirty bool, err error) {
	mg, err := m.open(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// open builds a golang-migrate instance on the shared connection pool.
// The instance is never closed because that would close the pool.
func (m *Migrator) open(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := m.driver(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}
	source, err := iofs.New(m.source, m.path)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	mg, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return mg, nil
}
