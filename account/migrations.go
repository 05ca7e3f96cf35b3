package account

import (
	"embed"

	"github.com/kbukum/companion/database/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator returns the migrator for the users schema.
func NewMigrator() *migration.Migrator {
	return migration.New(migrationsFS, "migrations", migration.SQLite)
}
