package app

import (
	"context"
	"fmt"

	"github.com/kbukum/companion/account"
	"github.com/kbukum/companion/bootstrap"
	"github.com/kbukum/companion/database"
	"github.com/kbukum/companion/logger"
)

// MigrateAction selects what Migrate does.
type MigrateAction string

const (
	MigrateUp      MigrateAction = "up"
	MigrateDown    MigrateAction = "down"
	MigrateVersion MigrateAction = "version"
)

// Migrate opens the database and runs action against the account schema.
// Only the database component is started.
func Migrate(ctx context.Context, cfg *Config, action MigrateAction, opts ...bootstrap.Option) error {
	cfg.Database.AutoMigrate = false
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}
	db := database.NewComponent(cfg.Database, a.Logger)
	if err := a.RegisterComponent(db); err != nil {
		return err
	}

	m := account.NewMigrator()
	return a.RunTask(ctx, func(ctx context.Context) error {
		gdb := db.DB().GormDB
		switch action {
		case MigrateUp:
			if err := m.Up(gdb); err != nil {
				return err
			}
		case MigrateDown:
			if err := m.Down(gdb); err != nil {
				return err
			}
		case MigrateVersion:
		default:
			return fmt.Errorf("unknown migrate action %q", action)
		}

		v, dirty, err := m.Version(gdb)
		if err != nil {
			return err
		}
		a.Logger.Info("Schema version", logger.Fields("action", string(action), "version", v, "dirty", dirty))
		return nil
	})
}
