package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/models"
)

var DB *gorm.DB

// Init opens the configured database, migrates it when asked to and makes it
// the package default.
func Init(cfg config.DatabaseConfig) error {
	const op = "db.Init"

	gdb, err := Open(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(gdb); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	DB = gdb
	slog.Info("database connected", "op", op, "driver", cfg.Driver, "migrated", cfg.AutoMigrate)
	return nil
}

func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(SQLiteDSN(cfg.SQLitePath)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns on foreign key enforcement for every pooled connection,
// sqlite leaves it off otherwise.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on", path)
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	return nil
}

func SetTestDB(testDB *gorm.DB) {
	DB = testDB
}
