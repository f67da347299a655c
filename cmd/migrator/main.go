// Command migrator applies the SQL migrations to a postgres database.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag   = "storage-path"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
)

type options struct {
	storagePath    string
	migrationsPath string
	down           bool
}

func main() {
	opts := parseFlags()
	if err := opts.validate(); err != nil {
		slog.Error("too few args", "err", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		slog.Error("failed to migrate", "err", err)
		os.Exit(1)
	}
}

// migrationLogger adapts slog to migrate.Logger.
type migrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (ml *migrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *migrationLogger) Verbose() bool {
	return ml.verbose
}

func parseFlags() options {
	var o options
	pflag.StringVarP(&o.storagePath, storagePathFlag, "s", "", "postgres address, user:password@host:port/dbname?sslmode=disable")
	pflag.StringVarP(&o.migrationsPath, migrationPathFlag, "m", "migrations", "directory holding the migration files")
	pflag.BoolVar(&o.down, downFlag, false, "roll every migration back")
	pflag.Parse()
	return o
}

func (o options) validate() error {
	var errs []error
	if o.storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}
	if o.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}
	return errors.Join(errs...)
}

func run(o options) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", o.migrationsPath),
		fmt.Sprintf("pgx5://%s", o.storagePath),
	)
	if err != nil {
		return err
	}
	defer m.Close()

	m.Log = &migrationLogger{logger: slog.Default(), verbose: true}

	if o.down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.Log.Printf("no migrations to apply")
		return nil
	}
	if err != nil {
		return err
	}
	m.Log.Printf("migrations applied")
	return nil
}
