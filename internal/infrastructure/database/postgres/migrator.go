package postgres

import (
	"embed"
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrator applies schema migrations to the connection's database. Without
// an explicit path the migrations compiled into the binary are used.
type Migrator struct {
	m      *migrate.Migrate
	logger logging.Logger
}

// NewMigrator binds migrations to conn. path is a directory on disk; empty
// selects the embedded set.
func NewMigrator(conn *Connection, path string) (*Migrator, error) {
	driver, err := migratepgx.WithInstance(conn.DB(), &migratepgx.Config{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migration driver")
	}

	var m *migrate.Migrate
	if path == "" {
		src, serr := iofs.New(embeddedMigrations, "migrations")
		if serr != nil {
			return nil, errors.Wrap(serr, errors.ErrCodeInternal, "failed to open embedded migrations")
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx", driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+path, "pgx", driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return &Migrator{m: m, logger: conn.logger}, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		version, _, _ := g.m.Version()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, fmt.Sprintf("failed to run migrations (current version: %d)", version))
	}
	version, dirty, err := g.Status()
	if err != nil {
		return err
	}
	g.logger.Info("database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back steps migrations.
func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeValidation, "steps must be greater than 0, got %d", steps)
	}
	if err := g.m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeInvalidState, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, fmt.Sprintf("failed to roll back %d step(s)", steps))
	}
	return nil
}

// Status reports the applied version. A fresh database is version 0.
func (g *Migrator) Status() (uint, bool, error) {
	version, dirty, err := g.m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

// Close releases the source. The database pool stays open.
func (g *Migrator) Close() error {
	srcErr, _ := g.m.Close()
	return srcErr
}

// RunMigrations is NewMigrator followed by Up.
func (c *Connection) RunMigrations(path string) error {
	g, err := NewMigrator(c, path)
	if err != nil {
		return err
	}
	defer g.Close()
	return g.Up()
}

//Personal.AI order the ending
