package application

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/sirupsen/logrus"
)

type schema struct {
	name string
	fsys fs.FS
}

type migrationManager struct {
	logger  *logrus.Logger
	schemas []schema
}

func NewMigrationManager(logger *logrus.Logger) MigrationManager {
	return &migrationManager{logger: logger}
}

// RegisterSchema adds a directory of goose SQL files. Each schema keeps its own
// version table (goose_<name>) so modules version independently.
func (m *migrationManager) RegisterSchema(name string, fsys fs.FS) {
	m.schemas = append(m.schemas, schema{name: name, fsys: fsys})
}

func dialectOf(dialect string) (database.Dialect, error) {
	switch dialect {
	case "postgres":
		return database.DialectPostgres, nil
	case "mysql":
		return database.DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

func (m *migrationManager) provider(db *sql.DB, dialect string, s schema) (*goose.Provider, error) {
	d, err := dialectOf(dialect)
	if err != nil {
		return nil, err
	}
	store, err := database.NewStore(d, "goose_"+s.name)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider("", db, s.fsys, goose.WithStore(store))
}

func (m *migrationManager) Up(ctx context.Context, db *sql.DB, dialect string) error {
	for _, s := range m.schemas {
		p, err := m.provider(db, dialect, s)
		if err != nil {
			return fmt.Errorf("migrations %s: %w", s.name, err)
		}
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrations %s up: %w", s.name, err)
		}
		for _, r := range results {
			m.logger.WithFields(logrus.Fields{
				"schema":   s.name,
				"version":  r.Source.Version,
				"duration": r.Duration,
			}).Info("migration applied")
		}
	}
	return nil
}

// Down rolls back the latest migration of each schema, last registered first.
func (m *migrationManager) Down(ctx context.Context, db *sql.DB, dialect string) error {
	for i := len(m.schemas) - 1; i >= 0; i-- {
		s := m.schemas[i]
		p, err := m.provider(db, dialect, s)
		if err != nil {
			return fmt.Errorf("migrations %s: %w", s.name, err)
		}
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrations %s down: %w", s.name, err)
		}
		m.logger.WithFields(logrus.Fields{
			"schema":  s.name,
			"version": r.Source.Version,
		}).Info("migration rolled back")
	}
	return nil
}

func (m *migrationManager) Status(ctx context.Context, db *sql.DB, dialect string) ([]*goose.MigrationStatus, error) {
	var out []*goose.MigrationStatus
	for _, s := range m.schemas {
		p, err := m.provider(db, dialect, s)
		if err != nil {
			return nil, fmt.Errorf("migrations %s: %w", s.name, err)
		}
		statuses, err := p.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrations %s status: %w", s.name, err)
		}
		out = append(out, statuses...)
	}
	return out, nil
}
