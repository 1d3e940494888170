package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence"
	"github.com/iota-uz/person-directory/pkg/configuration"
)

// store is the storage adapter together with the handles needed to migrate
// and to release it.
type store struct {
	repo  person.Repository
	close func()
}

func openStore(ctx context.Context, db *configuration.DatabaseOptions) (*store, error) {
	switch db.Driver {
	case configuration.DriverPostgres:
		poolConfig, err := pgxpool.ParseConfig(db.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("parse postgres config: %w", err)
		}
		poolConfig.MaxConns = int32(db.MaxConns)
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		return &store{repo: persistence.NewPgPersonRepository(pool), close: pool.Close}, nil
	case configuration.DriverMySQL:
		conn, err := sqlx.Open("mysql", db.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		conn.SetMaxOpenConns(db.MaxConns)
		conn.SetMaxIdleConns(db.MaxConns)
		return &store{repo: persistence.NewMySQLPersonRepository(conn), close: func() { _ = conn.Close() }}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", db.Driver)
	}
}

// openMigrationDB opens a database/sql handle for goose. Postgres goes through
// lib/pq, MySQL through go-sql-driver/mysql.
func openMigrationDB(db *configuration.DatabaseOptions) (*sql.DB, error) {
	switch db.Driver {
	case configuration.DriverPostgres:
		return sql.Open("postgres", db.ConnectionString())
	case configuration.DriverMySQL:
		return sql.Open("mysql", db.MySQLDSN())
	default:
		return nil, fmt.Errorf("unsupported driver %q", db.Driver)
	}
}
