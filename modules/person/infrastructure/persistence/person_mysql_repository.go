package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence/models"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

const (
	mysqlInsertPersonQuery = `INSERT INTO person (last_name, phone_number, location) VALUES (?, ?, ?)`
	mysqlGetPersonQuery    = `SELECT id, last_name, phone_number, location FROM person WHERE id = ?`
	mysqlListPersonsQuery  = `SELECT id, last_name, phone_number, location FROM person`
)

// MySQLPersonRepository stores persons in MySQL through sqlx. MySQL has no
// RETURNING, so the inserted row is read back by its generated id.
type MySQLPersonRepository struct {
	db *sqlx.DB
}

func NewMySQLPersonRepository(db *sqlx.DB) person.Repository {
	return &MySQLPersonRepository{db: db}
}

func (r *MySQLPersonRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	res, err := r.db.ExecContext(ctx, mysqlInsertPersonQuery, p.LastName(), p.PhoneNumber(), p.Location())
	if err != nil {
		return person.Person{}, serrors.Storage("person.insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return person.Person{}, serrors.Storage("person.insert", err)
	}

	var row models.MySQLPerson
	if err := r.db.GetContext(ctx, &row, mysqlGetPersonQuery, id); err != nil {
		return person.Person{}, serrors.Storage("person.insert", err)
	}
	return toDomainPersonFromMySQL(row), nil
}

func (r *MySQLPersonRepository) List(ctx context.Context) ([]person.Person, error) {
	rows := []models.MySQLPerson{}
	if err := r.db.SelectContext(ctx, &rows, mysqlListPersonsQuery); err != nil {
		return nil, serrors.Storage("person.list", err)
	}

	out := make([]person.Person, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainPersonFromMySQL(row))
	}
	return out, nil
}

func (r *MySQLPersonRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return serrors.Storage("person.ping", err)
	}
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return serrors.Storage("person.ping", err)
	}
	return nil
}
