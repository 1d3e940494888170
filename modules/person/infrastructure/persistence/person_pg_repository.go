package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence/models"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

const (
	pgInsertPersonQuery = `INSERT INTO person (last_name, phone_number, location)
VALUES ($1, $2, $3)
RETURNING id, last_name, phone_number, location`

	pgListPersonsQuery = `SELECT id, last_name, phone_number, location FROM person`
)

// PgPersonRepository stores persons in Postgres through a pgx pool.
type PgPersonRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonRepository(pool *pgxpool.Pool) person.Repository {
	return &PgPersonRepository{pool: pool}
}

func (r *PgPersonRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	var row models.PgPerson
	err := r.pool.QueryRow(ctx, pgInsertPersonQuery, p.LastName(), p.PhoneNumber(), p.Location()).
		Scan(&row.ID, &row.LastName, &row.PhoneNumber, &row.Location)
	if err != nil {
		return person.Person{}, serrors.Storage("person.insert", err)
	}
	return toDomainPersonFromPg(row), nil
}

func (r *PgPersonRepository) List(ctx context.Context) ([]person.Person, error) {
	rows, err := r.pool.Query(ctx, pgListPersonsQuery)
	if err != nil {
		return nil, serrors.Storage("person.list", err)
	}
	collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PgPerson, error) {
		var m models.PgPerson
		err := row.Scan(&m.ID, &m.LastName, &m.PhoneNumber, &m.Location)
		return m, err
	})
	if err != nil {
		return nil, serrors.Storage("person.list", err)
	}

	out := make([]person.Person, 0, len(collected))
	for _, row := range collected {
		out = append(out, toDomainPersonFromPg(row))
	}
	return out, nil
}

func (r *PgPersonRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return serrors.Storage("person.ping", err)
	}
	return nil
}
