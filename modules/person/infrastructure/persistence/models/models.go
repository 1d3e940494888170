package models

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

// PgPerson is a person row as scanned by pgx. Location is nullable for rows
// written before the location column existed.
type PgPerson struct {
	ID          int64
	LastName    string
	PhoneNumber string
	Location    pgtype.Text
}

// MySQLPerson is a person row as mapped by sqlx.
type MySQLPerson struct {
	ID          int64          `db:"id"`
	LastName    string         `db:"last_name"`
	PhoneNumber string         `db:"phone_number"`
	Location    sql.NullString `db:"location"`
}
