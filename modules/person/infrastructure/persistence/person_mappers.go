package persistence

import (
	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence/models"
)

func toDomainPersonFromPg(row models.PgPerson) person.Person {
	location := ""
	if row.Location.Valid {
		location = row.Location.String
	}
	return person.Hydrate(row.ID, row.LastName, row.PhoneNumber, location)
}

func toDomainPersonFromMySQL(row models.MySQLPerson) person.Person {
	location := ""
	if row.Location.Valid {
		location = row.Location.String
	}
	return person.Hydrate(row.ID, row.LastName, row.PhoneNumber, location)
}
