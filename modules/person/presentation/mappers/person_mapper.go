package mappers

import (
	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/presentation/dtos"
)

func PersonToDTO(p person.Person) *dtos.Person {
	return &dtos.Person{
		ID:          p.ID(),
		LastName:    p.LastName(),
		PhoneNumber: p.PhoneNumber(),
		Location:    p.Location(),
	}
}

func PersonsToDTOs(persons []person.Person) []*dtos.Person {
	out := make([]*dtos.Person, 0, len(persons))
	for _, p := range persons {
		out = append(out, PersonToDTO(p))
	}
	return out
}
