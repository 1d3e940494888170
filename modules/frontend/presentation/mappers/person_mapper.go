package mappers

import (
	"strconv"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/presentation/dtos"
)

func PersonToViewModel(p dtos.Person) *viewmodels.Person {
	return &viewmodels.Person{
		ID:          strconv.FormatInt(p.ID, 10),
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Location:    p.Location,
	}
}

func PersonsToViewModels(persons []dtos.Person) []*viewmodels.Person {
	out := make([]*viewmodels.Person, 0, len(persons))
	for _, p := range persons {
		out = append(out, PersonToViewModel(p))
	}
	return out
}

func CreateDTOToFormVM(dto *person.CreateDTO) *viewmodels.PersonFormVM {
	if dto == nil {
		return &viewmodels.PersonFormVM{}
	}
	return &viewmodels.PersonFormVM{
		LastName:    dto.LastName,
		PhoneNumber: dto.PhoneNumber,
		Location:    dto.Location,
	}
}
