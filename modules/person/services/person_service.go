package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/pkg/eventbus"
)

type PersonService struct {
	repo      person.Repository
	publisher eventbus.EventBus
}

func NewPersonService(repo person.Repository, publisher eventbus.EventBus) *PersonService {
	return &PersonService{
		repo:      repo,
		publisher: publisher,
	}
}

// Create persists a validated DTO. The storage engine assigns the id.
func (s *PersonService) Create(ctx context.Context, dto *person.CreateDTO) (person.Person, error) {
	if dto == nil {
		return person.Person{}, errors.New("missing dto")
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return person.Person{}, errors.Wrap(err, "create person")
	}
	if s.publisher != nil {
		s.publisher.Publish(ctx, person.NewCreatedEvent(created))
	}
	return created, nil
}

func (s *PersonService) List(ctx context.Context) ([]person.Person, error) {
	persons, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list persons")
	}
	if persons == nil {
		persons = []person.Person{}
	}
	return persons, nil
}

// Ready reports whether the store answers a trivial query.
func (s *PersonService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
