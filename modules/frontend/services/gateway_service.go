package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/presentation/dtos"
	"github.com/iota-uz/person-directory/pkg/composables"
)

// FailurePolicy decides how the gateway answers when the person service fails.
type FailurePolicy string

const (
	// PolicyDegrade renders an empty list with a notice on reads and the
	// notice alone on writes.
	PolicyDegrade FailurePolicy = "degrade"
	// PolicyStrict answers every upstream failure with an error page.
	PolicyStrict FailurePolicy = "strict"
)

const UnavailableNotice = "The person service is currently unavailable. Please try again later."

// PersonUpstream is the subset of the person service the gateway relies on.
type PersonUpstream interface {
	List(ctx context.Context) ([]dtos.Person, error)
	Create(ctx context.Context, dto *person.CreateDTO) (dtos.Person, error)
	Ready(ctx context.Context) error
}

type ListResult struct {
	Persons []dtos.Person
	// Notice is set when the list was degraded to empty.
	Notice string
}

func (r ListResult) Degraded() bool {
	return r.Notice != ""
}

type GatewayService struct {
	upstream PersonUpstream
	policy   FailurePolicy
}

func NewGatewayService(upstream PersonUpstream, policy FailurePolicy) *GatewayService {
	if policy != PolicyStrict {
		policy = PolicyDegrade
	}
	return &GatewayService{upstream: upstream, policy: policy}
}

func (s *GatewayService) Policy() FailurePolicy {
	return s.policy
}

// List returns the persons known upstream. Under PolicyDegrade an upstream
// failure yields zero persons and a notice instead of an error.
func (s *GatewayService) List(ctx context.Context) (ListResult, error) {
	persons, err := s.upstream.List(ctx)
	if err == nil {
		return ListResult{Persons: persons}, nil
	}
	if s.policy == PolicyStrict {
		return ListResult{}, errors.Wrap(err, "list persons")
	}
	composables.UseLogger(ctx).WithError(err).Warn("person service unavailable, rendering empty list")
	return ListResult{Persons: []dtos.Person{}, Notice: UnavailableNotice}, nil
}

// Create forwards a validated DTO. Failures are returned under both policies;
// the policy only changes how they are rendered.
func (s *GatewayService) Create(ctx context.Context, dto *person.CreateDTO) (dtos.Person, error) {
	created, err := s.upstream.Create(ctx, dto)
	if err != nil {
		return dtos.Person{}, errors.Wrap(err, "create person")
	}
	return created, nil
}

func (s *GatewayService) Ready(ctx context.Context) error {
	return s.upstream.Ready(ctx)
}
