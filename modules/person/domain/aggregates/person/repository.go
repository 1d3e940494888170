package person

import (
	"context"
)

// Repository is implemented once per storage engine. Failures are returned as
// serrors.KindStorage errors.
type Repository interface {
	Create(ctx context.Context, p Person) (Person, error)
	List(ctx context.Context) ([]Person, error)
	Ping(ctx context.Context) error
}
