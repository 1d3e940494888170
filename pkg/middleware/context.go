package middleware

import (
	"context"
	"time"

	"github.com/iota-uz/person-directory/pkg/constants"
)

func contextWithStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, constants.RequestStart, start)
}

// RequestStart returns when the logging middleware accepted the request.
func RequestStart(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(constants.RequestStart).(time.Time)
	return start, ok
}
