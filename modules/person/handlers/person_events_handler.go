package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/composables"
)

var personsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "person_directory_persons_created_total",
	Help: "Number of persons inserted by the person service.",
})

type PersonEventsHandler struct {
	created prometheus.Counter
}

func RegisterPersonEventHandlers(app application.Application) *PersonEventsHandler {
	handler := &PersonEventsHandler{created: personsCreated}
	app.EventPublisher().Subscribe(handler.onPersonCreated)
	return handler
}

func (h *PersonEventsHandler) onPersonCreated(ctx context.Context, event *person.CreatedEvent) {
	h.created.Inc()
	composables.UseLogger(ctx).
		WithField("person_id", event.Result.ID()).
		Info("person created")
}
