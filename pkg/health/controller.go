// Package health serves the liveness and readiness probes shared by both
// services. Bodies are plain text: "OK" or "Service Unavailable".
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/composables"
	"github.com/iota-uz/person-directory/pkg/constants"
	"github.com/iota-uz/person-directory/pkg/httpapi"
)

// Checker reports whether the dependency behind readiness is usable.
type Checker func(ctx context.Context) error

type Controller struct {
	ready   Checker
	timeout time.Duration
}

// NewController builds the probe controller. The checker runs under timeout;
// a zero timeout leaves only the request context in charge.
func NewController(ready Checker, timeout time.Duration) application.Controller {
	return &Controller{ready: ready, timeout: timeout}
}

func (c *Controller) Key() string {
	return "/health"
}

func (c *Controller) Register(r *mux.Router) {
	r.HandleFunc(constants.LiveEndpoint, c.Live).Methods(http.MethodGet)
	r.HandleFunc(constants.ReadyEndpoint, c.Ready).Methods(http.MethodGet)
}

func (c *Controller) Live(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteText(w, http.StatusOK, httpapi.MsgOK)
}

func (c *Controller) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := c.ready(ctx); err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("duration", time.Since(start)).Warn("readiness check failed")
		httpapi.WriteText(w, http.StatusServiceUnavailable, httpapi.MsgServiceUnavailable)
		return
	}
	httpapi.WriteText(w, http.StatusOK, httpapi.MsgOK)
}
