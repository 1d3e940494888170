package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/configuration"
)

// PrometheusController exposes a gatherer in the text exposition format at
// the configured path. The path default lives in configuration.
type PrometheusController struct {
	path    string
	handler http.Handler
}

// NewPrometheusController serves gatherer, or the default registry when nil.
func NewPrometheusController(opts configuration.PrometheusOptions, gatherer prometheus.Gatherer) application.Controller {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &PrometheusController{
		path: opts.Path,
		handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}),
	}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, c.handler).Methods(http.MethodGet)
}
