package frontend

import (
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/modules/frontend/infrastructure/client"
	"github.com/iota-uz/person-directory/modules/frontend/presentation/assets"
	"github.com/iota-uz/person-directory/modules/frontend/presentation/controllers"
	"github.com/iota-uz/person-directory/modules/frontend/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/health"
)

type ModuleOptions struct {
	PersonURL       string
	Timeout         time.Duration
	Policy          services.FailurePolicy
	RequestIDHeader string
	// Upstream replaces the HTTP client; tests use it.
	Upstream services.PersonUpstream
}

func NewModule(opts ModuleOptions) application.Module {
	return &Module{opts: opts}
}

type Module struct {
	opts ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	upstream := m.opts.Upstream
	if upstream == nil {
		if m.opts.PersonURL == "" {
			return errors.New("frontend module requires the person service URL")
		}
		upstream = client.NewPersonClient(m.opts.PersonURL, m.opts.Timeout, m.opts.RequestIDHeader)
	}

	gateway := services.NewGatewayService(upstream, m.opts.Policy)
	app.RegisterServices(gateway)

	app.RegisterControllers(
		controllers.NewPersonController(app),
		controllers.NewStaticFilesController(assets.FS),
		health.NewController(gateway.Ready, 0),
	)
	return nil
}

func (m *Module) Name() string {
	return "frontend"
}
