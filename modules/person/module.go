package person

import (
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/handlers"
	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence"
	"github.com/iota-uz/person-directory/modules/person/presentation/controllers"
	"github.com/iota-uz/person-directory/modules/person/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/health"
)

type ModuleOptions struct {
	// Repository is the storage adapter chosen for Driver.
	Repository   person.Repository
	Driver       string
	ReadyTimeout time.Duration
}

func NewModule(opts ModuleOptions) application.Module {
	return &Module{opts: opts}
}

type Module struct {
	opts ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	if m.opts.Repository == nil {
		return errors.New("person module requires a repository")
	}
	schema, err := persistence.SchemaFS(m.opts.Driver)
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schema)

	personService := services.NewPersonService(m.opts.Repository, app.EventPublisher())
	app.RegisterServices(personService)
	handlers.RegisterPersonEventHandlers(app)

	app.RegisterControllers(
		controllers.NewPersonAPIController(app),
		health.NewController(personService.Ready, m.opts.ReadyTimeout),
	)
	return nil
}

func (m *Module) Name() string {
	return "person"
}
