package application

import (
	"context"
	"database/sql"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/person-directory/pkg/eventbus"
)

// Controller registers its routes on the shared router.
type Controller interface {
	Register(r *mux.Router)
	Key() string
}

// Module wires services and controllers of one feature into the application.
type Module interface {
	Register(app Application) error
	Name() string
}

// MigrationManager applies the SQL schemas registered by modules.
type MigrationManager interface {
	RegisterSchema(name string, fsys fs.FS)
	Up(ctx context.Context, db *sql.DB, dialect string) error
	Down(ctx context.Context, db *sql.DB, dialect string) error
	Status(ctx context.Context, db *sql.DB, dialect string) ([]*goose.MigrationStatus, error)
}

type Application interface {
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	Migrations() MigrationManager
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}
