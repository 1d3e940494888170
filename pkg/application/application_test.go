package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct{ key string }

func (c *stubController) Register(r *mux.Router) {
	r.HandleFunc(c.key, func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)
}

func (c *stubController) Key() string { return c.key }

type stubService struct{ name string }

type stubModule struct {
	name string
	err  error
}

func (m *stubModule) Register(app Application) error {
	if m.err != nil {
		return m.err
	}
	app.RegisterServices(&stubService{name: m.name})
	app.RegisterControllers(&stubController{key: "/" + m.name})
	return nil
}

func (m *stubModule) Name() string { return m.name }

func TestApplication_ServiceRegistry(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	require.NoError(t, Load(app, &stubModule{name: "person"}))

	svc := app.Service(stubService{}).(*stubService)
	assert.Equal(t, "person", svc.name)
	assert.Len(t, app.Services(), 1)
	assert.NotNil(t, app.Logger())
}

func TestApplication_ServicePanicsWhenMissing(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	assert.Panics(t, func() { app.Service(stubService{}) })
}

func TestApplication_ControllersSortedByKey(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	app.RegisterControllers(&stubController{key: "/persons"}, &stubController{key: "/health"}, &stubController{key: "/persons"})

	controllers := app.Controllers()
	require.Len(t, controllers, 2)
	assert.Equal(t, "/health", controllers[0].Key())
	assert.Equal(t, "/persons", controllers[1].Key())
}

func TestLoad_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	err := Load(app, &stubModule{name: "broken", err: errors.New("boom")}, &stubModule{name: "person"})

	require.ErrorContains(t, err, "register module broken")
	assert.Empty(t, app.Controllers())
}

func TestMigrationManager_RejectsUnknownDialect(t *testing.T) {
	t.Parallel()

	m := NewMigrationManager(logrus.New())
	require.NoError(t, m.Up(context.Background(), nil, "sqlite"), "no schemas registered")

	m.RegisterSchema("person", fstest.MapFS{
		"00001_init.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nSELECT 1;\n")},
	})
	err := m.Up(context.Background(), nil, "sqlite")
	require.ErrorContains(t, err, `unsupported migration dialect "sqlite"`)
	_, err = m.Status(context.Background(), nil, "sqlite")
	assert.Error(t, err)
}

func TestApplication_EventPublisherDefaults(t *testing.T) {
	t.Parallel()

	app := New(&ApplicationOptions{})
	require.NotNil(t, app.EventPublisher())

	called := false
	app.EventPublisher().Subscribe(func(ctx context.Context, s *stubService) { called = true })
	app.EventPublisher().Publish(context.Background(), &stubService{})
	assert.True(t, called)
}
