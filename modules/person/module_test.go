package person_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	personmodule "github.com/iota-uz/person-directory/modules/person"
	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/server"
)

type pingRepo struct{ err error }

func (r pingRepo) Create(ctx context.Context, p person.Person) (person.Person, error) {
	return person.Hydrate(1, p.LastName(), p.PhoneNumber(), p.Location()), nil
}

func (r pingRepo) List(ctx context.Context) ([]person.Person, error) { return nil, nil }

func (r pingRepo) Ping(ctx context.Context) error { return r.err }

func newHandler(t *testing.T, repo person.Repository) http.Handler {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	app := application.New(&application.ApplicationOptions{Logger: logger})
	require.NoError(t, application.Load(app, personmodule.NewModule(personmodule.ModuleOptions{
		Repository:   repo,
		Driver:       "postgres",
		ReadyTimeout: time.Second,
	})))
	return server.NewHTTPServer(app, nil, nil).Router()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestModule_Routes(t *testing.T) {
	t.Parallel()

	h := newHandler(t, pingRepo{})

	rec := get(h, "/persons")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusOK, get(h, "/health/live").Code)

	rec = get(h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestModule_ReadyFailsWhenStoreDown(t *testing.T) {
	t.Parallel()

	h := newHandler(t, pingRepo{err: errors.New("dial tcp: connection refused")})

	rec := get(h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", rec.Body.String())

	assert.Equal(t, http.StatusOK, get(h, "/health/live").Code)
}

func TestModule_RequiresRepository(t *testing.T) {
	t.Parallel()

	app := application.New(&application.ApplicationOptions{})
	err := application.Load(app, personmodule.NewModule(personmodule.ModuleOptions{Driver: "postgres"}))
	assert.Error(t, err)
}
