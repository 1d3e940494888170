package controllers

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/presentation/mappers"
	"github.com/iota-uz/person-directory/modules/person/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/composables"
	"github.com/iota-uz/person-directory/pkg/httpapi"
	"github.com/iota-uz/person-directory/pkg/middleware"
)

type PersonAPIController struct {
	app      application.Application
	persons  *services.PersonService
	basePath string
}

func NewPersonAPIController(app application.Application) application.Controller {
	return &PersonAPIController{
		app:      app,
		persons:  app.Service(services.PersonService{}).(*services.PersonService),
		basePath: "/persons",
	}
}

func (c *PersonAPIController) Key() string {
	return c.basePath
}

func (c *PersonAPIController) Register(r *mux.Router) {
	router := r.Path(c.basePath).Subrouter()
	router.Use(middleware.TracedMiddleware("persons"))
	router.Methods(http.MethodGet).HandlerFunc(c.List)
	router.Methods(http.MethodPost).HandlerFunc(c.Create)
}

func (c *PersonAPIController) List(w http.ResponseWriter, r *http.Request) {
	persons, err := c.persons.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if err := httpapi.WriteJSON(w, http.StatusOK, mappers.PersonsToDTOs(persons)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}

func (c *PersonAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto person.CreateDTO
	if err := decodeJSON(r, &dto); err != nil {
		if errors.Is(err, errUnsupportedMediaType) {
			writeAPIError(w, r, http.StatusUnsupportedMediaType, "PERSON_UNSUPPORTED_MEDIA_TYPE", err.Error())
			return
		}
		writeAPIError(w, r, http.StatusBadRequest, "PERSON_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeValidationError(w, r, errs)
		return
	}

	created, err := c.persons.Create(r.Context(), &dto)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	if err := httpapi.WriteJSON(w, http.StatusCreated, mappers.PersonToDTO(created)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}
