package controllers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/mappers"
	"github.com/iota-uz/person-directory/modules/frontend/presentation/templates"
	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
	"github.com/iota-uz/person-directory/modules/frontend/services"
	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/composables"
	"github.com/iota-uz/person-directory/pkg/middleware"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

const (
	pageTitle    = "Person"
	maxFormBytes = 1 << 20
)

type PersonController struct {
	app      application.Application
	gateway  *services.GatewayService
	basePath string
}

func NewPersonController(app application.Application) application.Controller {
	return &PersonController{
		app:      app,
		gateway:  app.Service(services.GatewayService{}).(*services.GatewayService),
		basePath: "/persons",
	}
}

func (c *PersonController) Key() string {
	return c.basePath
}

func (c *PersonController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.TracedMiddleware("persons"))
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/new", c.GetNew).Methods(http.MethodGet)
}

func (c *PersonController) List(w http.ResponseWriter, r *http.Request) {
	res, err := c.gateway.List(r.Context())
	if err != nil {
		c.upstreamFailure(w, r, err)
		return
	}
	render(w, r, http.StatusOK, templates.PersonsPage(&viewmodels.PersonsPageProps{
		Title:   pageTitle,
		Persons: mappers.PersonsToViewModels(res.Persons),
		Notice:  res.Notice,
		NewURL:  c.basePath + "/new",
	}))
}

func (c *PersonController) GetNew(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.PersonCreatePage(&viewmodels.PersonCreatePageProps{
		Form:   &viewmodels.PersonFormVM{},
		PostTo: c.basePath,
	}))
}

func (c *PersonController) Create(w http.ResponseWriter, r *http.Request) {
	dto, status, err := decodeCreateDTO(w, r)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Debug("rejecting create request")
		render(w, r, status, templates.ErrorPage(&viewmodels.ErrorPageProps{
			Title:   http.StatusText(status),
			Message: "The submitted person could not be read.",
			BackURL: c.basePath,
		}))
		return
	}

	if errs, ok := dto.Ok(); !ok {
		render(w, r, http.StatusUnprocessableEntity, templates.PersonCreatePage(&viewmodels.PersonCreatePageProps{
			Form:   mappers.CreateDTOToFormVM(dto),
			Errors: errs,
			PostTo: c.basePath,
		}))
		return
	}

	created, err := c.gateway.Create(r.Context(), dto)
	if err != nil {
		c.upstreamFailure(w, r, err)
		return
	}

	render(w, r, http.StatusCreated, templates.PersonPage(&viewmodels.PersonPageProps{
		Person:  mappers.PersonToViewModel(created),
		BackURL: c.basePath,
	}))
}

// upstreamFailure answers 502. Under the degrade policy the person view is
// rendered with the notice; under strict an error page is shown.
func (c *PersonController) upstreamFailure(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).
		WithError(err).
		WithField("kind", serrors.KindOf(err).String()).
		Error("person service call failed")

	if c.gateway.Policy() == services.PolicyDegrade {
		render(w, r, http.StatusBadGateway, templates.PersonPage(&viewmodels.PersonPageProps{
			Notice:  services.UnavailableNotice,
			BackURL: c.basePath,
		}))
		return
	}
	render(w, r, http.StatusBadGateway, templates.ErrorPage(&viewmodels.ErrorPageProps{
		Title:   http.StatusText(http.StatusBadGateway),
		Message: services.UnavailableNotice,
		BackURL: c.basePath,
	}))
}

// decodeCreateDTO accepts a JSON body or an urlencoded form and returns the
// status to answer with when the body cannot be read.
func decodeCreateDTO(w http.ResponseWriter, r *http.Request) (*person.CreateDTO, int, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, http.StatusUnsupportedMediaType, err
		}
		mediaType = parsed
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	switch mediaType {
	case "application/json":
		dto := &person.CreateDTO{}
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dto); err != nil {
			return nil, http.StatusBadRequest, serrors.Decode("frontend.decode", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, http.StatusBadRequest, serrors.Decode("frontend.decode", errTrailingData)
		}
		return dto, 0, nil
	case "application/x-www-form-urlencoded":
		dto, err := composables.UseForm(&person.CreateDTO{}, r)
		if err != nil {
			return nil, http.StatusBadRequest, serrors.Decode("frontend.decode", err)
		}
		return dto, 0, nil
	default:
		return nil, http.StatusUnsupportedMediaType, errUnsupportedMediaType
	}
}
