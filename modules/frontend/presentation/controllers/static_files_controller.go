package controllers

import (
	"net/http"

	"github.com/benbjohnson/hashfs"
	"github.com/gorilla/mux"

	"github.com/iota-uz/person-directory/pkg/application"
)

type StaticFilesController struct {
	fsys *hashfs.FS
}

func NewStaticFilesController(fsys *hashfs.FS) application.Controller {
	return &StaticFilesController{fsys: fsys}
}

func (s *StaticFilesController) Key() string {
	return "/assets"
}

// Register serves hashed names with immutable caching; hashfs sets the headers.
func (s *StaticFilesController) Register(r *mux.Router) {
	r.PathPrefix("/assets/").
		Handler(http.StripPrefix("/assets/", hashfs.FileServer(s.fsys))).
		Methods(http.MethodGet, http.MethodHead)
}
