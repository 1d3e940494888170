package controllers

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/assets"
	"github.com/iota-uz/person-directory/modules/frontend/presentation/templates"
)

func stylesheetURL() string {
	return "/assets/" + assets.FS.HashName(assets.Stylesheet)
}

func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	ctx := templates.WithStylesheet(r.Context(), stylesheetURL())
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r.WithContext(ctx))
}
