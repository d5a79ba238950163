package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// templates lists the registered ballot template identifiers
// GET /api/v1/templates
func (a *API) templates(w http.ResponseWriter, _ *http.Request) {
	httpWriteJSON(w, &TemplateList{Templates: a.engine.Templates().IDs()})
}

// template returns the schema of a single ballot template
// GET /api/v1/templates/{templateId}
func (a *API) template(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, TemplateURLParam)
	tpl, ok := a.engine.Templates().Get(id)
	if !ok {
		ErrTemplateNotFound.Withf("%q", id).Write(w)
		return
	}
	httpWriteJSON(w, tpl.Schema())
}
