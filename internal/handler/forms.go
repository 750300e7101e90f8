package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/uridolan77/reportaing-admin/internal/formschema"
)

// FormsHandler serves the CUE-derived form schemas.
type FormsHandler struct {
	schemas map[string]formschema.FormSchema
}

// NewFormsHandler creates a FormsHandler over loaded schemas.
func NewFormsHandler(schemas map[string]formschema.FormSchema) *FormsHandler {
	return &FormsHandler{schemas: schemas}
}

// HandleListForms lists the entity types that have forms.
// GET /v1/forms
func (h *FormsHandler) HandleListForms(w http.ResponseWriter, r *http.Request) {
	entities := make([]string, 0, len(h.schemas))
	for entity := range h.schemas {
		entities = append(entities, entity)
	}
	sort.Strings(entities)
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities})
}

// HandleGetForm returns the form schema for one entity type.
// GET /v1/forms/{entity_type}
func (h *FormsHandler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity_type")
	schema, ok := h.schemas[entity]
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_ENTITY", "no form for entity type "+entity)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}
