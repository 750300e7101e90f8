package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/editor"
	"github.com/uridolan77/reportaing-admin/internal/jsonval"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

// AuditInfo holds audit metadata extracted from request headers.
type AuditInfo struct {
	Actor         string
	Source        string
	CorrelationID *string
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts page_size and offset from query params.
func parsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: 50, Offset: 0}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}
	return p
}

// errorToHTTP maps service and validation errors to HTTP responses. Parse,
// constraint, and path failures are client errors carrying the same display
// text the editing UI shows.
func errorToHTTP(w http.ResponseWriter, log *zap.Logger, err error) {
	var (
		parseErr *jsonval.ParseError
		pathErr  *jsonval.PathResolutionError
		typeErr  *editor.TypeConstraintError
	)
	switch {
	case errors.Is(err, metadata.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, metadata.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, "UNKNOWN_ENTITY", err.Error())
	case errors.Is(err, metadata.ErrUnknownField):
		writeError(w, http.StatusBadRequest, "UNKNOWN_FIELD", err.Error())
	case errors.As(err, &parseErr), errors.As(err, &typeErr):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", editor.MessageFor(err))
	case errors.As(err, &pathErr):
		writeError(w, http.StatusUnprocessableEntity, "PATH_ERROR", err.Error())
	default:
		log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// parseAuditContext extracts audit metadata from request headers.
func parseAuditContext(w http.ResponseWriter, r *http.Request) (AuditInfo, bool) {
	actor := r.Header.Get("X-Actor")
	if actor == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ACTOR", "X-Actor header is required")
		return AuditInfo{}, false
	}
	source := r.Header.Get("X-Source")
	if source == "" {
		source = "user"
	}
	info := AuditInfo{
		Actor:  actor,
		Source: source,
	}
	if cid := r.Header.Get("X-Correlation-ID"); cid != "" {
		info.CorrelationID = &cid
	}
	return info, true
}
