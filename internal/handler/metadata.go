package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/jsonval"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

// MetadataHandler implements HTTP handlers for the business-metadata API.
type MetadataHandler struct {
	svc *metadata.Service
	log *zap.Logger
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(svc *metadata.Service, log *zap.Logger) *MetadataHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MetadataHandler{svc: svc, log: log}
}

func listOptions(r *http.Request) metadata.ListOptions {
	p := parsePagination(r)
	return metadata.ListOptions{
		Search:          r.URL.Query().Get("search"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
		Limit:           p.Limit,
		Offset:          p.Offset,
	}
}

// ── Tables ──────────────────────────────────────────────────────────────────

// HandleCreateTable creates a business table entry.
// POST /v1/tables
func (h *MetadataHandler) HandleCreateTable(w http.ResponseWriter, r *http.Request) {
	audit, ok := parseAuditContext(w, r)
	if !ok {
		return
	}
	var req metadata.BusinessTable
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.SchemaName == "" || req.TableName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "schema_name and table_name are required")
		return
	}
	created, err := h.svc.CreateTable(r.Context(), req, audit.Actor)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGetTable returns one business table entry.
// GET /v1/tables/{id}
func (h *MetadataHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Store().GetTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleListTables lists business table entries.
// GET /v1/tables
func (h *MetadataHandler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	tables, total, err := h.svc.Store().ListTables(r.Context(), listOptions(r))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if tables == nil {
		tables = []metadata.BusinessTable{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tables":      tables,
		"total_count": total,
	})
}

// ── Columns ─────────────────────────────────────────────────────────────────

// HandleCreateColumn creates a business column entry under a table.
// POST /v1/tables/{id}/columns
func (h *MetadataHandler) HandleCreateColumn(w http.ResponseWriter, r *http.Request) {
	audit, ok := parseAuditContext(w, r)
	if !ok {
		return
	}
	var req metadata.BusinessColumn
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	req.TableID = chi.URLParam(r, "id")
	if req.ColumnName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "column_name is required")
		return
	}
	created, err := h.svc.CreateColumn(r.Context(), req, audit.Actor)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListColumns lists columns of a table.
// GET /v1/tables/{id}/columns
func (h *MetadataHandler) HandleListColumns(w http.ResponseWriter, r *http.Request) {
	columns, total, err := h.svc.Store().ListColumns(r.Context(), chi.URLParam(r, "id"), listOptions(r))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if columns == nil {
		columns = []metadata.BusinessColumn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns":     columns,
		"total_count": total,
	})
}

// HandleGetColumn returns one business column entry.
// GET /v1/columns/{id}
func (h *MetadataHandler) HandleGetColumn(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Store().GetColumn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ── Domains ─────────────────────────────────────────────────────────────────

// HandleCreateDomain creates a business domain entry.
// POST /v1/domains
func (h *MetadataHandler) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	audit, ok := parseAuditContext(w, r)
	if !ok {
		return
	}
	var req metadata.BusinessDomain
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.DomainName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "domain_name is required")
		return
	}
	created, err := h.svc.CreateDomain(r.Context(), req, audit.Actor)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleGetDomain returns one business domain entry.
// GET /v1/domains/{id}
func (h *MetadataHandler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Store().GetDomain(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleListDomains lists business domain entries.
// GET /v1/domains
func (h *MetadataHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	domains, total, err := h.svc.Store().ListDomains(r.Context(), listOptions(r))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if domains == nil {
		domains = []metadata.BusinessDomain{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"domains":     domains,
		"total_count": total,
	})
}

// ── Configs ─────────────────────────────────────────────────────────────────

// HandleListConfigs lists configuration entries. Sensitive values are
// masked.
// GET /v1/configs
func (h *MetadataHandler) HandleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.svc.Store().ListConfigs(r.Context())
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	for i := range configs {
		if configs[i].IsSensitive {
			configs[i].Value = "********"
		}
	}
	if configs == nil {
		configs = []metadata.SystemConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"configs": configs})
}

// HandleGetConfig returns one configuration entry.
// GET /v1/configs/{key}
func (h *MetadataHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Store().GetConfig(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	if cfg.IsSensitive {
		cfg.Value = "********"
	}
	writeJSON(w, http.StatusOK, cfg)
}

// HandlePutConfig upserts a configuration entry.
// PUT /v1/configs/{key}
func (h *MetadataHandler) HandlePutConfig(w http.ResponseWriter, r *http.Request) {
	audit, ok := parseAuditContext(w, r)
	if !ok {
		return
	}
	var req metadata.SystemConfig
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	req.Key = chi.URLParam(r, "key")
	cfg, err := h.svc.PutConfig(r.Context(), req, audit.Actor)
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ── Field editing ───────────────────────────────────────────────────────────

// editFieldRequest is the body for a field edit: a full replacement, or an
// inline leaf edit when inline is set.
type editFieldRequest struct {
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
	Path   string `json:"path,omitempty"`
}

// HandleEditField runs one validated field edit.
// POST /v1/{entity_type}/{id}/fields/{field}
func (h *MetadataHandler) HandleEditField(w http.ResponseWriter, r *http.Request) {
	audit, ok := parseAuditContext(w, r)
	if !ok {
		return
	}
	var req editFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Inline && req.Path == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "path is required for inline edits")
		return
	}

	committed, err := h.svc.EditField(r.Context(), metadata.EditFieldRequest{
		EntityType: chi.URLParam(r, "entity_type"),
		EntityID:   chi.URLParam(r, "id"),
		Field:      chi.URLParam(r, "field"),
		Value:      req.Value,
		Inline:     req.Inline,
		Path:       req.Path,
		Actor:      audit.Actor,
	})
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"value": committed})
}

// HandleGetFieldPreview returns the bounded read-mode preview of a field.
// GET /v1/{entity_type}/{id}/fields/{field}
func (h *MetadataHandler) HandleGetFieldPreview(w http.ResponseWriter, r *http.Request) {
	value, spec, err := h.svc.FieldState(r.Context(),
		chi.URLParam(r, "entity_type"), chi.URLParam(r, "id"), chi.URLParam(r, "field"))
	if err != nil {
		errorToHTTP(w, h.log, err)
		return
	}
	parsed, perr := jsonval.Parse(value)
	resp := map[string]any{
		"value": value,
		"spec":  spec,
	}
	if perr == nil {
		resp["preview"] = jsonval.BuildPreview(parsed, spec.AllowInlineEdit)
	}
	writeJSON(w, http.StatusOK, resp)
}
