// Transparency handlers for the AI query trace API. Trace ingestion is
// asynchronous: the handler validates and publishes, the bus consumer
// classifies and writes.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/event"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
	"github.com/uridolan77/reportaing-admin/internal/transparency"
)

// TransparencyHandler implements HTTP handlers for TransparencyService.
type TransparencyHandler struct {
	store transparency.Store
	bus   metadata.Publisher
	log   *zap.Logger
}

// NewTransparencyHandler creates a new TransparencyHandler.
func NewTransparencyHandler(store transparency.Store, bus metadata.Publisher, log *zap.Logger) *TransparencyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransparencyHandler{store: store, bus: bus, log: log}
}

// HandleRecordTrace accepts one AI query trace for ingestion.
// POST /v1/traces
func (h *TransparencyHandler) HandleRecordTrace(w http.ResponseWriter, r *http.Request) {
	var req event.TraceRecordedPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.TraceID == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "trace_id and model are required")
		return
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}
	if req.TotalTokens == 0 {
		req.TotalTokens = req.PromptTokens + req.CompletionTokens
	}

	h.bus.Publish(r.Context(), event.NewTraceRecorded(req))
	writeJSON(w, http.StatusAccepted, map[string]string{
		"trace_id": req.TraceID,
		"status":   "accepted",
	})
}

// traceQueryOptions parses the trace filter query parameters.
func traceQueryOptions(r *http.Request) transparency.QueryOptions {
	opts := transparency.DefaultQueryOptions()
	q := r.URL.Query()
	if s := q.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			opts.Since = &t
		}
	}
	if u := q.Get("until"); u != "" {
		if t, err := time.Parse(time.RFC3339, u); err == nil {
			opts.Until = &t
		}
	}
	if m := q.Get("models"); m != "" {
		opts.Models = strings.Split(m, ",")
	}
	if c := q.Get("categories"); c != "" {
		opts.Categories = strings.Split(c, ",")
	}
	if mw := q.Get("min_weight"); mw != "" {
		opts.MinWeight = mw
	}
	if mc := q.Get("max_confidence"); mc != "" {
		if f, err := strconv.ParseFloat(mc, 64); err == nil {
			opts.MaxConfidence = &f
		}
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			if n > 500 {
				n = 500
			}
			opts.Limit = n
		}
	}
	if c := q.Get("cursor"); c != "" {
		opts.Cursor = c
	}
	return opts
}

// HandleListTraces returns trace entries with filtering and cursor
// pagination.
// GET /v1/traces
func (h *TransparencyHandler) HandleListTraces(w http.ResponseWriter, r *http.Request) {
	opts := traceQueryOptions(r)
	entries, nextCursor, totalCount, err := h.store.QueryTraces(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	resp := struct {
		Traces     []transparency.TraceEntry `json:"traces"`
		NextCursor string                    `json:"next_cursor,omitempty"`
		TotalCount int                       `json:"total_count"`
		Period     struct {
			Since time.Time `json:"since"`
			Until time.Time `json:"until"`
		} `json:"period"`
	}{
		Traces:     entries,
		NextCursor: nextCursor,
		TotalCount: totalCount,
	}
	if opts.Since != nil {
		resp.Period.Since = *opts.Since
	}
	if opts.Until != nil {
		resp.Period.Until = *opts.Until
	}
	if resp.Traces == nil {
		resp.Traces = []transparency.TraceEntry{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// dashboardWindow parses the aggregation window, defaulting to the last 30
// days.
func dashboardWindow(r *http.Request) (since, until time.Time) {
	since = time.Now().AddDate(0, 0, -30)
	if s := r.URL.Query().Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			since = t
		}
	}
	return since, time.Now()
}

// collectWindow fetches every trace in the window, following the cursor
// across pages so busy windows aggregate completely.
func (h *TransparencyHandler) collectWindow(r *http.Request, since, until time.Time) ([]transparency.TraceEntry, error) {
	var entries []transparency.TraceEntry
	opts := transparency.QueryOptions{
		Since:     &since,
		Until:     &until,
		MinWeight: "info",
		Limit:     500,
	}
	for {
		page, nextCursor, _, err := h.store.QueryTraces(r.Context(), opts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		if nextCursor == "" {
			return entries, nil
		}
		opts.Cursor = nextCursor
	}
}

// HandleDashboardSummary returns the aggregate transparency dashboard.
// GET /v1/dashboard/summary
func (h *TransparencyHandler) HandleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	since, until := dashboardWindow(r)
	entries, err := h.collectWindow(r, since, until)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	summary := transparency.Aggregate(entries, since, until)
	writeJSON(w, http.StatusOK, summary)
}

// HandleDashboardTokens returns token spend for the window, broken down by
// model.
// GET /v1/dashboard/tokens
func (h *TransparencyHandler) HandleDashboardTokens(w http.ResponseWriter, r *http.Request) {
	since, until := dashboardWindow(r)
	entries, err := h.collectWindow(r, since, until)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, transparency.AggregateTokens(entries, since, until))
}
