package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uridolan77/reportaing-admin/internal/editor/hub"
	"github.com/uridolan77/reportaing-admin/internal/event"
	"github.com/uridolan77/reportaing-admin/internal/eventbus"
	"github.com/uridolan77/reportaing-admin/internal/formschema"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
	"github.com/uridolan77/reportaing-admin/internal/server"
	"github.com/uridolan77/reportaing-admin/internal/transparency"
)

// syncBus dispatches events inline so tests never race the consumer
// goroutine.
type syncBus struct {
	handlers []eventbus.Handler
}

func (b *syncBus) Publish(ctx context.Context, evt event.DomainEvent) {
	for _, h := range b.handlers {
		_ = h.HandleEvent(ctx, evt)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	srv, _ := newTestServerWithTraceStore(t)
	return srv
}

func newTestServerWithTraceStore(t *testing.T) (*httptest.Server, *transparency.MemoryStore) {
	t.Helper()
	traceStore := transparency.NewMemoryStore()
	bus := &syncBus{handlers: []eventbus.Handler{
		eventbus.NewTraceConsumer(transparency.NewIndexer(traceStore, nil)),
	}}

	schemas, err := formschema.Load()
	require.NoError(t, err)

	srv := httptest.NewServer(server.Router(server.Config{
		MetadataSvc: metadata.NewService(metadata.NewMemoryStore(), bus, nil),
		TraceStore:  traceStore,
		Bus:         bus,
		Schemas:     schemas,
		Sessions:    hub.NewManager(time.Hour, time.Hour),
	}))
	t.Cleanup(srv.Close)
	return srv, traceStore
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("X-Actor", "tester")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createTable(t *testing.T, srv *httptest.Server) metadata.BusinessTable {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/tables", map[string]any{
		"schema_name":              "common",
		"table_name":               "tbl_Daily_actions",
		"business_purpose":         "Daily player aggregates",
		"natural_language_aliases": `["deposits", "daily actions"]`,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created metadata.BusinessTable
	decodeBody(t, resp, &created)
	return created
}

func TestCreateAndGetTable(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	resp, err := http.Get(srv.URL + "/v1/tables/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got metadata.BusinessTable
	decodeBody(t, resp, &got)
	assert.Equal(t, "tbl_Daily_actions", got.TableName)
	assert.Equal(t, "tester", got.CreatedBy)
}

func TestCreateTable_RequiresActor(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/tables", "application/json",
		bytes.NewBufferString(`{"schema_name":"s","table_name":"t"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestEditField_FullEdit(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	url := fmt.Sprintf("%s/v1/table/%s/fields/natural_language_aliases", srv.URL, created.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{
		"value": `["deposits", "player deposits", "money in"]`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, `["deposits", "player deposits", "money in"]`, body["value"])
}

func TestEditField_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	url := fmt.Sprintf("%s/v1/table/%s/fields/usage_patterns", srv.URL, created.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{"value": `{"broken":`})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid JSON format", body["error"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestEditField_ObjectNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	url := fmt.Sprintf("%s/v1/table/%s/fields/natural_language_aliases", srv.URL, created.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{"value": `{"a": 1}`})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Objects are not allowed for this field", body["error"])
}

func TestEditField_Inline(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	url := fmt.Sprintf("%s/v1/table/%s/fields/natural_language_aliases", srv.URL, created.ID)
	resp := doJSON(t, http.MethodPost, url, map[string]any{
		"value":  "player deposits",
		"inline": true,
		"path":   "[1]",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["value"], "player deposits")
}

func TestEditField_UnknownEntityType(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/widget/x/fields/y",
		map[string]any{"value": "v"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFieldPreview(t *testing.T) {
	srv := newTestServer(t)
	created := createTable(t, srv)

	url := fmt.Sprintf("%s/v1/table/%s/fields/natural_language_aliases", srv.URL, created.ID)
	resp, err := http.Get(url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Value   string             `json:"value"`
		Spec    metadata.FieldSpec `json:"spec"`
		Preview struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind     string `json:"kind"`
				Text     string `json:"text"`
				Path     string `json:"path"`
				Editable bool   `json:"editable"`
			} `json:"children"`
		} `json:"preview"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "array", body.Preview.Kind)
	require.Len(t, body.Preview.Children, 2)
	assert.Equal(t, "deposits", body.Preview.Children[0].Text)
	assert.Equal(t, "[0]", body.Preview.Children[0].Path)
	assert.True(t, body.Preview.Children[0].Editable)
}

func TestForms(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/forms/table")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var schema formschema.FormSchema
	decodeBody(t, resp, &schema)
	assert.Equal(t, "table", schema.Entity)
	assert.NotEmpty(t, schema.Sections)

	resp, err = http.Get(srv.URL + "/v1/forms/widget")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTraceIngestAndQuery(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/traces", map[string]any{
		"trace_id":          "t-1",
		"question":          "total deposits by brand last week",
		"model":             "gpt-4o",
		"confidence":        0.35,
		"prompt_tokens":     1000,
		"completion_tokens": 200,
		"duration_ms":       2500,
		"success":           true,
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/v1/traces")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Traces     []transparency.TraceEntry `json:"traces"`
		TotalCount int                       `json:"total_count"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, 1, body.TotalCount)
	assert.Equal(t, "confidence", body.Traces[0].Category)
	assert.Equal(t, "strong", body.Traces[0].Weight)
	assert.Equal(t, 1200, body.Traces[0].TotalTokens)
}

func TestTraceIngest_RequiresID(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/traces", map[string]any{
		"model": "gpt-4o",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboardTokens(t *testing.T) {
	srv := newTestServer(t)

	for i, tokens := range []int{5000, 3000} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/v1/traces", map[string]any{
			"trace_id":          fmt.Sprintf("t-%d", i),
			"question":          "q",
			"model":             "gpt-4o",
			"confidence":        0.9,
			"prompt_tokens":     tokens,
			"completion_tokens": 500,
			"success":           true,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/v1/dashboard/tokens")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report transparency.TokenReport
	decodeBody(t, resp, &report)
	assert.Equal(t, 2, report.TraceCount)
	assert.Equal(t, 8000, report.PromptTokens)
	assert.Equal(t, 1000, report.CompletionTokens)
	assert.Equal(t, 9000, report.TotalTokens)
	require.Len(t, report.Models, 1)
	assert.Equal(t, "gpt-4o", report.Models[0].Model)
	assert.Equal(t, 9000, report.Models[0].TotalTokens)
}

func TestDashboardSummary_AggregatesBeyondOnePage(t *testing.T) {
	srv, traceStore := newTestServerWithTraceStore(t)

	// More traces than one 500-entry query page; the summary must follow
	// the cursor and count them all.
	const total = 650
	for i := 0; i < total; i++ {
		err := traceStore.WriteTrace(context.Background(), transparency.TraceEntry{
			TraceID:     fmt.Sprintf("t-%d", i),
			Model:       "gpt-4o",
			Confidence:  0.9,
			TotalTokens: 10,
			Success:     true,
			OccurredAt:  time.Now().Add(-time.Duration(i) * time.Minute),
			Category:    "confidence",
			Weight:      "info",
			Polarity:    "positive",
		})
		require.NoError(t, err)
	}

	resp, err := http.Get(srv.URL + "/v1/dashboard/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary transparency.DashboardSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, total, summary.TraceCount)
	assert.Equal(t, total*10, summary.TotalTokens)
}

func TestDashboardSummary(t *testing.T) {
	srv := newTestServer(t)

	for i, conf := range []float64{0.9, 0.9, 0.3} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/v1/traces", map[string]any{
			"trace_id":   fmt.Sprintf("t-%d", i),
			"question":   "q",
			"model":      "gpt-4o",
			"confidence": conf,
			"success":    true,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/v1/dashboard/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary transparency.DashboardSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, 3, summary.TraceCount)
	assert.Equal(t, 1.0, summary.SuccessRate)
	require.Len(t, summary.Models, 1)
	assert.Equal(t, "gpt-4o", summary.Models[0].Model)
}
