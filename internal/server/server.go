// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/editor/hub"
	"github.com/uridolan77/reportaing-admin/internal/formschema"
	"github.com/uridolan77/reportaing-admin/internal/handler"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
	"github.com/uridolan77/reportaing-admin/internal/transparency"
)

// Config holds server wiring.
type Config struct {
	Addr        string
	MetadataSvc *metadata.Service
	TraceStore  transparency.Store
	Bus         metadata.Publisher
	Schemas     map[string]formschema.FormSchema
	Sessions    *hub.Manager
	Log         *zap.Logger
}

// Router builds the chi router with all routes registered.
func Router(cfg Config) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	mh := handler.NewMetadataHandler(cfg.MetadataSvc, log)
	th := handler.NewTransparencyHandler(cfg.TraceStore, cfg.Bus, log)
	fh := handler.NewFormsHandler(cfg.Schemas)
	wh := hub.NewHandler(cfg.Sessions, cfg.MetadataSvc, log)

	r := chi.NewRouter()
	r.Use(handler.Recovery(log))
	r.Use(handler.Logging(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		// --- Business metadata ---
		r.Post("/tables", mh.HandleCreateTable)
		r.Get("/tables", mh.HandleListTables)
		r.Get("/tables/{id}", mh.HandleGetTable)
		r.Post("/tables/{id}/columns", mh.HandleCreateColumn)
		r.Get("/tables/{id}/columns", mh.HandleListColumns)
		r.Get("/columns/{id}", mh.HandleGetColumn)
		r.Post("/domains", mh.HandleCreateDomain)
		r.Get("/domains", mh.HandleListDomains)
		r.Get("/domains/{id}", mh.HandleGetDomain)
		r.Get("/configs", mh.HandleListConfigs)
		r.Get("/configs/{key}", mh.HandleGetConfig)
		r.Put("/configs/{key}", mh.HandlePutConfig)

		// --- Field editing ---
		r.Get("/{entity_type}/{id}/fields/{field}", mh.HandleGetFieldPreview)
		r.Post("/{entity_type}/{id}/fields/{field}", mh.HandleEditField)

		// --- Form schemas ---
		r.Get("/forms", fh.HandleListForms)
		r.Get("/forms/{entity_type}", fh.HandleGetForm)

		// --- AI query transparency ---
		r.Post("/traces", th.HandleRecordTrace)
		r.Get("/traces", th.HandleListTraces)
		r.Get("/dashboard/summary", th.HandleDashboardSummary)
		r.Get("/dashboard/tokens", th.HandleDashboardTokens)

		// --- Interactive editing ---
		r.Get("/ws/editor", wh.ServeHTTP)
	})

	return r
}

// Run starts the HTTP server and shuts it down when the context is
// cancelled.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr))
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
