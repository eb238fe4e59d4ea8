package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prompt-db/diaglog"
	"prompt-db/feed"
	"prompt-db/logging"
	"prompt-db/promptdb"
)

func RegisterRoutes(store *promptdb.Store, hub *feed.Hub, sink *diaglog.Sink, log *logging.Logger) http.Handler {
	log = logging.OrNop(log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	h := &handler{store: store, hub: hub, diag: sink, log: log}

	// Prompt database
	r.Post("/prompt_db_categories", h.listCategories)
	r.Post("/prompt_db_prompts", h.listPrompts)
	r.Post("/prompt_db_names", h.listNames)
	r.Post("/prompt_db_text", h.getText)
	r.Post("/prompt_db_save", h.savePrompt)
	r.Post("/prompt_db_create", h.createPrompt)

	// Stacking preview
	r.Post("/prompt_db_stack", h.stackPrompts)

	// Change feed (WebSocket)
	r.Get("/prompt_db_events", h.handleEvents)

	// Client diagnostics
	r.Post("/pylog", h.clientLog)

	return r
}

type handler struct {
	store *promptdb.Store
	hub   *feed.Hub
	diag  *diaglog.Sink
	log   *logging.Logger
}

func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
