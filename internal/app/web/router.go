package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(h *Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	// UI
	r.Get("/", h.Index)
	r.Get("/video", h.Video)
	r.Post("/video/streams/{key}/select", h.Select)
	r.Post("/video/streams/{key}/download", h.Download)
	r.Post("/cache/clear", h.ClearCache)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", h.APIInfo)
		r.Post("/download", h.APIDownload)
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("remote_addr", r.RemoteAddr).
		Msg("http request")
}
