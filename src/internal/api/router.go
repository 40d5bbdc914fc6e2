package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly)
	r.Use(CORS)
	r.Use(JSONContentType)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.CheckHealth)
		r.Get("/status", h.GetStatus)

		r.Get("/interfaces", h.GetInterfaces)
		r.Get("/interfaces/{name}", h.GetInterface)
		r.Put("/interfaces/{name}", h.UpdateInterface)

		r.Post("/reload", h.Reload)
		r.Post("/apply", h.Apply)
	})

	return r
}
