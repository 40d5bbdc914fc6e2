package api

import (
	"context"
	"net/http"

	"github.com/maksimkurb/hostnet/src/internal/log"
)

// Reload discards unapplied changes and rebuilds the settings from the system.
// POST /api/v1/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.mgr.LoadSettingsFromSystem(r.Context()); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, InterfacesResponse{Interfaces: h.mgr.Settings().Clone().Records()})
}

// ReloadSettings rebuilds the settings from the system, e.g. on SIGHUP.
func (h *Handler) ReloadSettings(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mgr.LoadSettingsFromSystem(ctx)
}

// Apply writes the settings to the backend files and restarts the services.
// POST /api/v1/apply
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.mgr.Settings().Enabled().Validate(); err != nil {
		WriteValidationError(w, "Settings are invalid: "+err.Error(), nil)
		return
	}

	if err := h.mgr.UpdateSystemFromSettings(r.Context()); err != nil {
		log.Errorf("Apply failed: %v", err)
		WriteServiceError(w, "Failed to apply settings", map[string]interface{}{
			"errors": errorMessages(err),
		})
		return
	}

	writeJSONData(w, ApplyResponse{Applied: true, Services: h.mgr.ServiceNames()})
}

// errorMessages flattens a joined error.
func errorMessages(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
