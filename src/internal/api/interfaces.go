package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/hostnet/src/internal/model"
)

// GetInterfaces returns every record in insertion order.
// GET /api/v1/interfaces
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	records := h.mgr.Settings().Clone().Records()
	h.mu.Unlock()

	writeJSONData(w, InterfacesResponse{Interfaces: records})
}

// GetInterface returns one record.
// GET /api/v1/interfaces/{name}
func (h *Handler) GetInterface(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.Lock()
	rec, err := h.mgr.Get(name)
	h.mu.Unlock()

	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, rec)
}

// UpdateInterface replaces the configurable fields of a record. Fields
// missing from the body are reset. The name and Wi-Fi classification are
// kept. Changes reach the system only on apply.
// PUT /api/v1/interfaces/{name}
func (h *Handler) UpdateInterface(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var rec model.NetworkRecord
	if err := decodeJSON(r, &rec); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	h.mu.Lock()
	updated, err := h.mgr.Update(name, &rec)
	h.mu.Unlock()

	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, updated)
}
