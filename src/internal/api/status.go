package api

import (
	"net/http"

	"github.com/maksimkurb/hostnet/src/internal/services"
)

// GetStatus returns the platform, the selected backend and service states.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	identity, backend, names := h.mgr.Identity(), h.mgr.Backend(), h.mgr.ServiceNames()
	h.mu.Unlock()

	response := StatusResponse{
		Platform: identity,
		Backend:  backend,
		Services: make(map[string]ServiceInfo, len(names)),
	}

	controller := h.deps.ServiceController()
	for _, name := range names {
		status, err := controller.Status(r.Context(), name)
		info := ServiceInfo{Status: string(status)}
		if err != nil {
			info.Status = string(services.StatusUnknown)
			info.Message = err.Error()
		}
		response.Services[name] = info
	}

	writeJSONData(w, response)
}
