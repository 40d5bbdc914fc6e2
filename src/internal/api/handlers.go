package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/manager"
)

// Handler manages all API endpoints and dependencies.
type Handler struct {
	// mu serializes access to mgr, which is not safe for concurrent use.
	mu       sync.Mutex
	mgr      *manager.Manager
	deps     *domain.AppDependencies
	dnsCheck DNSChecker
}

// NewHandler creates a new API handler. mgr should already be loaded.
// dnsCheck may be nil, nameservers are then not probed by the health check.
func NewHandler(mgr *manager.Manager, deps *domain.AppDependencies, dnsCheck DNSChecker) *Handler {
	return &Handler{
		mgr:      mgr,
		deps:     deps,
		dnsCheck: dnsCheck,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// decodeJSON decodes JSON from the request body.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
