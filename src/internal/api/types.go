package api

import (
	"context"
	"net/netip"

	"github.com/maksimkurb/hostnet/src/internal/dnscheck"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/platform"
)

// DNSChecker probes nameservers. It is implemented by *dnscheck.Checker.
type DNSChecker interface {
	CheckAll(ctx context.Context, servers []netip.Addr, name string) []dnscheck.Result
}

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// InterfacesResponse returns every record in insertion order.
type InterfacesResponse struct {
	Interfaces []*model.NetworkRecord `json:"interfaces"`
}

// StatusResponse returns the platform and the state of the managed services.
type StatusResponse struct {
	Platform platform.Identity      `json:"platform"`
	Backend  platform.Backend       `json:"backend"`
	Services map[string]ServiceInfo `json:"services"`
}

// ServiceInfo contains information about a service.
type ServiceInfo struct {
	Status  string `json:"status"` // "active", "inactive", "failed", "unknown"
	Message string `json:"message,omitempty"`
}

// ApplyResponse returns the result of writing the settings to the system.
type ApplyResponse struct {
	Applied  bool     `json:"applied"`
	Services []string `json:"services"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}
