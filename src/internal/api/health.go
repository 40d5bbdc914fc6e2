package api

import (
	"fmt"
	"net/http"
	"net/netip"
	"sort"
	"strings"

	"github.com/maksimkurb/hostnet/src/internal/model"
)

// CheckHealth performs health checks on the system.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}
	fail := func(name, message string) {
		response.Healthy = false
		response.Checks[name] = CheckResult{Passed: false, Message: message}
	}

	if interfaces, err := h.deps.InterfaceLister().ListInterfaces(); err != nil {
		fail("interfaces", "Failed to list interfaces: "+err.Error())
	} else {
		response.Checks["interfaces"] = CheckResult{
			Passed:  true,
			Message: fmt.Sprintf("%d interface(s) found", len(interfaces)),
		}
	}

	if loadErrors := h.mgr.LoadErrors(); len(loadErrors) > 0 {
		names := make([]string, 0, len(loadErrors))
		for name := range loadErrors {
			names = append(names, name)
		}
		sort.Strings(names)
		messages := make([]string, 0, len(names))
		for _, name := range names {
			messages = append(messages, loadErrors[name].Error())
		}
		fail("backends", "Unreadable configuration: "+strings.Join(messages, "; "))
	} else {
		response.Checks["backends"] = CheckResult{Passed: true, Message: "All backend files readable"}
	}

	settings := h.mgr.Settings()
	if err := settings.Validate(); err != nil {
		fail("settings", "Settings validation failed: "+err.Error())
	} else {
		response.Checks["settings"] = CheckResult{Passed: true, Message: "Settings are valid"}
	}

	if h.dnsCheck != nil {
		servers := nameservers(settings)
		if len(servers) == 0 {
			response.Checks["nameservers"] = CheckResult{Passed: true, Message: "No nameservers configured"}
		} else {
			var unreachable []string
			for _, res := range h.dnsCheck.CheckAll(r.Context(), servers, "") {
				if !res.Reachable() {
					unreachable = append(unreachable, res.Server)
				}
			}
			if len(unreachable) > 0 {
				fail("nameservers", "Unreachable nameservers: "+strings.Join(unreachable, ", "))
			} else {
				response.Checks["nameservers"] = CheckResult{Passed: true, Message: "All nameservers answered"}
			}
		}
	}

	writeJSONData(w, response)
}

// nameservers returns the distinct nameservers of enabled records.
func nameservers(settings *model.Settings) []netip.Addr {
	seen := make(map[netip.Addr]bool)
	var out []netip.Addr
	for _, rec := range settings.Enabled().Records() {
		for _, ns := range rec.Nameservers {
			if !seen[ns] {
				seen[ns] = true
				out = append(out, ns)
			}
		}
	}
	return out
}
