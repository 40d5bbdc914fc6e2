package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/maksimkurb/hostnet/src/internal/dnscheck"
	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/manager"
	"github.com/maksimkurb/hostnet/src/internal/mocks"
	"github.com/maksimkurb/hostnet/src/internal/platform"
)

type fakeDNSChecker struct {
	unreachable map[string]bool
	servers     []netip.Addr
}

func (f *fakeDNSChecker) CheckAll(ctx context.Context, servers []netip.Addr, name string) []dnscheck.Result {
	f.servers = servers
	results := make([]dnscheck.Result, 0, len(servers))
	for _, s := range servers {
		res := dnscheck.Result{Server: s.String(), Rcode: "NOERROR"}
		if f.unreachable[s.String()] {
			res.Err = stderrors.New("timeout")
		}
		results = append(results, res)
	}
	return results
}

type testEnv struct {
	handler  http.Handler
	services *mocks.MockServiceController
	opts     manager.Options
	dns      *fakeDNSChecker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	lister := mocks.NewMockInterfaceLister(mocks.Loopback(), mocks.Wired("eth0", true), mocks.Wireless("wlan0", false))
	controller := mocks.NewMockServiceController()
	opts := manager.Options{
		Identity:      platform.Identity{Vendor: platform.VendorUbuntu, Arch: platform.ArchX86_64},
		NetplanDir:    filepath.Join(dir, "netplan"),
		NetplanOutput: filepath.Join(dir, "netplan", "99-hostnet.yaml"),
		DnsmasqConf:   filepath.Join(dir, "dnsmasq.conf"),
		HostapdConf:   filepath.Join(dir, "hostapd.conf"),
		Lister:        lister,
		Services:      controller,
	}

	mgr := manager.New(opts)
	if err := mgr.LoadSettingsFromSystem(context.Background()); err != nil {
		t.Fatalf("LoadSettingsFromSystem failed: %v", err)
	}

	dns := &fakeDNSChecker{unreachable: map[string]bool{}}
	h := NewHandler(mgr, domain.NewTestDependencies(lister, controller), dns)
	return &testEnv{handler: NewRouter(h), services: controller, opts: opts, dns: dns}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:50000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	resp := DataResponse{Data: v}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	return resp.Error
}

func TestGetInterfaces(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/interfaces", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Interfaces []struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
			IsWifi  bool   `json:"is_wifi"`
		} `json:"interfaces"`
	}
	decodeData(t, rec, &resp)

	if len(resp.Interfaces) != 2 || resp.Interfaces[0].Name != "eth0" || resp.Interfaces[1].Name != "wlan0" {
		t.Fatalf("Unexpected interfaces %+v", resp.Interfaces)
	}
	if !resp.Interfaces[0].Enabled || !resp.Interfaces[1].IsWifi {
		t.Errorf("Unexpected flags %+v", resp.Interfaces)
	}
}

func TestGetInterface_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/interfaces/eth9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != ErrCodeNotFound {
		t.Errorf("Expected not_found, got %s", apiErr.Code)
	}
}

func TestUpdateInterface(t *testing.T) {
	env := newTestEnv(t)

	body := `{"enabled": true, "address_mode": "static", "static_addresses": ["192.168.4.1/24"],
		"wifi_mode": "ap", "standard": "n", "channel": 6, "ssid": "lab", "password": "secret123",
		"dhcp_range_start": "192.168.4.2", "dhcp_range_end": "192.168.4.100"}`
	rec := env.do(t, http.MethodPut, "/api/v1/interfaces/wlan0", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/interfaces/wlan0", "")
	var got struct {
		Name     string `json:"name"`
		IsWifi   bool   `json:"is_wifi"`
		WifiMode string `json:"wifi_mode"`
		SSID     string `json:"ssid"`
	}
	decodeData(t, rec, &got)
	if got.Name != "wlan0" || !got.IsWifi || got.WifiMode != "ap" || got.SSID != "lab" {
		t.Errorf("Unexpected record %+v", got)
	}
}

func TestUpdateInterface_Errors(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		contentType string
		wantStatus  int
		wantCode    ErrorCode
	}{
		{"wired access point", "/api/v1/interfaces/eth0", `{"wifi_mode": "ap"}`, "application/json", http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown interface", "/api/v1/interfaces/eth9", `{"enabled": true}`, "application/json", http.StatusNotFound, ErrCodeNotFound},
		{"malformed json", "/api/v1/interfaces/eth0", `{"enabled":`, "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"unknown field", "/api/v1/interfaces/eth0", `{"mtu": 1500}`, "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"bad enum", "/api/v1/interfaces/eth0", `{"address_mode": "ppp"}`, "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"wrong content type", "/api/v1/interfaces/eth0", `{}`, "text/plain", http.StatusBadRequest, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			req.RemoteAddr = "127.0.0.1:50000"
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body)
			}
			if apiErr := decodeError(t, rec); apiErr.Code != tt.wantCode {
				t.Errorf("Expected %s, got %s", tt.wantCode, apiErr.Code)
			}
		})
	}
}

func TestApply(t *testing.T) {
	env := newTestEnv(t)

	body := `{"enabled": true, "wifi_mode": "ap", "ssid": "lab", "channel": 6}`
	if rec := env.do(t, http.MethodPut, "/api/v1/interfaces/wlan0", body); rec.Code != http.StatusOK {
		t.Fatalf("Update failed: %d %s", rec.Code, rec.Body)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/apply", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp ApplyResponse
	decodeData(t, rec, &resp)
	want := []string{"netplan", "dnsmasq", "hostapd"}
	if !resp.Applied || !reflect.DeepEqual(resp.Services, want) {
		t.Errorf("Unexpected response %+v", resp)
	}
	if !reflect.DeepEqual(env.services.Restarted, want) {
		t.Errorf("Restarted = %v, want %v", env.services.Restarted, want)
	}

	data, err := os.ReadFile(env.opts.HostapdConf)
	if err != nil {
		t.Fatalf("Expected hostapd file: %v", err)
	}
	if !strings.Contains(string(data), "ssid=lab\n") {
		t.Errorf("Unexpected hostapd file:\n%s", data)
	}
}

func TestApply_ServiceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.services.RestartFunc = func(ctx context.Context, service string) error {
		if service == "hostapd" {
			return stderrors.New("unit hostapd.service not found")
		}
		return nil
	}

	rec := env.do(t, http.MethodPost, "/api/v1/apply", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}

	apiErr := decodeError(t, rec)
	if apiErr.Code != ErrCodeServiceError {
		t.Errorf("Expected service_error, got %s", apiErr.Code)
	}
	errs, _ := apiErr.Details["errors"].([]interface{})
	if len(errs) != 1 || !strings.Contains(errs[0].(string), "hostapd") {
		t.Errorf("Unexpected details %v", apiErr.Details)
	}
}

func TestReload_DiscardsChanges(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPut, "/api/v1/interfaces/wlan0", `{"enabled": true, "ssid": "draft"}`); rec.Code != http.StatusOK {
		t.Fatalf("Update failed: %d %s", rec.Code, rec.Body)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/reload", ""); rec.Code != http.StatusOK {
		t.Fatalf("Reload failed: %d %s", rec.Code, rec.Body)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/interfaces/wlan0", "")
	var got struct {
		SSID string `json:"ssid"`
	}
	decodeData(t, rec, &got)
	if got.SSID != "" {
		t.Errorf("Expected reload to discard the draft, got %q", got.SSID)
	}
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp StatusResponse
	decodeData(t, rec, &resp)
	if resp.Backend != platform.BackendNetplan || resp.Platform.Vendor != platform.VendorUbuntu {
		t.Errorf("Unexpected platform %+v", resp)
	}
	if len(resp.Services) != 3 || resp.Services["hostapd"].Status != "active" {
		t.Errorf("Unexpected services %+v", resp.Services)
	}
}

func TestCheckHealth(t *testing.T) {
	env := newTestEnv(t)

	body := `{"enabled": true, "address_mode": "static", "static_addresses": ["10.0.0.5/24"], "nameservers": ["10.0.0.1", "10.0.0.2"]}`
	if rec := env.do(t, http.MethodPut, "/api/v1/interfaces/eth0", body); rec.Code != http.StatusOK {
		t.Fatalf("Update failed: %d %s", rec.Code, rec.Body)
	}
	env.dns.unreachable["10.0.0.2"] = true

	rec := env.do(t, http.MethodGet, "/api/v1/health", "")
	var resp HealthCheckResponse
	decodeData(t, rec, &resp)

	if resp.Healthy {
		t.Error("Expected unhealthy response")
	}
	if !resp.Checks["interfaces"].Passed || !resp.Checks["settings"].Passed || !resp.Checks["backends"].Passed {
		t.Errorf("Unexpected checks %+v", resp.Checks)
	}
	if ns := resp.Checks["nameservers"]; ns.Passed || !strings.Contains(ns.Message, "10.0.0.2") {
		t.Errorf("Unexpected nameserver check %+v", ns)
	}
	if len(env.dns.servers) != 2 {
		t.Errorf("Expected 2 probed servers, got %v", env.dns.servers)
	}
}

func TestPrivateSubnetOnly(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		remote string
		realIP string
		want   int
	}{
		{"127.0.0.1:1000", "", http.StatusOK},
		{"192.168.1.10:1000", "", http.StatusOK},
		{"[fe80::1]:1000", "", http.StatusOK},
		{"203.0.113.5:1000", "", http.StatusForbidden},
		{"127.0.0.1:1000", "198.51.100.7", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.remote+tt.realIP, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/interfaces", nil)
			req.RemoteAddr = tt.remote
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
