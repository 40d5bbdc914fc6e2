package manager

import (
	"context"
	stderrors "errors"
	"net/netip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/mocks"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/networking"
	"github.com/maksimkurb/hostnet/src/internal/platform"
)

var (
	ubuntu   = platform.Identity{Vendor: platform.VendorUbuntu, Arch: platform.ArchX86_64}
	raspbian = platform.Identity{Vendor: platform.VendorDebian, Arch: platform.ArchARM32}
	unknown  = platform.Identity{Vendor: platform.VendorUnknown, Arch: platform.ArchX86_64}
)

const (
	netplanInput = `network:
  version: 2
  ethernets:
    eth0:
      addresses: [10.0.0.5/24]
      nameservers:
        addresses: [8.8.8.8]
    ghost0:
      dhcp4: true
`
	dnsmasqInput = "interface=wlan0\ndhcp-range=192.168.4.2,192.168.4.100,12h\nport=0\n"
	hostapdInput = "interface=wlan0\nssid=home\nwpa_passphrase=secret123\nhw_mode=g\nchannel=6\nwpa=2\n"
)

type fixture struct {
	dir      string
	opts     Options
	lister   *mocks.MockInterfaceLister
	services *mocks.MockServiceController
}

func newFixture(t *testing.T, id platform.Identity) *fixture {
	t.Helper()
	dir := t.TempDir()
	netplanDir := filepath.Join(dir, "netplan")
	if err := os.MkdirAll(netplanDir, 0755); err != nil {
		t.Fatalf("Failed to create netplan dir: %v", err)
	}

	f := &fixture{
		dir:      dir,
		lister:   mocks.NewMockInterfaceLister(mocks.Loopback(), mocks.Wired("eth0", true), mocks.Wireless("wlan0", false)),
		services: mocks.NewMockServiceController(),
	}
	f.opts = Options{
		Identity:      id,
		NetplanDir:    netplanDir,
		NetplanOutput: filepath.Join(netplanDir, "99-hostnet.yaml"),
		DhcpcdConf:    filepath.Join(dir, "dhcpcd.conf"),
		DnsmasqConf:   filepath.Join(dir, "dnsmasq.conf"),
		HostapdConf:   filepath.Join(dir, "hostapd.conf"),
		Lister:        f.lister,
		Services:      f.services,
	}
	return f
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func (f *fixture) load(t *testing.T) *Manager {
	t.Helper()
	m := New(f.opts)
	if err := m.LoadSettingsFromSystem(context.Background()); err != nil {
		t.Fatalf("LoadSettingsFromSystem failed: %v", err)
	}
	return m
}

func TestLoadSettingsFromSystem_MergesInOrder(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.write(t, filepath.Join(f.opts.NetplanDir, "01-netcfg.yaml"), netplanInput)
	f.write(t, f.opts.DnsmasqConf, dnsmasqInput)
	f.write(t, f.opts.HostapdConf, hostapdInput)

	m := f.load(t)
	settings := m.Settings()

	if want := []string{"eth0", "wlan0"}; !reflect.DeepEqual(settings.Names(), want) {
		t.Fatalf("Names() = %v, want %v", settings.Names(), want)
	}

	eth0, _ := settings.Get("eth0")
	if !eth0.Enabled || eth0.IsWifi {
		t.Errorf("eth0 should stay enabled and wired: %+v", eth0)
	}
	if eth0.AddressMode != model.AddressModeStatic || len(eth0.StaticAddresses) != 1 {
		t.Errorf("eth0 should take the netplan addresses: %+v", eth0)
	}

	wlan0, _ := settings.Get("wlan0")
	if !wlan0.Enabled || !wlan0.IsWifi || !wlan0.IsAccessPoint() {
		t.Errorf("wlan0 should be an enabled access point: %+v", wlan0)
	}
	if wlan0.SSID != "home" || wlan0.Channel != 6 {
		t.Errorf("wlan0 should take the hostapd fields: %+v", wlan0)
	}
	if wlan0.DHCPRangeStart != netip.MustParseAddr("192.168.4.2") || wlan0.DHCPRangeEnd != netip.MustParseAddr("192.168.4.100") {
		t.Errorf("wlan0 should take the dnsmasq range: %+v", wlan0)
	}
}

func TestLoadSettingsFromSystem_MissingFilesContributeNothing(t *testing.T) {
	f := newFixture(t, ubuntu)

	m := f.load(t)

	wlan0, ok := m.Settings().Get("wlan0")
	if !ok {
		t.Fatal("Expected live interface wlan0")
	}
	if wlan0.Enabled || wlan0.AddressMode != model.AddressModeDHCP || wlan0.WifiMode != model.WifiModeNone {
		t.Errorf("Unexpected seeded record %+v", wlan0)
	}
	if len(m.LoadErrors()) != 0 {
		t.Errorf("Missing files must not be reported, got %v", m.LoadErrors())
	}
}

func TestLoadSettingsFromSystem_CorruptFileDoesNotAbort(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.write(t, filepath.Join(f.opts.NetplanDir, "01-netcfg.yaml"), "network: [unclosed")
	f.write(t, f.opts.DnsmasqConf, "interface=wlan0\ndhcp-range=not-an-ip,192.168.4.100\n")
	f.write(t, f.opts.HostapdConf, hostapdInput)

	m := f.load(t)

	wlan0, _ := m.Settings().Get("wlan0")
	if wlan0.SSID != "home" {
		t.Errorf("Expected hostapd to be merged after corrupt files, got %+v", wlan0)
	}
	if wlan0.DHCPRangeStart.IsValid() {
		t.Errorf("Expected no DHCP range from corrupt dnsmasq file, got %v", wlan0.DHCPRangeStart)
	}

	loadErrors := m.LoadErrors()
	if len(loadErrors) != 2 {
		t.Fatalf("Expected 2 load errors, got %v", loadErrors)
	}
	for _, name := range []string{"netplan", "dnsmasq"} {
		if !errors.HasCode(loadErrors[name], errors.ErrCodeParse) {
			t.Errorf("Expected PARSE_ERROR for %s, got %v", name, loadErrors[name])
		}
	}
}

func TestLoadSettingsFromSystem_ListerFailure(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.lister.ListInterfacesFunc = func() ([]networking.Interface, error) {
		return nil, errors.NewInterfaceError("netlink unavailable", nil)
	}

	m := New(f.opts)
	err := m.LoadSettingsFromSystem(context.Background())
	if !errors.HasCode(err, errors.ErrCodeInterface) {
		t.Errorf("Expected INTERFACE_ERROR, got %v", err)
	}
	if m.Settings().Len() != 0 {
		t.Errorf("Expected settings to stay empty, got %v", m.Settings().Names())
	}
}

func TestLoadSettingsFromSystem_Dhcpcd(t *testing.T) {
	f := newFixture(t, raspbian)
	f.write(t, f.opts.DhcpcdConf, "hostname\ninterface eth0\nstatic ip_address=10.0.0.5/24\n")

	m := f.load(t)

	if m.Backend() != platform.BackendDhcpcd {
		t.Fatalf("Backend() = %s", m.Backend())
	}
	eth0, _ := m.Settings().Get("eth0")
	if eth0.AddressMode != model.AddressModeStatic {
		t.Errorf("Expected eth0 to be static, got %+v", eth0)
	}
}

func TestUpdateSystemFromSettings_WritesAndRestartsInOrder(t *testing.T) {
	tests := []struct {
		name         string
		id           platform.Identity
		generalFile  func(o Options) string
		wantRestarts []string
	}{
		{"netplan", ubuntu, func(o Options) string { return o.NetplanOutput }, []string{"netplan", "dnsmasq", "hostapd"}},
		{"dhcpcd", raspbian, func(o Options) string { return o.DhcpcdConf }, []string{"dhcpcd", "dnsmasq", "hostapd"}},
		{"none", unknown, nil, []string{"dnsmasq", "hostapd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.id)
			f.write(t, f.opts.HostapdConf, hostapdInput)
			m := f.load(t)

			eth0, _ := m.Settings().Get("eth0")
			eth0.AddressMode = model.AddressModeStatic
			eth0.StaticAddresses = []netip.Prefix{netip.MustParsePrefix("10.0.0.5/24")}

			if err := m.UpdateSystemFromSettings(context.Background()); err != nil {
				t.Fatalf("UpdateSystemFromSettings failed: %v", err)
			}

			if !reflect.DeepEqual(f.services.Restarted, tt.wantRestarts) {
				t.Errorf("Restarted = %v, want %v", f.services.Restarted, tt.wantRestarts)
			}
			if !reflect.DeepEqual(m.ServiceNames(), tt.wantRestarts) {
				t.Errorf("ServiceNames() = %v, want %v", m.ServiceNames(), tt.wantRestarts)
			}
			if got := f.read(t, f.opts.DnsmasqConf); !strings.HasPrefix(got, "interface=wlan0\n") {
				t.Errorf("Unexpected dnsmasq output:\n%s", got)
			}
			if got := f.read(t, f.opts.HostapdConf); !strings.Contains(got, "ssid=home\n") {
				t.Errorf("Unexpected hostapd output:\n%s", got)
			}
			if tt.generalFile != nil {
				if got := f.read(t, tt.generalFile(f.opts)); !strings.Contains(got, "10.0.0.5/24") {
					t.Errorf("Expected eth0 address in general output:\n%s", got)
				}
			} else if _, err := os.Stat(f.opts.NetplanOutput); !os.IsNotExist(err) {
				t.Errorf("Expected no netplan output without a general backend, got %v", err)
			}
		})
	}
}

func TestUpdateSystemFromSettings_BestEffort(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.write(t, f.opts.HostapdConf, hostapdInput)
	m := f.load(t)

	blocker := filepath.Join(f.dir, "blocker")
	f.write(t, blocker, "")
	m.dnsmasq.savePath = filepath.Join(blocker, "dnsmasq.conf")
	f.services.RestartFunc = func(ctx context.Context, service string) error {
		if service == "netplan" {
			return stderrors.New("exit status 1")
		}
		return nil
	}

	err := m.UpdateSystemFromSettings(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !errors.HasCode(err, errors.ErrCodeWrite) {
		t.Errorf("Expected WRITE_ERROR in %v", err)
	}
	if !errors.HasCode(err, errors.ErrCodeService) {
		t.Errorf("Expected SERVICE_ERROR in %v", err)
	}

	if got := f.read(t, f.opts.HostapdConf); !strings.Contains(got, "ssid=home\n") {
		t.Errorf("Expected hostapd to be written after dnsmasq failed:\n%s", got)
	}
	if _, err := os.Stat(f.opts.NetplanOutput); err != nil {
		t.Errorf("Expected netplan output after dnsmasq failed: %v", err)
	}
	if want := []string{"netplan", "dnsmasq", "hostapd"}; !reflect.DeepEqual(f.services.Restarted, want) {
		t.Errorf("Restarted = %v, want %v", f.services.Restarted, want)
	}
}

func TestUpdateSystemFromSettings_DisabledRecordsAreNotWritten(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.write(t, f.opts.HostapdConf, hostapdInput)
	m := f.load(t)

	wlan0, _ := m.Settings().Get("wlan0")
	wlan0.Enabled = false

	if err := m.UpdateSystemFromSettings(context.Background()); err != nil {
		t.Fatalf("UpdateSystemFromSettings failed: %v", err)
	}

	if got := f.read(t, f.opts.HostapdConf); got != hostapdInput {
		t.Errorf("Expected hostapd file untouched, got:\n%s", got)
	}
	if got := f.read(t, f.opts.NetplanOutput); strings.Contains(got, "wlan0") {
		t.Errorf("Expected disabled wlan0 to be omitted:\n%s", got)
	}
}

func TestLoadSave_Idempotent(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.write(t, filepath.Join(f.opts.NetplanDir, "01-netcfg.yaml"), netplanInput)
	f.write(t, f.opts.DnsmasqConf, dnsmasqInput)
	f.write(t, f.opts.HostapdConf, hostapdInput)

	paths := []string{f.opts.NetplanOutput, f.opts.DnsmasqConf, f.opts.HostapdConf}
	cycle := func() []string {
		m := f.load(t)
		if err := m.UpdateSystemFromSettings(context.Background()); err != nil {
			t.Fatalf("UpdateSystemFromSettings failed: %v", err)
		}
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = f.read(t, p)
		}
		return out
	}

	first := cycle()
	second := cycle()
	for i := range paths {
		if first[i] != second[i] {
			t.Errorf("%s changed between cycles:\n%s\n---\n%s", paths[i], first[i], second[i])
		}
	}
}

func TestGetAndUpdate(t *testing.T) {
	f := newFixture(t, ubuntu)
	m := f.load(t)

	if _, err := m.Get("eth9"); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
	if _, err := m.Update("eth9", &model.NetworkRecord{}); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}

	if _, err := m.Update("eth0", &model.NetworkRecord{WifiMode: model.WifiModeAccessPoint}); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("Expected VALIDATION_ERROR for wired access point, got %v", err)
	}
	eth0, _ := m.Get("eth0")
	if eth0.WifiMode != model.WifiModeNone {
		t.Errorf("Failed update must not change the record: %+v", eth0)
	}

	updated, err := m.Update("wlan0", &model.NetworkRecord{
		Name:     "ignored",
		Enabled:  true,
		WifiMode: model.WifiModeAccessPoint,
		SSID:     "lab",
		Channel:  11,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "wlan0" || !updated.IsWifi || updated.SSID != "lab" {
		t.Errorf("Unexpected updated record %+v", updated)
	}

	updated.SSID = "changed"
	if rec, _ := m.Get("wlan0"); rec.SSID != "lab" {
		t.Errorf("Get must return a copy, got %+v", rec)
	}
}

func TestUpdateSystemFromSettings_UnconfiguredWifiStaysOutOfNetplan(t *testing.T) {
	f := newFixture(t, ubuntu)
	f.lister = mocks.NewMockInterfaceLister(mocks.Loopback(), mocks.Wired("eth0", true), mocks.Wireless("wlan0", true))
	f.opts.Lister = f.lister
	m := f.load(t)

	wlan0, _ := m.Settings().Get("wlan0")
	if !wlan0.Enabled || wlan0.WifiMode != model.WifiModeNone {
		t.Fatalf("Expected enabled wlan0 without a Wi-Fi role, got %+v", wlan0)
	}

	if err := m.UpdateSystemFromSettings(context.Background()); err != nil {
		t.Fatalf("UpdateSystemFromSettings failed: %v", err)
	}

	got := f.read(t, f.opts.NetplanOutput)
	if strings.Contains(got, "wlan0") {
		t.Errorf("Expected wlan0 to be left out of netplan:\n%s", got)
	}
	if !strings.Contains(got, "eth0") {
		t.Errorf("Expected eth0 in netplan:\n%s", got)
	}
}
