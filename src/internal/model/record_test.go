package model

import (
	"net/netip"
	"reflect"
	"testing"
)

func TestMergeFull_EnabledIsMonotonic(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
		incoming bool
		want     bool
	}{
		{"false then false", false, false, false},
		{"false then true", false, true, true},
		{"true then false", true, false, true},
		{"true then true", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, merge := range []MergeFn{MergeFull, MergeNonIdentity} {
				dst := NewLiveRecord("eth0", false, tt.existing)
				merge(dst, &NetworkRecord{Name: "eth0", Enabled: tt.incoming})
				if dst.Enabled != tt.want {
					t.Errorf("Enabled = %v, want %v", dst.Enabled, tt.want)
				}
			}
		})
	}
}

func TestMergeFull_NeverFlipsClassifiedIsWifi(t *testing.T) {
	dst := NewLiveRecord("wlan0", true, false)
	dst.MergeFull(&NetworkRecord{Name: "wlan0", IsWifi: false, AddressMode: AddressModeDHCP})

	if !dst.IsWifi {
		t.Error("Expected IsWifi to stay true after merging an unclassified record")
	}
	if dst.AddressMode != AddressModeDHCP {
		t.Errorf("AddressMode = %v, want dhcp", dst.AddressMode)
	}

	eth := NewLiveRecord("eth0", false, true)
	eth.MergeFull(&NetworkRecord{Name: "eth0", IsWifi: true})
	if eth.IsWifi {
		t.Error("Expected IsWifi to stay false for a classified wired interface")
	}
}

func TestMergeFull_UnclassifiedTakesLiveClassification(t *testing.T) {
	dst := NewRecord("wlan1")
	dst.MergeFull(NewLiveRecord("wlan1", true, false))

	if !dst.IsWifi || !dst.Classified() {
		t.Errorf("Expected record to become classified wireless, got IsWifi=%v classified=%v", dst.IsWifi, dst.Classified())
	}
}

func TestMergeNonIdentity_KeepsNameAndIsWifi(t *testing.T) {
	dst := NewRecord("wlan0")
	dst.MergeNonIdentity(&NetworkRecord{Name: "other", IsWifi: true, SSID: "home"})

	if dst.Name != "wlan0" {
		t.Errorf("Name = %q, want wlan0", dst.Name)
	}
	if dst.IsWifi {
		t.Error("Expected IsWifi to be untouched")
	}
	if dst.SSID != "home" {
		t.Errorf("SSID = %q, want home", dst.SSID)
	}
}

func TestMerge_ZeroFieldsDoNotErase(t *testing.T) {
	dst := NewLiveRecord("eth0", false, true)
	dst.MergeFull(&NetworkRecord{
		Name:            "eth0",
		AddressMode:     AddressModeStatic,
		StaticAddresses: []netip.Prefix{netip.MustParsePrefix("10.0.0.5/24")},
		Nameservers:     []netip.Addr{netip.MustParseAddr("8.8.8.8")},
	})
	// A narrower source that only knows the DHCP range.
	dst.MergeNonIdentity(&NetworkRecord{
		Name:           "eth0",
		DHCPRangeStart: netip.MustParseAddr("10.0.0.100"),
		DHCPRangeEnd:   netip.MustParseAddr("10.0.0.200"),
	})

	if dst.AddressMode != AddressModeStatic {
		t.Errorf("AddressMode = %v, want static", dst.AddressMode)
	}
	if len(dst.StaticAddresses) != 1 || len(dst.Nameservers) != 1 {
		t.Errorf("Expected addresses and nameservers to survive, got %+v", dst)
	}
	if dst.DHCPRangeStart.String() != "10.0.0.100" {
		t.Errorf("DHCPRangeStart = %v", dst.DHCPRangeStart)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	incoming := &NetworkRecord{
		Name:             "wlan0",
		Enabled:          true,
		AddressMode:      AddressModeStatic,
		StaticAddresses:  []netip.Prefix{netip.MustParsePrefix("192.168.4.1/24")},
		WifiMode:         WifiModeAccessPoint,
		Standard:         StandardG,
		Channel:          6,
		SSID:             "hostnet",
		Password:         "secret123",
		WPAMode:          2,
		WPAKeyManagement: "WPA-PSK",
	}

	for name, merge := range map[string]MergeFn{"full": MergeFull, "non-identity": MergeNonIdentity} {
		t.Run(name, func(t *testing.T) {
			dst := NewLiveRecord("wlan0", true, false)
			merge(dst, incoming)
			once := dst.Clone()
			merge(dst, incoming)
			if !reflect.DeepEqual(once, dst) {
				t.Errorf("Second merge changed the record:\nonce: %+v\ntwice: %+v", once, dst)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := &NetworkRecord{Name: "eth0", Nameservers: []netip.Addr{netip.MustParseAddr("1.1.1.1")}}
	c := orig.Clone()
	c.Nameservers[0] = netip.MustParseAddr("9.9.9.9")

	if orig.Nameservers[0].String() != "1.1.1.1" {
		t.Error("Expected clone to not share slices with the original")
	}
}

func TestReplace_KeepsIdentity(t *testing.T) {
	rec := NewLiveRecord("wlan0", true, true)
	rec.SSID = "old"

	rec.Replace(&NetworkRecord{Name: "eth9", IsWifi: false, WifiMode: WifiModeAccessPoint, Channel: 6})

	if rec.Name != "wlan0" || !rec.IsWifi || !rec.Classified() {
		t.Errorf("Replace changed identity: %+v", rec)
	}
	if rec.SSID != "" || rec.Channel != 6 || rec.Enabled {
		t.Errorf("Replace did not overwrite fields: %+v", rec)
	}
	if !rec.IsAccessPoint() {
		t.Error("Expected record to be an access point")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     *NetworkRecord
		wantErr bool
	}{
		{
			name: "valid access point",
			rec: func() *NetworkRecord {
				r := NewLiveRecord("wlan0", true, true)
				r.WifiMode = WifiModeAccessPoint
				r.Channel = 6
				r.DHCPRangeStart = netip.MustParseAddr("192.168.4.2")
				r.DHCPRangeEnd = netip.MustParseAddr("192.168.4.100")
				return r
			}(),
		},
		{
			name:    "missing name",
			rec:     &NetworkRecord{},
			wantErr: true,
		},
		{
			name:    "channel out of range",
			rec:     &NetworkRecord{Name: "wlan0", Channel: 500},
			wantErr: true,
		},
		{
			name:    "half a dhcp range",
			rec:     &NetworkRecord{Name: "wlan0", DHCPRangeStart: netip.MustParseAddr("192.168.4.2")},
			wantErr: true,
		},
		{
			name: "reversed dhcp range",
			rec: &NetworkRecord{
				Name:           "wlan0",
				DHCPRangeStart: netip.MustParseAddr("192.168.4.100"),
				DHCPRangeEnd:   netip.MustParseAddr("192.168.4.2"),
			},
			wantErr: true,
		},
		{
			name: "wifi mode on wired interface",
			rec: func() *NetworkRecord {
				r := NewLiveRecord("eth0", false, true)
				r.WifiMode = WifiModeAccessPoint
				return r
			}(),
			wantErr: true,
		},
		{
			name:    "enabled static without addresses",
			rec:     &NetworkRecord{Name: "eth0", Enabled: true, AddressMode: AddressModeStatic},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if m, err := ParseAddressMode("STATIC"); err != nil || m != AddressModeStatic {
		t.Errorf("ParseAddressMode(STATIC) = %v, %v", m, err)
	}
	if m, err := ParseWifiMode("access_point"); err != nil || m != WifiModeAccessPoint {
		t.Errorf("ParseWifiMode(access_point) = %v, %v", m, err)
	}
	if s, err := ParseWifiStandard("n"); err != nil || s != StandardN {
		t.Errorf("ParseWifiStandard(n) = %v, %v", s, err)
	}
	if _, err := ParseWifiMode("mesh"); err == nil {
		t.Error("Expected error for unknown wifi mode")
	}
}
