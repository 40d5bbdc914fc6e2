package model

import (
	"net/netip"
	"slices"
)

// NetworkRecord is the canonical configuration of one network interface.
// Name is the identity key.
type NetworkRecord struct {
	Name        string      `json:"name" toml:"name" validate:"required"`
	AddressMode AddressMode `json:"address_mode" toml:"address_mode"`
	// Enabled reports whether the interface has a configured, working address.
	Enabled bool `json:"enabled" toml:"enabled"`
	// IsWifi comes from live enumeration only. Adapters never set it.
	IsWifi bool `json:"is_wifi" toml:"-"`

	StaticAddresses []netip.Prefix `json:"static_addresses,omitempty" toml:"static_addresses,omitempty"`
	Nameservers     []netip.Addr   `json:"nameservers,omitempty" toml:"nameservers,omitempty"`
	Gateways        []netip.Addr   `json:"gateways,omitempty" toml:"gateways,omitempty"`

	// Wi-Fi fields, meaningful only when IsWifi is set.
	WifiMode         WifiMode     `json:"wifi_mode" toml:"wifi_mode"`
	Standard         WifiStandard `json:"standard" toml:"standard"`
	Channel          int          `json:"channel,omitempty" toml:"channel" validate:"gte=0,lte=196"`
	SSID             string       `json:"ssid,omitempty" toml:"ssid" validate:"max=32"`
	Password         string       `json:"password,omitempty" toml:"password"`
	WPAMode          int          `json:"wpa_mode,omitempty" toml:"wpa_mode" validate:"gte=0,lte=3"`
	WPAKeyManagement string       `json:"wpa_key_management,omitempty" toml:"wpa_key_management"`
	WPAPairwise      string       `json:"wpa_pairwise,omitempty" toml:"wpa_pairwise"`
	RSNPairwise      string       `json:"rsn_pairwise,omitempty" toml:"rsn_pairwise"`

	// DHCP range handed out by the access point, ACCESS_POINT only.
	DHCPRangeStart netip.Addr `json:"dhcp_range_start" toml:"dhcp_range_start"`
	DHCPRangeEnd   netip.Addr `json:"dhcp_range_end" toml:"dhcp_range_end"`

	// classified is set once IsWifi was assigned from live enumeration.
	classified bool
}

// NewRecord returns an empty record for the named interface.
func NewRecord(name string) *NetworkRecord {
	return &NetworkRecord{Name: name}
}

// NewLiveRecord returns a record seeded from live interface enumeration.
// Its IsWifi value is authoritative and survives every later merge.
func NewLiveRecord(name string, isWifi, enabled bool) *NetworkRecord {
	return &NetworkRecord{
		Name:       name,
		IsWifi:     isWifi,
		Enabled:    enabled,
		classified: true,
	}
}

// Classified reports whether IsWifi was assigned from live enumeration.
func (r *NetworkRecord) Classified() bool {
	return r.classified
}

// IsAccessPoint reports whether the record is a Wi-Fi access point.
func (r *NetworkRecord) IsAccessPoint() bool {
	return r.IsWifi && r.WifiMode == WifiModeAccessPoint
}

// IsWifiClient reports whether the record is a Wi-Fi client.
func (r *NetworkRecord) IsWifiClient() bool {
	return r.IsWifi && r.WifiMode == WifiModeClient
}

// Clone returns a deep copy of the record.
func (r *NetworkRecord) Clone() *NetworkRecord {
	c := *r
	c.StaticAddresses = slices.Clone(r.StaticAddresses)
	c.Nameservers = slices.Clone(r.Nameservers)
	c.Gateways = slices.Clone(r.Gateways)
	return &c
}

// Replace overwrites every configurable field of r with incoming. Name and
// IsWifi are kept.
func (r *NetworkRecord) Replace(incoming *NetworkRecord) {
	name, isWifi, classified := r.Name, r.IsWifi, r.classified
	*r = *incoming.Clone()
	r.Name, r.IsWifi, r.classified = name, isWifi, classified
}

// MergeFull copies every field incoming expresses onto r. Enabled is OR-ed.
// IsWifi is only taken from incoming while r has not been classified by live
// enumeration.
func (r *NetworkRecord) MergeFull(incoming *NetworkRecord) {
	if incoming.Name != "" {
		r.Name = incoming.Name
	}
	if !r.classified {
		switch {
		case incoming.classified:
			r.IsWifi = incoming.IsWifi
			r.classified = true
		case incoming.IsWifi:
			r.IsWifi = true
		}
	}
	r.mergeFields(incoming)
}

// MergeNonIdentity is MergeFull without touching Name and IsWifi. It is used
// for sources whose interface classification is inferred rather than observed.
func (r *NetworkRecord) MergeNonIdentity(incoming *NetworkRecord) {
	r.mergeFields(incoming)
}

func (r *NetworkRecord) mergeFields(in *NetworkRecord) {
	r.Enabled = r.Enabled || in.Enabled

	if in.AddressMode != AddressModeNone {
		r.AddressMode = in.AddressMode
	}
	if len(in.StaticAddresses) > 0 {
		r.StaticAddresses = slices.Clone(in.StaticAddresses)
	}
	if len(in.Nameservers) > 0 {
		r.Nameservers = slices.Clone(in.Nameservers)
	}
	if len(in.Gateways) > 0 {
		r.Gateways = slices.Clone(in.Gateways)
	}

	if in.WifiMode != WifiModeNone {
		r.WifiMode = in.WifiMode
	}
	if in.Standard != StandardNone {
		r.Standard = in.Standard
	}
	if in.Channel != 0 {
		r.Channel = in.Channel
	}
	if in.SSID != "" {
		r.SSID = in.SSID
	}
	if in.Password != "" {
		r.Password = in.Password
	}
	if in.WPAMode != 0 {
		r.WPAMode = in.WPAMode
	}
	if in.WPAKeyManagement != "" {
		r.WPAKeyManagement = in.WPAKeyManagement
	}
	if in.WPAPairwise != "" {
		r.WPAPairwise = in.WPAPairwise
	}
	if in.RSNPairwise != "" {
		r.RSNPairwise = in.RSNPairwise
	}
	if in.DHCPRangeStart.IsValid() {
		r.DHCPRangeStart = in.DHCPRangeStart
	}
	if in.DHCPRangeEnd.IsValid() {
		r.DHCPRangeEnd = in.DHCPRangeEnd
	}
}
