package model

import (
	"fmt"
	"strings"
)

// AddressMode is how an interface obtains its address.
type AddressMode uint8

const (
	AddressModeNone AddressMode = iota
	AddressModeDHCP
	AddressModeStatic
)

var addressModeNames = map[AddressMode]string{
	AddressModeNone:   "none",
	AddressModeDHCP:   "dhcp",
	AddressModeStatic: "static",
}

func (m AddressMode) String() string {
	if s, ok := addressModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("AddressMode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m AddressMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AddressMode) UnmarshalText(text []byte) error {
	v, err := ParseAddressMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseAddressMode parses "none", "dhcp" or "static" (case-insensitive).
func ParseAddressMode(s string) (AddressMode, error) {
	for mode, name := range addressModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	if s == "" {
		return AddressModeNone, nil
	}
	return AddressModeNone, fmt.Errorf("unknown address mode %q", s)
}

// WifiMode is the role of a wireless interface.
type WifiMode uint8

const (
	WifiModeNone WifiMode = iota
	WifiModeClient
	WifiModeAccessPoint
)

var wifiModeNames = map[WifiMode]string{
	WifiModeNone:        "none",
	WifiModeClient:      "client",
	WifiModeAccessPoint: "ap",
}

func (m WifiMode) String() string {
	if s, ok := wifiModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("WifiMode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m WifiMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *WifiMode) UnmarshalText(text []byte) error {
	v, err := ParseWifiMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseWifiMode parses "none", "client" or "ap". "access_point" is accepted as an alias.
func ParseWifiMode(s string) (WifiMode, error) {
	if strings.EqualFold(s, "access_point") || strings.EqualFold(s, "access-point") {
		return WifiModeAccessPoint, nil
	}
	for mode, name := range wifiModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	if s == "" {
		return WifiModeNone, nil
	}
	return WifiModeNone, fmt.Errorf("unknown wifi mode %q", s)
}

// WifiStandard is the 802.11 hardware mode. The names match hostapd's hw_mode values.
type WifiStandard uint8

const (
	StandardNone WifiStandard = iota
	StandardA
	StandardB
	StandardG
	StandardN
)

var standardNames = map[WifiStandard]string{
	StandardNone: "none",
	StandardA:    "a",
	StandardB:    "b",
	StandardG:    "g",
	StandardN:    "n",
}

func (s WifiStandard) String() string {
	if name, ok := standardNames[s]; ok {
		return name
	}
	return fmt.Sprintf("WifiStandard(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s WifiStandard) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *WifiStandard) UnmarshalText(text []byte) error {
	v, err := ParseWifiStandard(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseWifiStandard parses a hostapd hw_mode letter.
func ParseWifiStandard(s string) (WifiStandard, error) {
	for std, name := range standardNames {
		if strings.EqualFold(s, name) {
			return std, nil
		}
	}
	if s == "" {
		return StandardNone, nil
	}
	return StandardNone, fmt.Errorf("unknown wifi standard %q", s)
}
