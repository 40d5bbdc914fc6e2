// Package hostapd loads and saves the hostapd access point configuration.
package hostapd

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/keyvalue"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
)

var logger = log.Component("hostapd")

// Defaults substituted for empty WPA fields on save.
const (
	DefaultKeyManagement = "WPA-PSK"
	DefaultPairwise      = "TKIP"
	DefaultRSNPairwise   = "CCMP"
)

// The file holds the passphrase.
const fileMode = 0600

// Adapter is the hostapd codec.
type Adapter struct{}

// New creates a hostapd adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "hostapd"
}

// Load reads the access point configuration. A file naming an interface
// yields one enabled access point record.
func (a *Adapter) Load(path string) (*model.Settings, error) {
	settings := model.NewSettings()

	f, err := keyvalue.Load(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, errors.NewParseError(fmt.Sprintf("failed to read %s", path), err)
	}

	if rec := Decode(f); rec != nil {
		settings.Set(rec)
	}
	return settings, nil
}

// Decode converts hostapd entries into an access point record. It returns
// nil when no interface is named.
func Decode(f *keyvalue.File) *model.NetworkRecord {
	name, ok := f.Get("interface")
	if !ok || name == "" {
		return nil
	}

	rec := model.NewRecord(name)
	rec.WifiMode = model.WifiModeAccessPoint
	rec.Enabled = true

	rec.SSID, _ = f.Get("ssid")
	rec.Password, _ = f.Get("wpa_passphrase")
	rec.WPAKeyManagement, _ = f.Get("wpa_key_mgmt")
	rec.WPAPairwise, _ = f.Get("wpa_pairwise")
	rec.RSNPairwise, _ = f.Get("rsn_pairwise")

	if hwMode, ok := f.Get("hw_mode"); ok {
		standard, err := model.ParseWifiStandard(hwMode)
		if err != nil {
			logger.Warnf("Ignoring unsupported hw_mode %q for %s", hwMode, name)
		}
		if standard == model.StandardG {
			if n, _ := f.Get("ieee80211n"); n == "1" {
				standard = model.StandardN
			}
		}
		rec.Standard = standard
	}

	rec.Channel = intValue(f, name, "channel")
	rec.WPAMode = intValue(f, name, "wpa")

	return rec
}

// Save writes the first enabled access point. Nothing is written when there
// is no enabled access point.
func (a *Adapter) Save(settings *model.Settings, path string) error {
	rec, total := settings.FirstAccessPoint()
	if rec == nil {
		logger.Debugf("No enabled access point, leaving %s untouched", path)
		return nil
	}
	if total > 1 {
		logger.Warnf("%d enabled access points found, hostapd will only run %s", total, rec.Name)
	}

	if err := Encode(rec).Save(path, fileMode); err != nil {
		return errors.NewWriteError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Encode renders the hostapd configuration for one access point.
func Encode(rec *model.NetworkRecord) *keyvalue.File {
	f := keyvalue.New()
	f.Add("interface", rec.Name)
	f.Add("driver", "nl80211")
	if rec.SSID != "" {
		f.Add("ssid", rec.SSID)
	}

	// hostapd has no hw_mode=n, 802.11n is enabled on top of g.
	switch rec.Standard {
	case model.StandardA, model.StandardB, model.StandardG:
		f.Add("hw_mode", rec.Standard.String())
	case model.StandardN:
		f.Add("hw_mode", model.StandardG.String())
		f.Add("ieee80211n", "1")
	}

	f.Add("channel", strconv.Itoa(rec.Channel))
	f.Add("mac_addr_acl", "0")
	f.Add("auth_algs", "1")
	f.Add("ignore_broadcast_ssid", "0")
	f.Add("wpa", strconv.Itoa(rec.WPAMode))
	if rec.Password != "" {
		f.Add("wpa_passphrase", rec.Password)
	}
	f.Add("wpa_key_mgmt", valueOr(rec.WPAKeyManagement, DefaultKeyManagement))
	f.Add("wpa_pairwise", valueOr(rec.WPAPairwise, DefaultPairwise))
	f.Add("rsn_pairwise", valueOr(rec.RSNPairwise, DefaultRSNPairwise))
	return f
}

// intValue returns the numeric value of key. A malformed value is logged and
// read as absent.
func intValue(f *keyvalue.File, iface, key string) int {
	value, ok := f.Get(key)
	if !ok || value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("Ignoring invalid %s %q for %s", key, value, iface)
		return 0
	}
	return n
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
