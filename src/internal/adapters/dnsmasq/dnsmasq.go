// Package dnsmasq loads and saves the dnsmasq configuration that serves DHCP
// leases on the Wi-Fi access point.
package dnsmasq

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/keyvalue"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
)

var logger = log.Component("dnsmasq")

// DefaultLeaseTime is the lease time written after the DHCP range.
const DefaultLeaseTime = "12h"

const fileMode = 0644

// Adapter is the dnsmasq codec.
type Adapter struct {
	leaseTime string
}

// New creates a dnsmasq adapter. An empty leaseTime selects DefaultLeaseTime.
func New(leaseTime string) *Adapter {
	if leaseTime == "" {
		leaseTime = DefaultLeaseTime
	}
	return &Adapter{leaseTime: leaseTime}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "dnsmasq"
}

// Load reads the served interface and its DHCP range.
func (a *Adapter) Load(path string) (*model.Settings, error) {
	settings := model.NewSettings()

	f, err := keyvalue.Load(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, errors.NewParseError(fmt.Sprintf("failed to read %s", path), err)
	}

	name, ok := f.Get("interface")
	if !ok || name == "" {
		return settings, nil
	}

	rec := model.NewRecord(name)
	if value, ok := f.Get("dhcp-range"); ok {
		start, end, err := parseRange(value)
		if err != nil {
			return model.NewSettings(), errors.NewParseError(fmt.Sprintf("invalid dhcp-range in %s", path), err)
		}
		rec.DHCPRangeStart = start
		rec.DHCPRangeEnd = end
	}
	settings.Set(rec)

	return settings, nil
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
		logger.Warnf("%d enabled access points found, dnsmasq will only serve %s", total, rec.Name)
	}

	if err := a.Encode(rec).Save(path, fileMode); err != nil {
		return errors.NewWriteError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Encode renders the dnsmasq configuration for one access point.
func (a *Adapter) Encode(rec *model.NetworkRecord) *keyvalue.File {
	f := keyvalue.New()
	f.Add("interface", rec.Name)
	if rec.DHCPRangeStart.IsValid() && rec.DHCPRangeEnd.IsValid() {
		f.Add("dhcp-range", fmt.Sprintf("%s,%s,%s", rec.DHCPRangeStart, rec.DHCPRangeEnd, a.leaseTime))
	} else {
		logger.Warnf("Access point %s has no DHCP range, dnsmasq will not hand out leases", rec.Name)
	}
	f.Add("port", "0")
	f.Add("bogus-priv", "")
	f.Add("dnssec", "")
	return f
}

func parseRange(value string) (netip.Addr, netip.Addr, error) {
	parts := strings.Split(value, ",")
	if len(parts) < 2 {
		return netip.Addr{}, netip.Addr{}, fmt.Errorf("expected start,end but got %q", value)
	}
	start, err := netip.ParseAddr(strings.TrimSpace(parts[0]))
	if err != nil {
		return netip.Addr{}, netip.Addr{}, err
	}
	end, err := netip.ParseAddr(strings.TrimSpace(parts[1]))
	if err != nil {
		return netip.Addr{}, netip.Addr{}, err
	}
	return start, end, nil
}
