package manager

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/maksimkurb/hostnet/src/internal/adapters/dhcpcd"
	"github.com/maksimkurb/hostnet/src/internal/adapters/dnsmasq"
	"github.com/maksimkurb/hostnet/src/internal/adapters/hostapd"
	"github.com/maksimkurb/hostnet/src/internal/adapters/netplan"
	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/platform"
	"github.com/maksimkurb/hostnet/src/internal/services"
)

// Options configures a Manager. Every path is explicit so the manager can be
// pointed at temporary files.
type Options struct {
	// Identity selects the general network backend.
	Identity platform.Identity

	// NetplanDir is scanned for *.yaml files on load.
	NetplanDir string
	// NetplanOutput is the netplan file written on save.
	NetplanOutput string
	DhcpcdConf    string
	DnsmasqConf   string
	HostapdConf   string
	// LeaseTime is the dnsmasq lease time. Defaults to 12h.
	LeaseTime string

	Lister   domain.InterfaceLister
	Services domain.ServiceController
}

// backend is one adapter bound to its files and service.
type backend struct {
	adapter  domain.Adapter
	loadPath string
	savePath string
	service  string
}

// Manager reconciles live interface state and the backend configuration
// files into one Settings, and writes it back.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	identity platform.Identity
	kind     platform.Backend

	// general is nil when no general network backend fits the platform.
	general *backend
	dnsmasq backend
	hostapd backend

	lister   domain.InterfaceLister
	services domain.ServiceController

	settings *model.Settings
	// loadErrors holds the adapter errors of the last load, by adapter name.
	loadErrors map[string]error
}

// New creates a manager. The general backend is selected from opts.Identity.
func New(opts Options) *Manager {
	m := &Manager{
		identity: opts.Identity,
		kind:     platform.Select(opts.Identity),
		dnsmasq: backend{
			adapter:  dnsmasq.New(opts.LeaseTime),
			loadPath: opts.DnsmasqConf,
			savePath: opts.DnsmasqConf,
			service:  services.Dnsmasq,
		},
		hostapd: backend{
			adapter:  hostapd.New(),
			loadPath: opts.HostapdConf,
			savePath: opts.HostapdConf,
			service:  services.Hostapd,
		},
		lister:   opts.Lister,
		services: opts.Services,
		settings: model.NewSettings(),
	}

	switch m.kind {
	case platform.BackendNetplan:
		m.general = &backend{
			adapter:  netplan.New(),
			loadPath: opts.NetplanDir,
			savePath: opts.NetplanOutput,
			service:  services.Netplan,
		}
	case platform.BackendDhcpcd:
		m.general = &backend{
			adapter:  dhcpcd.New(),
			loadPath: opts.DhcpcdConf,
			savePath: opts.DhcpcdConf,
			service:  services.Dhcpcd,
		}
	}

	return m
}

// Identity returns the platform identity the manager was created for.
func (m *Manager) Identity() platform.Identity {
	return m.identity
}

// Backend returns the selected general network backend.
func (m *Manager) Backend() platform.Backend {
	return m.kind
}

// ServiceNames returns the services restarted by UpdateSystemFromSettings,
// in restart order.
func (m *Manager) ServiceNames() []string {
	var names []string
	if m.general != nil {
		names = append(names, m.general.service)
	}
	return append(names, m.dnsmasq.service, m.hostapd.service)
}

// Settings returns the current settings. The caller may mutate them before
// calling UpdateSystemFromSettings.
func (m *Manager) Settings() *model.Settings {
	return m.settings
}

// LoadErrors returns the adapter errors of the last load, keyed by adapter
// name. Missing files are not errors.
func (m *Manager) LoadErrors() map[string]error {
	out := make(map[string]error, len(m.loadErrors))
	for name, err := range m.loadErrors {
		out[name] = err
	}
	return out
}

// Get returns a copy of the named record.
func (m *Manager) Get(name string) (*model.NetworkRecord, error) {
	rec, ok := m.settings.Get(name)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s not found", name), nil)
	}
	return rec.Clone(), nil
}

// Update replaces the configurable fields of the named record. The interface
// must have been reported by the OS during the last load.
func (m *Manager) Update(name string, incoming *model.NetworkRecord) (*model.NetworkRecord, error) {
	rec, ok := m.settings.Get(name)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("interface %s not found", name), nil)
	}

	updated := rec.Clone()
	updated.Replace(incoming)
	if err := updated.Validate(); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid settings for %s", name), err)
	}

	rec.Replace(updated)
	return rec.Clone(), nil
}

// LoadSettingsFromSystem rebuilds the settings from scratch: live interfaces
// first, then the general backend, then dnsmasq and hostapd.
//
// Missing or unparsable backend files contribute nothing and are logged.
// Only a failure to enumerate interfaces is returned.
func (m *Manager) LoadSettingsFromSystem(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	interfaces, err := m.lister.ListInterfaces()
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}

	m.loadErrors = make(map[string]error)

	settings := model.NewSettings()
	for _, iface := range interfaces {
		if iface.IsLoopback {
			continue
		}
		rec := model.NewLiveRecord(iface.Name, iface.IsWifi, iface.HasIPv4Address)
		rec.AddressMode = model.AddressModeDHCP
		settings.Set(rec)
	}
	log.Debugf("Found %d live interface(s): %v", settings.Len(), settings.Names())

	if m.general != nil {
		m.loadBackend(settings, m.general, model.MergeFull)
	} else {
		log.Debugf("No general network backend for platform %s", m.identity)
	}

	for _, b := range []*backend{&m.dnsmasq, &m.hostapd} {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.loadBackend(settings, b, model.MergeNonIdentity)
	}

	m.settings = settings
	return nil
}

func (m *Manager) loadBackend(settings *model.Settings, b *backend, merge model.MergeFn) {
	name := b.adapter.Name()

	loaded, err := b.adapter.Load(b.loadPath)
	if err != nil {
		m.loadErrors[name] = err
		if errors.HasCode(err, errors.ErrCodeParse) {
			log.Warnf("Ignoring %s configuration: %v", name, err)
		} else {
			log.Errorf("Failed to load %s configuration: %v", name, err)
		}
	}
	if loaded == nil || loaded.Len() == 0 {
		return
	}

	merged, skipped := settings.MergeExisting(loaded, merge)
	if len(merged) > 0 {
		log.Debugf("Merged %s configuration for %v", name, merged)
	}
	if len(skipped) > 0 {
		log.Debugf("Skipped %s configuration for unknown interface(s) %v", name, skipped)
	}
}

// UpdateSystemFromSettings writes the enabled records to dnsmasq, hostapd and
// the general backend, in that order, then restarts the general network
// service followed by dnsmasq and hostapd.
//
// Every step is attempted. Errors are collected and returned joined; a failed
// restart never undoes the files already written.
func (m *Manager) UpdateSystemFromSettings(ctx context.Context) error {
	enabled := m.settings.Enabled()
	var errs []error

	backends := []*backend{&m.dnsmasq, &m.hostapd}
	if m.general != nil {
		backends = append(backends, m.general)
	}
	for _, b := range backends {
		log.Infof("Writing %s configuration to %s", b.adapter.Name(), b.savePath)
		if err := b.adapter.Save(enabled, b.savePath); err != nil {
			log.Errorf("Failed to write %s configuration: %v", b.adapter.Name(), err)
			errs = append(errs, err)
		}
	}

	for _, service := range m.ServiceNames() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.NewServiceError(fmt.Sprintf("restart of %s cancelled", service), err))
			continue
		}
		log.Infof("Restarting %s", service)
		if err := m.services.Restart(ctx, service); err != nil {
			log.Errorf("Failed to restart %s: %v", service, err)
			if !errors.HasCode(err, errors.ErrCodeService) {
				err = errors.NewServiceError(fmt.Sprintf("failed to restart %s", service), err)
			}
			errs = append(errs, err)
		}
	}

	return stderrors.Join(errs...)
}
