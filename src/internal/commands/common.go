package commands

import (
	"context"
	"fmt"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/manager"
	"github.com/maksimkurb/hostnet/src/internal/platform"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// newDependencies creates the OS collaborators described by cfg.
func newDependencies(cfg *config.Config) *domain.AppDependencies {
	return domain.NewAppDependencies(domain.AppConfig{
		SysfsNetRoot: cfg.General.SysfsNetRoot,
		Services:     cfg.ServiceOptions(),
	})
}

// newManager creates a manager for the detected platform.
func newManager(cfg *config.Config, deps *domain.AppDependencies) *manager.Manager {
	identity, err := cfg.PlatformIdentity()
	if err != nil {
		log.Warnf("Platform detection incomplete: %v", err)
	}
	log.Debugf("Platform %s, general backend %s", identity, platform.Select(identity))

	return manager.New(manager.Options{
		Identity:      identity,
		NetplanDir:    cfg.Paths.NetplanDir,
		NetplanOutput: cfg.Paths.NetplanOutput,
		DhcpcdConf:    cfg.Paths.DhcpcdConf,
		DnsmasqConf:   cfg.Paths.DnsmasqConf,
		HostapdConf:   cfg.Paths.HostapdConf,
		LeaseTime:     cfg.Paths.DnsmasqLeaseTime,
		Lister:        deps.InterfaceLister(),
		Services:      deps.ServiceController(),
	})
}

// loadManager creates a manager and loads the settings from the system.
func loadManager(ctx context.Context, cfg *config.Config, deps *domain.AppDependencies) (*manager.Manager, error) {
	mgr := newManager(cfg, deps)
	if err := mgr.LoadSettingsFromSystem(ctx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return mgr, nil
}
