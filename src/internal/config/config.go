package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/hostnet/src/internal/adapters/dnsmasq"
	"github.com/maksimkurb/hostnet/src/internal/adapters/netplan"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/networking"
	"github.com/maksimkurb/hostnet/src/internal/platform"
	"github.com/maksimkurb/hostnet/src/internal/services"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "/etc/hostnet/hostnet.conf"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			OSReleasePath: platform.DefaultOSReleasePath,
			SysfsNetRoot:  networking.DefaultSysfsNetRoot,
		},
		Paths: PathsConfig{
			NetplanDir:       netplan.DefaultDir,
			NetplanOutput:    netplan.DefaultOutput,
			DhcpcdConf:       "/etc/dhcpcd.conf",
			DnsmasqConf:      "/etc/dnsmasq.conf",
			HostapdConf:      "/etc/hostapd/hostapd.conf",
			DnsmasqLeaseTime: dnsmasq.DefaultLeaseTime,
		},
		Services: ServicesConfig{
			RestartCommand: services.DefaultRestartCommand,
			StatusCommand:  services.DefaultStatusCommand,
			TimeoutSeconds: int(services.DefaultTimeout.Seconds()),
		},
		API: APIConfig{
			ListenAddr: "127.0.0.1:8085",
		},
	}
}

// LoadConfig reads the TOML file at configPath over DefaultConfig. A missing
// file is not an error: the defaults are returned and a warning is logged.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	config := DefaultConfig()
	config._absConfigFilePath = configFile

	content, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Warnf("Configuration file not found: %s, using defaults", configFile)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config.resolvePaths()
	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// LoadAndValidate loads the configuration and validates it.
func LoadAndValidate(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// PlatformIdentity detects the host identity and applies the overrides of
// the general section.
func (c *Config) PlatformIdentity() (platform.Identity, error) {
	var id platform.Identity
	var err error

	if c.General.PlatformVendor != "" {
		id.Vendor = platform.ParseVendor(c.General.PlatformVendor)
	} else if id.Vendor, err = platform.DetectVendor(c.General.OSReleasePath); err != nil {
		log.Warnf("Failed to detect distribution: %v", err)
	}

	if c.General.PlatformArch != "" {
		id.Arch = platform.Arch(c.General.PlatformArch)
	} else {
		id.Arch = platform.DetectArch()
	}

	return id, err
}

// ServiceOptions returns the service controller options. Per-service
// overrides are layered over services.DefaultOverrides.
func (c *Config) ServiceOptions() services.Options {
	overrides := services.DefaultOverrides()
	for name, o := range c.Services.Override {
		if o == nil {
			continue
		}
		cmds := overrides[name]
		if o.RestartCommand != "" {
			cmds.Restart = o.RestartCommand
		}
		if o.StatusCommand != "" {
			cmds.Status = o.StatusCommand
		}
		overrides[name] = cmds
	}

	return services.Options{
		RestartCommand: c.Services.RestartCommand,
		StatusCommand:  c.Services.StatusCommand,
		Overrides:      overrides,
		Timeout:        c.Services.Timeout(),
	}
}
