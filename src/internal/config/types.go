package config

import (
	"path/filepath"
	"time"

	"github.com/maksimkurb/hostnet/src/internal/utils"
)

type Config struct {
	// General holds host identity overrides.
	General GeneralConfig `toml:"general" json:"general"`
	// Paths are the backend configuration files hostnet reads and writes.
	Paths PathsConfig `toml:"paths" json:"paths"`
	// Services configures how backend services are restarted.
	Services ServicesConfig `toml:"services" json:"services"`
	// API configures the HTTP API of the "serve" command.
	API APIConfig `toml:"api" json:"api"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// PlatformVendor overrides the distribution detected from os-release (ubuntu, debian, raspbian).
	PlatformVendor string `toml:"platform_vendor" json:"platform_vendor" validate:"omitempty,oneof=ubuntu debian raspbian unknown"`
	// PlatformArch overrides the architecture detected from uname (x86_64, arm64, arm32).
	PlatformArch string `toml:"platform_arch" json:"platform_arch" validate:"omitempty,oneof=x86_64 arm64 arm32 unknown"`
	// OSReleasePath is the os-release file used for vendor detection (default: /etc/os-release).
	OSReleasePath string `toml:"os_release_path" json:"os_release_path" validate:"required"`
	// SysfsNetRoot is where wireless interfaces are detected (default: /sys/class/net).
	SysfsNetRoot string `toml:"sysfs_net_root" json:"sysfs_net_root" validate:"required"`
}

type PathsConfig struct {
	// NetplanDir is scanned for *.yaml files on load (default: /etc/netplan).
	NetplanDir string `toml:"netplan_dir" json:"netplan_dir" validate:"required"`
	// NetplanOutput is the file written on save (default: /etc/netplan/99-hostnet.yaml).
	NetplanOutput string `toml:"netplan_output" json:"netplan_output" validate:"required,yaml_file"`
	// DhcpcdConf is the dhcpcd configuration (default: /etc/dhcpcd.conf).
	DhcpcdConf string `toml:"dhcpcd_conf" json:"dhcpcd_conf" validate:"required"`
	// DnsmasqConf is the dnsmasq configuration (default: /etc/dnsmasq.conf).
	DnsmasqConf string `toml:"dnsmasq_conf" json:"dnsmasq_conf" validate:"required"`
	// HostapdConf is the hostapd configuration (default: /etc/hostapd/hostapd.conf).
	HostapdConf string `toml:"hostapd_conf" json:"hostapd_conf" validate:"required"`
	// DnsmasqLeaseTime is the lease time appended to dhcp-range (default: 12h).
	DnsmasqLeaseTime string `toml:"dnsmasq_lease_time" json:"dnsmasq_lease_time" validate:"required,lease_time"`
}

type ServicesConfig struct {
	// RestartCommand restarts a service. Available variables: {{service}} (default: systemctl restart {{service}}).
	RestartCommand string `toml:"restart_command" json:"restart_command" validate:"required,command_template"`
	// StatusCommand prints the service state. Available variables: {{service}} (default: systemctl is-active {{service}}).
	StatusCommand string `toml:"status_command" json:"status_command" validate:"required,command_template"`
	// TimeoutSeconds bounds every service command (default: 30).
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds" validate:"min=1,max=600"`
	// Override replaces the commands of a single service, e.g. [services.override.hostapd].
	Override map[string]*ServiceCommands `toml:"override,omitempty" json:"override,omitempty" validate:"-"`
}

type ServiceCommands struct {
	RestartCommand string `toml:"restart_command,omitempty" json:"restart_command,omitempty" validate:"omitempty,command_template"`
	StatusCommand  string `toml:"status_command,omitempty" json:"status_command,omitempty" validate:"omitempty,command_template"`
}

type APIConfig struct {
	// ListenAddr is the HTTP API address (default: 127.0.0.1:8085).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required,hostport"`
}

// Timeout returns the service command timeout.
func (s *ServicesConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// GetConfigDir returns the directory of the loaded configuration file.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetConfigPath returns the absolute path of the loaded configuration file.
func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

// resolvePaths makes relative backend paths relative to the config directory.
func (c *Config) resolvePaths() {
	dir := c.GetConfigDir()
	if dir == "" {
		return
	}
	for _, p := range []*string{
		&c.Paths.NetplanDir,
		&c.Paths.NetplanOutput,
		&c.Paths.DhcpcdConf,
		&c.Paths.DnsmasqConf,
		&c.Paths.HostapdConf,
	} {
		*p = utils.GetAbsolutePath(*p, dir)
	}
}
