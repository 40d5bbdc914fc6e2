// Package config handles configuration file parsing and validation for hostnet.
//
// The configuration is a TOML file (default /etc/hostnet/hostnet.conf). Every
// setting has a default, so the file only needs the values that differ:
//
//	[general]
//	platform_vendor = "raspbian"
//	platform_arch = "arm32"
//
//	[paths]
//	hostapd_conf = "/etc/hostapd/hostapd.conf"
//	dnsmasq_lease_time = "24h"
//
//	[services]
//	restart_command = "systemctl restart {{service}}"
//	timeout_seconds = 30
//
//	[services.override.hostapd]
//	restart_command = "service hostapd restart"
//
//	[api]
//	listen_addr = "0.0.0.0:8085"
//
// Relative paths are resolved against the directory of the configuration file.
//
// # Example Usage
//
//	cfg, err := config.LoadAndValidate("/etc/hostnet/hostnet.conf")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	id, _ := cfg.PlatformIdentity()
package config
