// Package utils provides small helpers shared across hostnet.
//
// Configuration files managed by hostnet are always replaced atomically:
//
//	err := utils.WriteFileAtomic("/etc/hostapd/hostapd.conf", data, 0600)
//
// Relative paths from the application config are resolved against the
// directory the config file lives in:
//
//	abs := utils.GetAbsolutePath("hostapd.conf", "/etc/hostnet")
//	// Returns: /etc/hostnet/hostapd.conf
package utils
