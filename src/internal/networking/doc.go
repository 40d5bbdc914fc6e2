// Package networking enumerates live network interfaces.
//
// Links and their addresses come from netlink. Wireless links are told apart
// from wired ones by the sysfs "wireless" directory or "phy80211" link that
// cfg80211 drivers create under /sys/class/net/<name>.
//
//	lister := networking.NewLinkLister("")
//	interfaces, err := lister.ListInterfaces()
package networking
