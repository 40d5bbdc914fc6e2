package networking

import (
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"sort"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

// DefaultSysfsNetRoot is where the kernel exposes per-interface attributes.
const DefaultSysfsNetRoot = "/sys/class/net"

// Interface is a live network interface as reported by the kernel.
type Interface struct {
	Name           string         `json:"name"`
	IsWifi         bool           `json:"is_wifi"`
	IsUp           bool           `json:"is_up"`
	IsLoopback     bool           `json:"is_loopback"`
	HasIPv4Address bool           `json:"has_ipv4_address"`
	Addresses      []netip.Prefix `json:"addresses,omitempty"`
}

// LinkLister enumerates interfaces over netlink.
type LinkLister struct {
	sysfsRoot string
}

// NewLinkLister creates a lister that classifies Wi-Fi links through sysfs
// mounted at sysfsRoot. An empty root selects DefaultSysfsNetRoot.
func NewLinkLister(sysfsRoot string) *LinkLister {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsNetRoot
	}
	return &LinkLister{sysfsRoot: sysfsRoot}
}

// ListInterfaces returns every link known to the kernel, sorted by index.
func (l *LinkLister) ListInterfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.NewInterfaceError("failed to list network links", err)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].Attrs().Index < links[j].Attrs().Index
	})

	interfaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			log.Warnf("Failed to list addresses of %s: %v", attrs.Name, err)
		}
		interfaces = append(interfaces, buildInterface(attrs.Name, attrs.Flags, addrs, IsWireless(l.sysfsRoot, attrs.Name)))
	}
	return interfaces, nil
}

func buildInterface(name string, flags net.Flags, addrs []netlink.Addr, isWifi bool) Interface {
	iface := Interface{
		Name:       name,
		IsWifi:     isWifi,
		IsUp:       flags&net.FlagUp != 0,
		IsLoopback: flags&net.FlagLoopback != 0,
	}
	for _, addr := range addrs {
		if addr.IPNet == nil {
			continue
		}
		ip, ok := netip.AddrFromSlice(addr.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		ones, _ := addr.Mask.Size()
		iface.Addresses = append(iface.Addresses, netip.PrefixFrom(ip, ones))
		if ip.Is4() {
			iface.HasIPv4Address = true
		}
	}
	return iface
}

// IsWireless reports whether sysfs marks the interface as 802.11.
func IsWireless(sysfsRoot, name string) bool {
	for _, marker := range []string{"wireless", "phy80211"} {
		if _, err := os.Stat(filepath.Join(sysfsRoot, name, marker)); err == nil {
			return true
		}
	}
	return false
}
