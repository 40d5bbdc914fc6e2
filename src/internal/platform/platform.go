// Package platform identifies the host distribution and architecture and
// selects the general network backend for it.
package platform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/maksimkurb/hostnet/src/internal/utils"
)

// DefaultOSReleasePath is where the distribution identity is read from.
const DefaultOSReleasePath = "/etc/os-release"

// Vendor is the Linux distribution family.
type Vendor string

const (
	VendorUnknown Vendor = "unknown"
	VendorUbuntu  Vendor = "ubuntu"
	VendorDebian  Vendor = "debian"
)

// Arch is the machine architecture.
type Arch string

const (
	ArchUnknown Arch = "unknown"
	ArchX86_64  Arch = "x86_64"
	ArchARM64   Arch = "arm64"
	ArchARM32   Arch = "arm32"
)

// Backend is the general network configuration stack of a host.
type Backend string

const (
	BackendNone    Backend = "none"
	BackendNetplan Backend = "netplan"
	BackendDhcpcd  Backend = "dhcpcd"
)

// Identity is the vendor and architecture of a host.
type Identity struct {
	Vendor Vendor `json:"vendor"`
	Arch   Arch   `json:"arch"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Vendor, id.Arch)
}

// Select returns the general network backend for id.
func Select(id Identity) Backend {
	switch {
	case id.Vendor == VendorUbuntu && id.Arch == ArchX86_64:
		return BackendNetplan
	case id.Vendor == VendorDebian && (id.Arch == ArchARM64 || id.Arch == ArchARM32):
		return BackendDhcpcd
	default:
		return BackendNone
	}
}

// Detect reads the host identity from os-release and uname.
func Detect(osReleasePath string) (Identity, error) {
	vendor, err := DetectVendor(osReleasePath)
	if err != nil {
		return Identity{Vendor: VendorUnknown, Arch: DetectArch()}, err
	}
	return Identity{Vendor: vendor, Arch: DetectArch()}, nil
}

// DetectVendor reads the ID field of an os-release file.
func DetectVendor(osReleasePath string) (Vendor, error) {
	file, err := os.Open(osReleasePath)
	if err != nil {
		return VendorUnknown, fmt.Errorf("failed to read %s: %w", osReleasePath, err)
	}
	defer utils.CloseOrWarn(file)

	fields, err := parseOSRelease(file)
	if err != nil {
		return VendorUnknown, fmt.Errorf("failed to parse %s: %w", osReleasePath, err)
	}
	return ParseVendor(fields["ID"]), nil
}

// DetectArch returns the architecture reported by uname.
func DetectArch() Arch {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ArchUnknown
	}
	return ParseArch(unix.ByteSliceToString(uts.Machine[:]))
}

// ParseVendor maps an os-release ID to a vendor. Raspberry Pi OS reports
// itself as raspbian and is treated as Debian.
func ParseVendor(id string) Vendor {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "ubuntu":
		return VendorUbuntu
	case "debian", "raspbian":
		return VendorDebian
	default:
		return VendorUnknown
	}
}

// ParseArch maps a uname machine string to an architecture.
func ParseArch(machine string) Arch {
	m := strings.ToLower(strings.TrimSpace(machine))
	switch {
	case m == "x86_64" || m == "amd64":
		return ArchX86_64
	case m == "aarch64" || m == "arm64":
		return ArchARM64
	case m == "arm" || strings.HasPrefix(m, "armv"):
		return ArchARM32
	default:
		return ArchUnknown
	}
}

func parseOSRelease(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}
	return fields, scanner.Err()
}
