// Package dhcpcd loads and saves dhcpcd.conf, the general network
// configuration on Debian ARM boards.
//
// Only a fixed vocabulary of global directives and the static addressing of
// "interface" blocks are understood:
//
//	hostname
//	option rapid_commit
//	option domain_name_servers, domain_name, domain_search, host_name
//	require dhcp_server_identifier
//	slaac private
//
//	interface eth0
//	static ip_address=10.0.0.5/24
//	static routers=10.0.0.1
//	static domain_name_servers=8.8.8.8 1.1.1.1
//
// Comments and unknown directives are skipped.
package dhcpcd

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/netip"
	"os"
	"strings"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/utils"
)

var logger = log.Component("dhcpcd")

const fileMode = 0644

// Adapter is the dhcpcd.conf codec. It remembers the global directives of
// the last file it loaded and writes them back on save.
type Adapter struct {
	flags  Flags
	loaded bool
}

// New creates a dhcpcd adapter that writes DefaultFlags until a file is loaded.
func New() *Adapter {
	return &Adapter{flags: DefaultFlags()}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "dhcpcd"
}

// Flags returns the global directives that will be written on save.
func (a *Adapter) Flags() Flags {
	return a.flags
}

// Load parses dhcpcd.conf. Every interface block with static addresses
// yields an enabled STATIC record.
func (a *Adapter) Load(path string) (*model.Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return model.NewSettings(), nil
		}
		return model.NewSettings(), errors.NewParseError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer utils.CloseOrWarn(file)

	flags, settings, err := Parse(file)
	if err != nil {
		return model.NewSettings(), errors.NewParseError(fmt.Sprintf("failed to parse %s", path), err)
	}

	a.flags = flags
	a.loaded = true
	return settings, nil
}

// Parse reads dhcpcd.conf from r.
func Parse(r io.Reader) (Flags, *model.Settings, error) {
	var flags Flags
	settings := model.NewSettings()
	var current *model.NetworkRecord

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "hostname":
			flags.Hostname = true
		case "clientid":
			flags.ClientID = true
		case "duid":
			flags.DUID = true
		case "persistent":
			flags.Persistent = true
		case "option":
			for _, name := range splitList(rest) {
				if !flags.setOption(name) {
					logger.Debugf("ignoring option %q on line %d", name, lineNo)
				}
			}
		case "require":
			if rest == "dhcp_server_identifier" {
				flags.ServerIdentifier = true
			}
		case "slaac":
			switch rest {
			case "private":
				flags.SLAACPrivate = true
			case "hwaddr":
				flags.SLAACHWAddr = true
			}
		case "interface":
			if rest == "" {
				return Flags{}, nil, fmt.Errorf("line %d: interface without a name", lineNo)
			}
			if existing, ok := settings.Get(rest); ok {
				current = existing
			} else {
				current = model.NewRecord(rest)
			}
		case "static":
			if current == nil {
				logger.Debugf("ignoring global static directive on line %d", lineNo)
				continue
			}
			if err := applyStatic(current, rest); err != nil {
				return Flags{}, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !settings.Has(current.Name) {
				settings.Set(current)
			}
		default:
			logger.Debugf("ignoring directive %q on line %d", keyword, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return Flags{}, nil, err
	}

	return flags, settings, nil
}

func applyStatic(rec *model.NetworkRecord, directive string) error {
	key, value, ok := strings.Cut(directive, "=")
	if !ok {
		return fmt.Errorf("malformed static directive %q", directive)
	}
	key = strings.TrimSpace(key)
	values := splitList(value)

	switch key {
	case "ip_address", "ip6_address":
		for _, v := range values {
			prefix, err := parsePrefix(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			rec.StaticAddresses = append(rec.StaticAddresses, prefix)
		}
		rec.AddressMode = model.AddressModeStatic
		rec.Enabled = true
	case "routers":
		addrs, err := parseAddrs(values)
		if err != nil {
			return fmt.Errorf("invalid routers: %w", err)
		}
		rec.Gateways = append(rec.Gateways, addrs...)
	case "domain_name_servers":
		addrs, err := parseAddrs(values)
		if err != nil {
			return fmt.Errorf("invalid domain_name_servers: %w", err)
		}
		rec.Nameservers = append(rec.Nameservers, addrs...)
	default:
		logger.Debugf("ignoring static %s for %s", key, rec.Name)
	}
	return nil
}

// Save writes the global directives followed by one block per enabled STATIC
// record, in settings order.
func (a *Adapter) Save(settings *model.Settings, path string) error {
	if !a.loaded {
		logger.Debugf("no configuration loaded, writing default directives")
	}
	if err := utils.WriteFileAtomic(path, Encode(a.flags, settings), fileMode); err != nil {
		return errors.NewWriteError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Encode renders dhcpcd.conf.
func Encode(flags Flags, settings *model.Settings) []byte {
	var buf bytes.Buffer
	for _, line := range flags.lines() {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	for _, rec := range settings.Records() {
		if !rec.Enabled || rec.AddressMode != model.AddressModeStatic {
			continue
		}

		buf.WriteString("\ninterface " + rec.Name + "\n")
		for _, p := range rec.StaticAddresses {
			key := "ip_address"
			if p.Addr().Is6() {
				key = "ip6_address"
			}
			fmt.Fprintf(&buf, "static %s=%s\n", key, p)
		}
		if len(rec.Gateways) > 0 {
			buf.WriteString("static routers=" + joinAddrs(rec.Gateways) + "\n")
		}
		if len(rec.Nameservers) > 0 {
			buf.WriteString("static domain_name_servers=" + joinAddrs(rec.Nameservers) + "\n")
		}
	}
	return buf.Bytes()
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// splitList splits on commas and whitespace.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parsePrefix accepts CIDR notation or a bare address, which becomes a host prefix.
func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func parseAddrs(values []string) ([]netip.Addr, error) {
	out := make([]netip.Addr, 0, len(values))
	for _, v := range values {
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func joinAddrs(addrs []netip.Addr) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
