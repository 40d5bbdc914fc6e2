// Package netplan loads and saves netplan YAML, the general network
// configuration on Ubuntu x86_64 hosts.
//
// Loading reads every *.yaml file of the netplan directory in lexical order,
// the order netplan itself applies them. Saving writes a single file that
// sorts after the stock ones, so hostnet settings override rather than
// replace the distribution defaults.
package netplan

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/utils"
)

var logger = log.Component("netplan")

// DefaultDir and DefaultOutput are the stock netplan locations.
const (
	DefaultDir    = "/etc/netplan"
	DefaultOutput = "/etc/netplan/99-hostnet.yaml"
)

// netplan refuses to apply world-readable files that hold Wi-Fi passwords.
const fileMode = 0600

// Adapter is the netplan codec.
type Adapter struct{}

// New creates a netplan adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "netplan"
}

// Load reads a single netplan file or, when path is a directory, every
// *.yaml file in it. Records from later files are merged over earlier ones.
// Files that fail to parse are skipped and reported in the returned error.
func (a *Adapter) Load(path string) (*model.Settings, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return model.NewSettings(), nil
		}
		return model.NewSettings(), errors.NewParseError(fmt.Sprintf("failed to stat %s", path), err)
	}

	if !info.IsDir() {
		settings, err := loadFile(path)
		if err != nil {
			return model.NewSettings(), err
		}
		return settings, nil
	}

	files, err := ListFiles(path)
	if err != nil {
		return model.NewSettings(), errors.NewParseError(fmt.Sprintf("failed to list %s", path), err)
	}

	settings := model.NewSettings()
	var errs []error
	for _, file := range files {
		fileSettings, err := loadFile(file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		settings.MergeAll(fileSettings, model.MergeFull)
	}
	return settings, stderrors.Join(errs...)
}

// ListFiles returns the *.yaml files in dir sorted lexically.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func loadFile(path string) (*model.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("failed to read %s", path), err)
	}

	settings, err := Decode(data)
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("failed to parse %s", path), err)
	}
	logger.Debugf("loaded %d interfaces from %s", settings.Len(), path)
	return settings, nil
}

// Decode parses one netplan document. Enabled is never set: a netplan entry
// says how an interface should be configured, not that it is up.
func Decode(data []byte) (*model.Settings, error) {
	settings := model.NewSettings()

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	for _, pair := range mappingPairs(&doc.Network.Ethernets) {
		rec, err := decodeDevice(pair[0].Value, pair[1], false)
		if err != nil {
			return nil, err
		}
		settings.Set(rec)
	}

	for _, pair := range mappingPairs(&doc.Network.Wifis) {
		rec, err := decodeDevice(pair[0].Value, pair[1], true)
		if err != nil {
			return nil, err
		}
		if existing, ok := settings.Get(rec.Name); ok {
			existing.MergeFull(rec)
			continue
		}
		settings.Set(rec)
	}

	return settings, nil
}

func decodeDevice(name string, node *yaml.Node, wifi bool) (*model.NetworkRecord, error) {
	var dev device
	if err := node.Decode(&dev); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	rec := model.NewRecord(name)

	for _, a := range dev.Addresses {
		prefix, err := netip.ParsePrefix(string(a))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid address: %w", name, err)
		}
		rec.StaticAddresses = append(rec.StaticAddresses, prefix)
	}
	switch {
	case bool(dev.DHCP4):
		rec.AddressMode = model.AddressModeDHCP
	case len(rec.StaticAddresses) > 0:
		rec.AddressMode = model.AddressModeStatic
	}

	for _, s := range dev.Nameservers.Addresses {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid nameserver: %w", name, err)
		}
		rec.Nameservers = append(rec.Nameservers, addr)
	}

	gateways := []string{dev.Gateway4, dev.Gateway6}
	for _, r := range dev.Routes {
		if isDefaultRoute(r.To) {
			gateways = append(gateways, r.Via)
		}
	}
	for _, s := range gateways {
		if s == "" {
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid gateway: %w", name, err)
		}
		if !containsAddr(rec.Gateways, addr) {
			rec.Gateways = append(rec.Gateways, addr)
		}
	}

	if wifi {
		rec.WifiMode = model.WifiModeClient
		// netplan lists one entry per known network; the last one wins.
		for _, pair := range mappingPairs(&dev.AccessPoints) {
			var ap accessPoint
			if err := pair[1].Decode(&ap); err != nil {
				return nil, fmt.Errorf("%s: access point %q: %w", name, pair[0].Value, err)
			}
			rec.SSID = pair[0].Value
			rec.Password = ap.Password
			if ap.Mode == "ap" {
				rec.WifiMode = model.WifiModeAccessPoint
			}
		}
	}

	return rec, nil
}

func isDefaultRoute(to string) bool {
	switch to {
	case "default", "0.0.0.0/0", "::/0":
		return true
	}
	return false
}

func containsAddr(addrs []netip.Addr, addr netip.Addr) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

// Save writes every enabled record. DHCP and unaddressed Wi-Fi clients go to
// the wifis section. Wired interfaces, access points and static Wi-Fi clients
// go to ethernets. Wireless interfaces without a role are left out.
func (a *Adapter) Save(settings *model.Settings, path string) error {
	data, err := Encode(settings)
	if err != nil {
		return errors.NewInternalError("failed to encode netplan configuration", err)
	}
	if err := utils.WriteFileAtomic(path, data, fileMode); err != nil {
		return errors.NewWriteError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Encode renders the netplan document for the enabled records of settings.
func Encode(settings *model.Settings) ([]byte, error) {
	ethernets := mapping()
	wifis := mapping()

	for _, rec := range settings.Records() {
		if !rec.Enabled {
			continue
		}
		switch {
		case isWifisEntry(rec):
			addPair(wifis, scalar(rec.Name), wifiNode(rec))
		case isEthernetsEntry(rec):
			node, ok := ethernetNode(rec)
			if !ok {
				continue
			}
			addPair(ethernets, scalar(rec.Name), node)
		default:
			logger.Debugf("Skipping %s: wireless interface without a client or access point role", rec.Name)
		}
	}

	network := mapping()
	addPair(network, scalar("version"), intScalar(2))
	addPair(network, scalar("renderer"), scalar("networkd"))
	if len(ethernets.Content) > 0 {
		addPair(network, scalar("ethernets"), ethernets)
	}
	if len(wifis.Content) > 0 {
		addPair(network, scalar("wifis"), wifis)
	}

	root := mapping()
	addPair(root, scalar("network"), network)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isWifisEntry(rec *model.NetworkRecord) bool {
	return rec.IsWifiClient() && rec.AddressMode != model.AddressModeStatic
}

// isEthernetsEntry reports whether rec belongs to the ethernets section:
// wired interfaces, access points and static Wi-Fi clients.
func isEthernetsEntry(rec *model.NetworkRecord) bool {
	if !rec.IsWifi {
		return true
	}
	return rec.IsAccessPoint() || (rec.IsWifiClient() && rec.AddressMode == model.AddressModeStatic)
}

// ethernetNode renders rec. It reports false when rec has no address
// configuration netplan can express, so the entry is left out.
func ethernetNode(rec *model.NetworkRecord) (*yaml.Node, bool) {
	node := mapping()
	switch rec.AddressMode {
	case model.AddressModeDHCP:
		addPair(node, scalar("dhcp4"), boolScalar(true))
	case model.AddressModeStatic:
		addresses := flowSequence()
		for _, p := range rec.StaticAddresses {
			if p.Addr().Is6() && !isGlobal(p.Addr()) {
				continue
			}
			addresses.Content = append(addresses.Content, scalar(p.String()))
		}
		if len(addresses.Content) == 0 {
			logger.Warnf("Skipping %s: no static address netplan can configure", rec.Name)
			return nil, false
		}
		addPair(node, scalar("addresses"), addresses)
		addGateways(node, rec.Gateways)
		addNameservers(node, rec.Nameservers)
	default:
		logger.Warnf("Skipping %s: enabled without an address mode", rec.Name)
		return nil, false
	}
	addPair(node, scalar("optional"), boolScalar(true))
	return node, true
}

func wifiNode(rec *model.NetworkRecord) *yaml.Node {
	node := mapping()
	addPair(node, scalar("optional"), boolScalar(true))
	if rec.AddressMode == model.AddressModeDHCP {
		addPair(node, scalar("dhcp4"), boolScalar(true))
	}
	if rec.SSID != "" {
		ap := mapping()
		if rec.Password != "" {
			addPair(ap, scalar("password"), quoted(rec.Password))
		} else {
			ap.Style = yaml.FlowStyle
		}
		aps := mapping()
		addPair(aps, quoted(rec.SSID), ap)
		addPair(node, scalar("access-points"), aps)
	}
	return node
}

func addGateways(node *yaml.Node, gateways []netip.Addr) {
	if len(gateways) == 0 {
		return
	}
	routes := &yaml.Node{Kind: yaml.SequenceNode}
	for _, gw := range gateways {
		r := mapping()
		r.Style = yaml.FlowStyle
		to := "default"
		if gw.Is6() {
			to = "::/0"
		}
		addPair(r, scalar("to"), scalar(to))
		addPair(r, scalar("via"), scalar(gw.String()))
		routes.Content = append(routes.Content, r)
	}
	addPair(node, scalar("routes"), routes)
}

func addNameservers(node *yaml.Node, nameservers []netip.Addr) {
	if len(nameservers) == 0 {
		return
	}
	addresses := flowSequence()
	for _, ns := range nameservers {
		addresses.Content = append(addresses.Content, scalar(ns.String()))
	}
	ns := mapping()
	addPair(ns, scalar("addresses"), addresses)
	addPair(node, scalar("nameservers"), ns)
}

// isGlobal reports whether addr is a globally routable unicast address.
func isGlobal(addr netip.Addr) bool {
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func flowSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func quoted(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle}
}

func boolScalar(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strings.ToLower(fmt.Sprint(v))}
}

func intScalar(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)}
}

func addPair(m, key, value *yaml.Node) {
	m.Content = append(m.Content, key, value)
}
