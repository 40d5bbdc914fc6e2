package commands

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
)

func CreateSetCommand() *SetCommand {
	sc := &SetCommand{
		fs:  flag.NewFlagSet("set", flag.ExitOnError),
		out: os.Stdout,
	}

	sc.fs.Usage = func() {
		fmt.Fprintf(sc.fs.Output(), "Usage: set [options] <interface>\n\n")
		sc.fs.PrintDefaults()
	}

	sc.fs.BoolVar(&sc.Enable, "enable", false, "Mark the interface as enabled")
	sc.fs.BoolVar(&sc.Disable, "disable", false, "Mark the interface as disabled")
	sc.fs.StringVar(&sc.AddressMode, "mode", "", "Address mode: none, dhcp or static")
	sc.fs.StringVar(&sc.Addresses, "address", "", "Comma-separated static addresses in CIDR notation")
	sc.fs.StringVar(&sc.Gateways, "gateway", "", "Comma-separated gateway addresses")
	sc.fs.StringVar(&sc.Nameservers, "nameserver", "", "Comma-separated nameserver addresses")
	sc.fs.StringVar(&sc.WifiMode, "wifi-mode", "", "Wi-Fi mode: none, client or ap")
	sc.fs.StringVar(&sc.Standard, "standard", "", "Wi-Fi standard: a, b, g or n")
	sc.fs.IntVar(&sc.Channel, "channel", 0, "Wi-Fi channel")
	sc.fs.StringVar(&sc.SSID, "ssid", "", "Wi-Fi network name")
	sc.fs.StringVar(&sc.Password, "password", "", "Wi-Fi passphrase")
	sc.fs.StringVar(&sc.DHCPRange, "dhcp-range", "", "DHCP range of an access point, as start-end")
	sc.fs.StringVar(&sc.File, "file", "", "TOML file with record fields to apply before the flags")
	sc.fs.BoolVar(&sc.DryRun, "dry-run", false, "Validate and print the record without writing files or restarting services")

	return sc
}

// SetCommand changes the settings of one interface and applies them.
//
// Only flags given on the command line are applied, so an omitted flag keeps
// the value loaded from the system.
type SetCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	interfaceName string

	Enable      bool
	Disable     bool
	AddressMode string
	Addresses   string
	Gateways    string
	Nameservers string
	WifiMode    string
	Standard    string
	Channel     int
	SSID        string
	Password    string
	DHCPRange   string
	File        string
	DryRun      bool
}

func (c *SetCommand) Name() string {
	return c.fs.Name()
}

func (c *SetCommand) Init(args []string, ctx *AppContext) error {
	if err := c.parseArgs(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *SetCommand) parseArgs(args []string) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.fs.NArg() != 1 {
		return fmt.Errorf("exactly one interface name is required")
	}
	c.interfaceName = c.fs.Arg(0)

	if c.Enable && c.Disable {
		return fmt.Errorf("-enable and -disable can not be used together")
	}

	changes := 0
	c.fs.Visit(func(f *flag.Flag) {
		if f.Name != "dry-run" {
			changes++
		}
	})
	if changes == 0 {
		return fmt.Errorf("nothing to change for %s", c.interfaceName)
	}

	return nil
}

func (c *SetCommand) Run() error {
	ctx := context.Background()

	mgr, err := loadManager(ctx, c.cfg, newDependencies(c.cfg))
	if err != nil {
		return err
	}

	rec, err := mgr.Get(c.interfaceName)
	if err != nil {
		return err
	}

	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %v", c.File, err)
		}
		err = applyPatch(rec, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", c.File, err)
		}
	}

	if err := c.applyFlags(rec); err != nil {
		return err
	}

	updated, err := mgr.Update(c.interfaceName, rec)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderTable(recordHeaders, recordRows([]*model.NetworkRecord{updated})))

	if c.DryRun {
		log.Infof("Dry run, nothing was written")
		return nil
	}

	if err := mgr.Settings().Enabled().Validate(); err != nil {
		return fmt.Errorf("settings are invalid: %v", err)
	}
	return mgr.UpdateSystemFromSettings(ctx)
}

// applyPatch decodes TOML record fields from r onto rec. Unknown keys are
// rejected.
func applyPatch(rec *model.NetworkRecord, r io.Reader) error {
	return toml.NewDecoder(r).DisallowUnknownFields().Decode(rec)
}

// applyFlags applies every flag set on the command line to rec.
func (c *SetCommand) applyFlags(rec *model.NetworkRecord) error {
	var errs []error
	c.fs.Visit(func(f *flag.Flag) {
		if err := c.applyFlag(rec, f.Name); err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", f.Name, err))
		}
	})
	return stderrors.Join(errs...)
}

func (c *SetCommand) applyFlag(rec *model.NetworkRecord, name string) (err error) {
	switch name {
	case "enable":
		rec.Enabled = c.Enable
	case "disable":
		rec.Enabled = !c.Disable
	case "mode":
		rec.AddressMode, err = model.ParseAddressMode(c.AddressMode)
	case "address":
		rec.StaticAddresses, err = parseList(c.Addresses, netip.ParsePrefix)
	case "gateway":
		rec.Gateways, err = parseList(c.Gateways, netip.ParseAddr)
	case "nameserver":
		rec.Nameservers, err = parseList(c.Nameservers, netip.ParseAddr)
	case "wifi-mode":
		rec.WifiMode, err = model.ParseWifiMode(c.WifiMode)
	case "standard":
		rec.Standard, err = model.ParseWifiStandard(c.Standard)
	case "channel":
		rec.Channel = c.Channel
	case "ssid":
		rec.SSID = c.SSID
	case "password":
		rec.Password = c.Password
	case "dhcp-range":
		rec.DHCPRangeStart, rec.DHCPRangeEnd, err = parseRange(c.DHCPRange)
	}
	return err
}

// parseList parses a comma-separated list. An empty value yields nil.
func parseList[T any](value string, parse func(string) (T, error)) ([]T, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var out []T
	for _, part := range strings.Split(value, ",") {
		v, err := parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseRange(value string) (start, end netip.Addr, err error) {
	if strings.TrimSpace(value) == "" {
		return netip.Addr{}, netip.Addr{}, nil
	}
	from, to, ok := strings.Cut(value, "-")
	if !ok {
		return netip.Addr{}, netip.Addr{}, fmt.Errorf("expected start-end, got %q", value)
	}
	if start, err = netip.ParseAddr(strings.TrimSpace(from)); err != nil {
		return netip.Addr{}, netip.Addr{}, err
	}
	if end, err = netip.ParseAddr(strings.TrimSpace(to)); err != nil {
		return netip.Addr{}, netip.Addr{}, err
	}
	return start, end, nil
}
