package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"sort"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/dnscheck"
	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/services"
)

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs:  flag.NewFlagSet("self-check", flag.ExitOnError),
		out: os.Stdout,
	}

	gc.fs.BoolVar(&gc.SkipDNS, "skip-dns", false, "Do not probe the configured nameservers")
	gc.fs.StringVar(&gc.QueryName, "query", dnscheck.DefaultQueryName, "Name queried when probing nameservers")

	return gc
}

// SelfCheckCommand reports the configuration, the detected platform and the
// state of every backend. It fails if any check fails.
type SelfCheckCommand struct {
	fs   *flag.FlagSet
	cfg  *config.Config
	deps *domain.AppDependencies
	out  io.Writer

	SkipDNS   bool
	QueryName string
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.deps = newDependencies(cfg)

	return nil
}

func (g *SelfCheckCommand) Run() error {
	ctx := context.Background()
	failed := 0
	check := func(passed bool, format string, args ...interface{}) {
		if !passed {
			failed++
		}
		checkLine(g.out, passed, format, args...)
	}

	log.Infof("Running self-check...")
	if buf, err := g.cfg.SerializeConfig(); err != nil {
		log.Errorf("Failed to serialize configuration: %v", err)
	} else {
		log.Debugf("Configuration:\n%s", buf.String())
	}

	ifaces, err := g.deps.InterfaceLister().ListInterfaces()
	sectionTitle(g.out, "Interfaces")
	check(err == nil, "Interface enumeration")
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %v", err)
	}
	fmt.Fprintln(g.out, renderTable(interfaceHeaders, interfaceRows(ifaces)))

	mgr, err := loadManager(ctx, g.cfg, g.deps)
	if err != nil {
		return err
	}

	sectionTitle(g.out, "Platform")
	fmt.Fprintf(g.out, "  %s, general backend: %s\n", mgr.Identity(), mgr.Backend())

	sectionTitle(g.out, "Backend files")
	loadErrors := mgr.LoadErrors()
	for _, name := range []string{"netplan", "dhcpcd", "dnsmasq", "hostapd"} {
		if err, ok := loadErrors[name]; ok {
			check(false, "%s: %v", name, err)
		}
	}
	if len(loadErrors) == 0 {
		check(true, "All backend files readable")
	}

	sectionTitle(g.out, "Settings")
	settings := mgr.Settings()
	fmt.Fprintln(g.out, renderTable(recordHeaders, recordRows(settings.Records())))
	if err := settings.Validate(); err != nil {
		check(false, "Settings are invalid: %v", err)
	} else {
		check(true, "Settings are valid")
	}
	if ap, total := settings.Enabled().FirstAccessPoint(); total > 1 {
		check(false, "%d access points configured, only %s is written to hostapd", total, ap.Name)
	}

	sectionTitle(g.out, "Services")
	controller := g.deps.ServiceController()
	for _, name := range mgr.ServiceNames() {
		status, err := controller.Status(ctx, name)
		switch {
		case err != nil:
			check(false, "%s: %v", name, err)
		default:
			check(status == services.StatusActive, "%s: %s", name, status)
		}
	}

	if !g.SkipDNS {
		sectionTitle(g.out, "Nameservers")
		servers := enabledNameservers(settings.Enabled().Records())
		if len(servers) == 0 {
			fmt.Fprintln(g.out, "  No nameservers configured")
		}
		for _, res := range dnscheck.New(0).CheckAll(ctx, servers, g.QueryName) {
			if res.Reachable() {
				check(true, "%s answered %s in %v", res.Server, res.Rcode, res.RTT)
			} else {
				check(false, "%s: %v", res.Server, res.Err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("self-check failed: %d check(s) did not pass", failed)
	}
	log.Infof("Self-check passed")
	return nil
}

// enabledNameservers returns the distinct nameservers of recs, sorted.
func enabledNameservers(recs []*model.NetworkRecord) []netip.Addr {
	seen := make(map[netip.Addr]bool)
	var out []netip.Addr
	for _, rec := range recs {
		for _, ns := range rec.Nameservers {
			if !seen[ns] {
				seen[ns] = true
				out = append(out, ns)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
