package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/platform"
)

func CreatePlatformCommand() *PlatformCommand {
	pc := &PlatformCommand{
		fs:  flag.NewFlagSet("platform", flag.ExitOnError),
		out: os.Stdout,
	}

	pc.fs.BoolVar(&pc.JSON, "json", false, "Print as JSON")

	return pc
}

// PlatformCommand prints the detected platform, the general network backend
// selected for it and the services hostnet restarts.
type PlatformCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	JSON bool
}

type platformInfo struct {
	Platform platform.Identity `json:"platform"`
	Backend  platform.Backend  `json:"backend"`
	Services []string          `json:"services"`
}

func (c *PlatformCommand) Name() string {
	return c.fs.Name()
}

func (c *PlatformCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.JSON {
		log.SetForceStdErr(true)
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *PlatformCommand) Run() error {
	mgr := newManager(c.cfg, newDependencies(c.cfg))
	info := platformInfo{
		Platform: mgr.Identity(),
		Backend:  mgr.Backend(),
		Services: mgr.ServiceNames(),
	}

	if c.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintln(c.out, renderTable(
		[]string{"Vendor", "Architecture", "Backend", "Services"},
		[][]string{{
			string(info.Platform.Vendor),
			string(info.Platform.Arch),
			string(info.Backend),
			fmt.Sprint(info.Services),
		}},
	))
	return nil
}
