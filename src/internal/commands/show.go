package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
	"github.com/maksimkurb/hostnet/src/internal/model"
)

func CreateShowCommand() *ShowCommand {
	sc := &ShowCommand{
		fs:  flag.NewFlagSet("show", flag.ExitOnError),
		out: os.Stdout,
	}

	sc.fs.BoolVar(&sc.JSON, "json", false, "Print settings as JSON")
	sc.fs.StringVar(&sc.InterfaceName, "name", "", "Only show the named interface")

	return sc
}

// ShowCommand prints the settings merged from the live interfaces and the
// backend configuration files.
type ShowCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	JSON          bool
	InterfaceName string
}

func (c *ShowCommand) Name() string {
	return c.fs.Name()
}

func (c *ShowCommand) Init(args []string, ctx *AppContext) error {
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

func (c *ShowCommand) Run() error {
	mgr, err := loadManager(context.Background(), c.cfg, newDependencies(c.cfg))
	if err != nil {
		return err
	}

	var records []*model.NetworkRecord
	if c.InterfaceName != "" {
		rec, err := mgr.Get(c.InterfaceName)
		if err != nil {
			return err
		}
		records = []*model.NetworkRecord{rec}
	} else {
		records = mgr.Settings().Clone().Records()
	}

	if c.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "No interfaces found")
		return nil
	}
	fmt.Fprintln(c.out, renderTable(recordHeaders, recordRows(records)))
	return nil
}
