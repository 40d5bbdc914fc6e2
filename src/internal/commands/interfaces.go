package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

func CreateInterfacesCommand() *InterfacesCommand {
	ic := &InterfacesCommand{
		fs:  flag.NewFlagSet("interfaces", flag.ExitOnError),
		out: os.Stdout,
	}

	ic.fs.BoolVar(&ic.JSON, "json", false, "Print interfaces as JSON")

	return ic
}

// InterfacesCommand lists the live interfaces as the kernel reports them.
type InterfacesCommand struct {
	fs   *flag.FlagSet
	deps *domain.AppDependencies
	out  io.Writer

	JSON bool
}

func (c *InterfacesCommand) Name() string {
	return c.fs.Name()
}

func (c *InterfacesCommand) Init(args []string, ctx *AppContext) error {
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
	c.deps = newDependencies(cfg)

	return nil
}

func (c *InterfacesCommand) Run() error {
	ifaces, err := c.deps.InterfaceLister().ListInterfaces()
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %v", err)
	}

	if c.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(ifaces)
	}

	fmt.Fprintln(c.out, renderTable(interfaceHeaders, interfaceRows(ifaces)))
	return nil
}
