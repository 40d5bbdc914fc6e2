package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

func CreateApplyCommand() *ApplyCommand {
	ac := &ApplyCommand{
		fs:  flag.NewFlagSet("apply", flag.ExitOnError),
		out: os.Stdout,
	}

	ac.fs.BoolVar(&ac.DryRun, "dry-run", false, "Load and validate the settings without writing files or restarting services")

	return ac
}

// ApplyCommand loads the settings from the system and writes them back,
// normalizing every backend file, then restarts the services.
type ApplyCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer

	DryRun bool
}

func (c *ApplyCommand) Name() string {
	return c.fs.Name()
}

func (c *ApplyCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *ApplyCommand) Run() error {
	ctx := context.Background()

	mgr, err := loadManager(ctx, c.cfg, newDependencies(c.cfg))
	if err != nil {
		return err
	}

	enabled := mgr.Settings().Enabled()
	if err := enabled.Validate(); err != nil {
		return fmt.Errorf("settings are invalid: %v", err)
	}

	if enabled.Len() == 0 {
		log.Warnf("No enabled interfaces, backend files will be written empty")
	}
	fmt.Fprintln(c.out, renderTable(recordHeaders, recordRows(enabled.Records())))

	if c.DryRun {
		log.Infof("Dry run, nothing was written")
		return nil
	}

	if err := mgr.UpdateSystemFromSettings(ctx); err != nil {
		return fmt.Errorf("failed to apply settings: %w", err)
	}
	log.Infof("Settings applied, restarted %v", mgr.ServiceNames())
	return nil
}
