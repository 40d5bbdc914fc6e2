package commands

import (
	"flag"
	"io"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

func CreateConfigCommand() *ConfigCommand {
	return &ConfigCommand{
		fs:  flag.NewFlagSet("config", flag.ExitOnError),
		out: os.Stdout,
	}
}

// ConfigCommand prints the effective configuration, defaults included.
type ConfigCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	out io.Writer
}

func (c *ConfigCommand) Name() string {
	return c.fs.Name()
}

func (c *ConfigCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	log.SetForceStdErr(true)

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *ConfigCommand) Run() error {
	buf, err := c.cfg.SerializeConfig()
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(c.out)
	return err
}
