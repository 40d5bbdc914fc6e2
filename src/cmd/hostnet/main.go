package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/hostnet/src/internal/commands"
	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Host Network Configuration Manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  show                    Show interface settings merged from the system\n")
		fmt.Fprintf(os.Stderr, "  interfaces              List live network interfaces\n")
		fmt.Fprintf(os.Stderr, "  set                     Change the settings of one interface and apply them\n")
		fmt.Fprintf(os.Stderr, "  apply                   Rewrite backend files from the system settings and restart services\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the HTTP API\n")
		fmt.Fprintf(os.Stderr, "  self-check              Run self-check\n")
		fmt.Fprintf(os.Stderr, "  platform                Show the detected platform and network backend\n")
		fmt.Fprintf(os.Stderr, "  config                  Print the effective configuration\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	cmds := []commands.Runner{
		commands.CreateShowCommand(),
		commands.CreateInterfacesCommand(),
		commands.CreateSetCommand(),
		commands.CreateApplyCommand(),
		commands.CreateServeCommand(),
		commands.CreateSelfCheckCommand(),
		commands.CreatePlatformCommand(),
		commands.CreateConfigCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
