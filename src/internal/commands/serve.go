package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/hostnet/src/internal/api"
	"github.com/maksimkurb/hostnet/src/internal/config"
	"github.com/maksimkurb/hostnet/src/internal/dnscheck"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

const shutdownTimeout = 10 * time.Second

func CreateServeCommand() *ServeCommand {
	sc := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	sc.fs.StringVar(&sc.ListenAddr, "listen", "", "Override the API listen address from the configuration")

	return sc
}

// ServeCommand runs the HTTP API until SIGINT or SIGTERM. SIGHUP reloads the
// settings from the system.
type ServeCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	ListenAddr string

	handler   *api.Handler
	apiRunner *Supervisor
}

func (s *ServeCommand) Name() string {
	return s.fs.Name()
}

func (s *ServeCommand) Init(args []string, ctx *AppContext) error {
	if err := s.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	s.cfg = cfg

	if s.ListenAddr != "" {
		s.cfg.API.ListenAddr = s.ListenAddr
	}

	return nil
}

func (s *ServeCommand) Run() error {
	log.Infof("Starting hostnet API...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	deps := newDependencies(s.cfg)
	mgr, err := loadManager(ctx, s.cfg, deps)
	if err != nil {
		return err
	}
	s.handler = api.NewHandler(mgr, deps, dnscheck.New(0))

	if err := s.startAPIServer(ctx, s.cfg.API.ListenAddr); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	log.Infof("Access restricted to private subnets only:")
	log.Infof("  IPv4: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, 127.0.0.0/8")
	log.Infof("  IPv6: fc00::/7, fe80::/10, ::1/128")
	log.Infof("Send SIGHUP to reload settings from the system")

	for {
		select {
		case <-s.apiRunner.Done():
			return fmt.Errorf("API server stopped: %v", s.apiRunner.LastError())

		case sig := <-sigChan:
			switch sig {
			case syscall.SIGHUP:
				log.Infof("Received SIGHUP signal, reloading settings...")
				if err := s.handler.ReloadSettings(ctx); err != nil {
					log.Errorf("Failed to reload settings: %v", err)
				} else {
					log.Infof("Settings reloaded successfully")
				}

			case syscall.SIGINT, syscall.SIGTERM:
				log.Infof("Received signal %v, shutting down...", sig)
				return s.apiRunner.Stop(shutdownTimeout + time.Second)
			}
		}
	}
}

// startAPIServer runs the API server under a supervisor. Each run gets a
// fresh http.Server since a shut down server can not serve again.
func (s *ServeCommand) startAPIServer(ctx context.Context, bindAddr string) error {
	s.apiRunner = NewSupervisor(SupervisorConfig{
		Name:           "API server",
		RestartBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
	}, func(runCtx context.Context) error {
		srv := api.NewServer(bindAddr, s.handler)

		exited := make(chan struct{})
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			select {
			case <-runCtx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Stop(shutdownCtx); err != nil {
					log.Warnf("API server shutdown: %v", err)
				}
			case <-exited:
			}
		}()

		err := srv.Start()
		close(exited)
		<-stopped
		return err
	})

	return s.apiRunner.Start(ctx)
}
