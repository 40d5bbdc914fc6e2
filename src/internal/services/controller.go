// Package services restarts and queries the system services that consume the
// files hostnet writes.
//
// Commands are fasttemplate strings where {{service}} is replaced with the
// service name, e.g. "systemctl restart {{service}}". A service can override
// the default templates; netplan is applied with "netplan apply" instead of a
// unit restart.
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/hostnet/src/internal/errors"
	"github.com/maksimkurb/hostnet/src/internal/log"
)

// Well-known service names.
const (
	Netplan = "netplan"
	Dhcpcd  = "dhcpcd"
	Dnsmasq = "dnsmasq"
	Hostapd = "hostapd"
)

const (
	DefaultRestartCommand = "systemctl restart {{service}}"
	DefaultStatusCommand  = "systemctl is-active {{service}}"
	DefaultTimeout        = 30 * time.Second

	templateService = "service"
)

// Status is the state of a service as reported by the status command.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusFailed   Status = "failed"
	StatusUnknown  Status = "unknown"
)

// Commands are the command templates of one service. Empty fields fall back
// to the controller defaults.
type Commands struct {
	Restart string
	Status  string
}

// DefaultOverrides returns the per-service commands that differ from plain
// systemd units.
func DefaultOverrides() map[string]Commands {
	return map[string]Commands{
		Netplan: {
			Restart: "netplan apply",
			Status:  "systemctl is-active systemd-networkd",
		},
	}
}

// Options configure a Controller.
type Options struct {
	RestartCommand string
	StatusCommand  string
	Overrides      map[string]Commands
	Timeout        time.Duration
	Runner         Runner
}

// Controller restarts services through templated commands.
type Controller struct {
	restart   string
	status    string
	overrides map[string]Commands
	timeout   time.Duration
	runner    Runner
}

// NewController creates a controller. Zero options select the defaults.
func NewController(opts Options) *Controller {
	c := &Controller{
		restart:   opts.RestartCommand,
		status:    opts.StatusCommand,
		overrides: opts.Overrides,
		timeout:   opts.Timeout,
		runner:    opts.Runner,
	}
	if c.restart == "" {
		c.restart = DefaultRestartCommand
	}
	if c.status == "" {
		c.status = DefaultStatusCommand
	}
	if c.overrides == nil {
		c.overrides = DefaultOverrides()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	return c
}

// Restart runs the restart command of service and waits for it. A non-zero
// exit or a timeout is reported as a SERVICE_ERROR.
func (c *Controller) Restart(ctx context.Context, service string) error {
	argv, err := RenderCommand(c.commandsFor(service).Restart, service)
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("invalid restart command for %s", service), err)
	}

	log.Infof("Restarting %s: %s", service, strings.Join(argv, " "))
	result, err := c.run(ctx, argv)
	if err != nil {
		return errors.NewServiceError(fmt.Sprintf("failed to restart %s", service), err)
	}
	if result.ExitCode != 0 {
		var cause error
		if msg := strings.TrimSpace(result.Stderr); msg != "" {
			cause = stderrors.New(msg)
		}
		return errors.NewServiceError(fmt.Sprintf("failed to restart %s: exit code %d", service, result.ExitCode), cause)
	}
	return nil
}

// Status runs the status command of service and maps its first output word
// to a Status. Unrecognized output is StatusUnknown.
func (c *Controller) Status(ctx context.Context, service string) (Status, error) {
	argv, err := RenderCommand(c.commandsFor(service).Status, service)
	if err != nil {
		return StatusUnknown, errors.NewConfigError(fmt.Sprintf("invalid status command for %s", service), err)
	}

	result, err := c.run(ctx, argv)
	if err != nil {
		return StatusUnknown, errors.NewServiceError(fmt.Sprintf("failed to query %s", service), err)
	}

	status := ParseStatus(result.Stdout)
	if status == StatusUnknown && result.ExitCode == 0 {
		status = StatusActive
	}
	return status, nil
}

func (c *Controller) run(ctx context.Context, argv []string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.runner.Run(ctx, argv[0], argv[1:]...)
	if stderrors.Is(err, context.DeadlineExceeded) {
		return result, fmt.Errorf("%s timed out after %s", argv[0], c.timeout)
	}
	return result, err
}

func (c *Controller) commandsFor(service string) Commands {
	cmds := Commands{Restart: c.restart, Status: c.status}
	if o, ok := c.overrides[service]; ok {
		if o.Restart != "" {
			cmds.Restart = o.Restart
		}
		if o.Status != "" {
			cmds.Status = o.Status
		}
	}
	return cmds
}

// RenderCommand substitutes the service name into template and splits the
// result into argv.
func RenderCommand(template, service string) ([]string, error) {
	t, err := fasttemplate.NewTemplate(template, "{{", "}}")
	if err != nil {
		return nil, err
	}
	argv := strings.Fields(t.ExecuteString(map[string]interface{}{
		templateService: service,
	}))
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}

// ParseStatus maps systemctl is-active output to a Status.
func ParseStatus(output string) Status {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return StatusUnknown
	}
	switch fields[0] {
	case "active", "reloading", "activating":
		return StatusActive
	case "inactive", "deactivating":
		return StatusInactive
	case "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}
