// Package commands implements CLI command handlers for hostnet.
//
// Each command implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - show: Print the settings loaded from the system
//   - interfaces: List live network interfaces
//   - set: Change one interface and apply the result
//   - apply: Rewrite the backend files from the current system state
//   - serve: Run the HTTP API
//   - self-check: Verify configuration, backends, services and nameservers
//   - platform: Print the detected platform and general backend
//   - config: Print the effective configuration
//
// # Example Usage
//
//	cmd := commands.CreateShowCommand()
//	ctx := &commands.AppContext{ConfigPath: "/etc/hostnet/hostnet.conf"}
//	if err := cmd.Init(args, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
