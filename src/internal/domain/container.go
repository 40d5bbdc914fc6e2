package domain

import (
	"github.com/maksimkurb/hostnet/src/internal/networking"
	"github.com/maksimkurb/hostnet/src/internal/services"
)

// AppDependencies is a dependency injection container that holds the
// collaborators talking to the operating system.
//
// Usage:
//
//	deps := domain.NewAppDependencies(domain.AppConfig{
//	    Services: services.Options{Timeout: 10 * time.Second},
//	})
//	interfaces, err := deps.InterfaceLister().ListInterfaces()
type AppDependencies struct {
	interfaceLister   InterfaceLister
	serviceController ServiceController
}

// AppConfig holds configuration for creating application dependencies.
type AppConfig struct {
	// SysfsNetRoot is where wireless interfaces are detected.
	// If empty, defaults to /sys/class/net.
	SysfsNetRoot string

	// Services configures the service restart commands.
	Services services.Options
}

// NewAppDependencies creates a new dependency container with production implementations.
func NewAppDependencies(cfg AppConfig) *AppDependencies {
	return &AppDependencies{
		interfaceLister:   networking.NewLinkLister(cfg.SysfsNetRoot),
		serviceController: services.NewController(cfg.Services),
	}
}

// NewDefaultDependencies creates dependencies using default configuration.
func NewDefaultDependencies() *AppDependencies {
	return NewAppDependencies(AppConfig{})
}

// NewTestDependencies creates a dependency container with the given
// implementations, typically mocks.
func NewTestDependencies(lister InterfaceLister, controller ServiceController) *AppDependencies {
	return &AppDependencies{
		interfaceLister:   lister,
		serviceController: controller,
	}
}

// InterfaceLister returns the live interface enumerator.
func (d *AppDependencies) InterfaceLister() InterfaceLister {
	return d.interfaceLister
}

// ServiceController returns the service restart collaborator.
func (d *AppDependencies) ServiceController() ServiceController {
	return d.serviceController
}
