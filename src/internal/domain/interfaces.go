// Package domain defines core interfaces for dependency injection and abstraction.
//
// This package contains the fundamental interfaces that enable loose coupling between
// components and facilitate testing through dependency injection.
package domain

import (
	"context"

	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/networking"
	"github.com/maksimkurb/hostnet/src/internal/services"
)

// Adapter reads and writes one backend configuration file.
//
// Load returns only the fields the backend format can express. A missing
// file yields empty settings and no error. A file that cannot be parsed
// yields empty settings and a PARSE_ERROR.
//
// Save writes the subset of records relevant to the backend, replacing the
// whole file at once.
type Adapter interface {
	Name() string
	Load(path string) (*model.Settings, error)
	Save(settings *model.Settings, path string) error
}

// InterfaceLister enumerates live network interfaces.
type InterfaceLister interface {
	ListInterfaces() ([]networking.Interface, error)
}

// ServiceController restarts and queries system services.
//
// Implementations block until the service manager command returns or ctx
// expires.
type ServiceController interface {
	Restart(ctx context.Context, service string) error
	Status(ctx context.Context, service string) (services.Status, error)
}
