package mocks

import (
	"context"
	"sync"

	"github.com/maksimkurb/hostnet/src/internal/services"
)

// MockServiceController is a mock implementation of the ServiceController interface.
//
// Restarted records the order services were restarted in.
type MockServiceController struct {
	mu sync.Mutex

	// RestartFunc is called by Restart if not nil
	RestartFunc func(ctx context.Context, service string) error

	// StatusFunc is called by Status if not nil
	StatusFunc func(ctx context.Context, service string) (services.Status, error)

	Restarted []string

	// Track calls for verification in tests
	RestartCalls int
	StatusCalls  int
}

// NewMockServiceController creates a controller where every call succeeds.
func NewMockServiceController() *MockServiceController {
	return &MockServiceController{}
}

// Restart records the service and calls RestartFunc.
func (m *MockServiceController) Restart(ctx context.Context, service string) error {
	m.mu.Lock()
	m.RestartCalls++
	m.Restarted = append(m.Restarted, service)
	m.mu.Unlock()

	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, service)
	}
	return nil
}

// Status returns StatusActive unless StatusFunc is set.
func (m *MockServiceController) Status(ctx context.Context, service string) (services.Status, error) {
	m.mu.Lock()
	m.StatusCalls++
	m.mu.Unlock()

	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, service)
	}
	return services.StatusActive, nil
}
