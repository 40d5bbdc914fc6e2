package mocks

import (
	"github.com/maksimkurb/hostnet/src/internal/networking"
)

// MockInterfaceLister is a mock implementation of the InterfaceLister interface.
//
// This allows testing the manager without netlink access.
type MockInterfaceLister struct {
	// Interfaces is returned by ListInterfaces when ListInterfacesFunc is nil
	Interfaces []networking.Interface

	// ListInterfacesFunc is called by ListInterfaces if not nil
	ListInterfacesFunc func() ([]networking.Interface, error)

	// Track calls for verification in tests
	ListInterfacesCalls int
}

// NewMockInterfaceLister creates a lister reporting the given interfaces.
func NewMockInterfaceLister(interfaces ...networking.Interface) *MockInterfaceLister {
	return &MockInterfaceLister{Interfaces: interfaces}
}

// ListInterfaces returns the configured interfaces.
func (m *MockInterfaceLister) ListInterfaces() ([]networking.Interface, error) {
	m.ListInterfacesCalls++
	if m.ListInterfacesFunc != nil {
		return m.ListInterfacesFunc()
	}
	return m.Interfaces, nil
}

// Wired returns an Ethernet interface with or without an IPv4 address.
func Wired(name string, hasIPv4 bool) networking.Interface {
	return networking.Interface{Name: name, IsUp: true, HasIPv4Address: hasIPv4}
}

// Wireless returns a Wi-Fi interface with or without an IPv4 address.
func Wireless(name string, hasIPv4 bool) networking.Interface {
	return networking.Interface{Name: name, IsWifi: true, IsUp: true, HasIPv4Address: hasIPv4}
}

// Loopback returns the loopback interface.
func Loopback() networking.Interface {
	return networking.Interface{Name: "lo", IsUp: true, IsLoopback: true, HasIPv4Address: true}
}
