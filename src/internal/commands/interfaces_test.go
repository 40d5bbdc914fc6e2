package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/maksimkurb/hostnet/src/internal/domain"
	"github.com/maksimkurb/hostnet/src/internal/mocks"
	"github.com/maksimkurb/hostnet/src/internal/networking"
)

func TestInterfacesCommand_Run(t *testing.T) {
	lister := mocks.NewMockInterfaceLister(mocks.Loopback(), mocks.Wired("eth0", true), mocks.Wireless("wlan0", false))

	tests := []struct {
		name string
		json bool
	}{
		{"table", false},
		{"json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := CreateInterfacesCommand()
			cmd.deps = domain.NewTestDependencies(lister, mocks.NewMockServiceController())
			cmd.out = &out
			cmd.JSON = tt.json

			if err := cmd.Run(); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if !tt.json {
				for _, want := range []string{"eth0", "wlan0", "loopback"} {
					if !strings.Contains(out.String(), want) {
						t.Errorf("Expected %q in output:\n%s", want, out.String())
					}
				}
				return
			}

			var ifaces []networking.Interface
			if err := json.Unmarshal(out.Bytes(), &ifaces); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if len(ifaces) != 3 || ifaces[1].Name != "eth0" || !ifaces[2].IsWifi {
				t.Errorf("Unexpected interfaces %+v", ifaces)
			}
		})
	}
}
