package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/maksimkurb/hostnet/src/internal/model"
	"github.com/maksimkurb/hostnet/src/internal/networking"
)

var (
	successColor = lipgloss.Color("#43BF6D")
	errorColor   = lipgloss.Color("#FF5555")
	mutedColor   = lipgloss.Color("#626262")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	passStyle   = lipgloss.NewStyle().Foreground(successColor)
	failStyle   = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// renderTable renders rows under headers with a plain border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// checkLine writes one self-check result line.
func checkLine(w io.Writer, passed bool, format string, args ...interface{}) {
	mark := passStyle.Render("✓")
	if !passed {
		mark = failStyle.Render("✗")
	}
	fmt.Fprintf(w, "  %s %s\n", mark, fmt.Sprintf(format, args...))
}

func sectionTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", lipgloss.NewStyle().Bold(true).Render(title))
}

var recordHeaders = []string{"Interface", "Type", "Enabled", "Mode", "Addresses", "Gateways", "Nameservers", "Wi-Fi"}

func recordRows(recs []*model.NetworkRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		kind := "ethernet"
		if rec.IsWifi {
			kind = "wifi"
		}
		rows = append(rows, []string{
			rec.Name,
			kind,
			yesNo(rec.Enabled),
			orDash(rec.AddressMode.String()),
			joinValues(rec.StaticAddresses),
			joinValues(rec.Gateways),
			joinValues(rec.Nameservers),
			wifiSummary(rec),
		})
	}
	return rows
}

func wifiSummary(rec *model.NetworkRecord) string {
	if !rec.IsWifi || rec.WifiMode == model.WifiModeNone {
		return "-"
	}
	parts := []string{rec.WifiMode.String()}
	if rec.SSID != "" {
		parts = append(parts, fmt.Sprintf("ssid=%s", rec.SSID))
	}
	if rec.Channel != 0 {
		parts = append(parts, fmt.Sprintf("ch=%d", rec.Channel))
	}
	if rec.Standard != model.StandardNone {
		parts = append(parts, fmt.Sprintf("802.11%s", rec.Standard))
	}
	if rec.IsAccessPoint() && rec.DHCPRangeStart.IsValid() {
		parts = append(parts, fmt.Sprintf("dhcp=%s-%s", rec.DHCPRangeStart, rec.DHCPRangeEnd))
	}
	return strings.Join(parts, " ")
}

var interfaceHeaders = []string{"Interface", "Type", "State", "IPv4", "Addresses"}

func interfaceRows(ifaces []networking.Interface) [][]string {
	rows := make([][]string, 0, len(ifaces))
	for _, iface := range ifaces {
		kind := "ethernet"
		switch {
		case iface.IsLoopback:
			kind = "loopback"
		case iface.IsWifi:
			kind = "wifi"
		}
		state := failStyle.Render("down")
		if iface.IsUp {
			state = passStyle.Render("up")
		}
		rows = append(rows, []string{
			iface.Name,
			kind,
			state,
			yesNo(iface.HasIPv4Address),
			joinValues(iface.Addresses),
		})
	}
	return rows
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinValues[T fmt.Stringer](values []T) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
