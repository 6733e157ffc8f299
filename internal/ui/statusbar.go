package ui

import (
	"fmt"

	"ble-locator.klederson.com/internal/locate"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: solve status, position,
// and pipeline counters.
func RenderStatusBar(width int, snap locate.Snapshot) string {
	var status string
	switch snap.Status {
	case locate.StatusOK:
		status = StyleStatusTracking.Render("[" + snap.Status.String() + "]")
	case locate.StatusDegenerateGeometry:
		status = StyleStatusDegenerate.Render("[" + snap.Status.String() + "]")
	default:
		status = StyleStatusWaiting.Render("[" + snap.Status.String() + "]")
	}

	info := fmt.Sprintf(" Pos: (%.2f, %.2f)m  Pkts: %d  Decoded: %d  Dropped: %d  Solves: %d",
		snap.Position.X, snap.Position.Y,
		snap.Stats.Packets, snap.Stats.Decoded,
		snap.Stats.DecodeErrors+snap.Stats.IdentityMismatch+snap.Stats.UnknownBeacon,
		snap.Stats.Solves)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	padding := ""
	for i := 0; i < gap; i++ {
		padding += " "
	}

	return StyleStatusBar.Width(width).Render(content + padding)
}
