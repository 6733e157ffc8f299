package ui

import (
	"fmt"
	"strings"
	"time"

	"ble-locator.klederson.com/internal/config"
	"ble-locator.klederson.com/internal/locate"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderBeaconList renders the per-beacon readings panel: raw and smoothed
// RSSI, estimated distance, reading age, and a recent-signal sparkline.
func RenderBeaconList(cfg config.Config, snap locate.Snapshot, history func(id int) []float64, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	readings := make(map[int]locate.Reading, len(snap.Readings))
	for _, r := range snap.Readings {
		readings[r.BeaconID] = r
	}

	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("BEACONS [%d]", len(cfg.Beacons))),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	for _, b := range cfg.Beacons {
		head := StyleBeaconLabel.Render(fmt.Sprintf("%d %s", b.ID, b.Label)) +
			StyleBeaconValue.Render(fmt.Sprintf("  (%.1f, %.1f)m", b.X, b.Y))
		lines = append(lines, head)

		r, ok := readings[b.ID]
		if !ok {
			lines = append(lines, StyleHelp.Render("  no signal"))
		} else {
			age := now.Sub(r.LastUpdate)
			valSty := StyleBeaconValue
			if age > cfg.StalenessLimit.Std() {
				valSty = StyleBeaconStale
			}
			lines = append(lines, valSty.Render(
				fmt.Sprintf("  %.0f/%.1f dBm  %.2fm  %s", r.RSSI, r.Smoothed, r.Distance, formatAge(age))))
		}

		if spark := Sparkline(history(b.ID), innerW-2); spark != "" {
			lines = append(lines, "  "+StyleSparkline.Render(spark))
		}
		lines = append(lines, "")
	}

	lines = append(lines, StyleHelp.Render("smoothed = Kalman estimate"))

	innerH := height - 2
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH && innerH > 0 {
		lines = lines[:innerH]
	}

	return StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

// Sparkline renders values as a fixed-width bar string, newest on the
// right. Returns "" when there is nothing to draw.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

func formatAge(age time.Duration) string {
	if age < time.Second {
		return "now"
	}
	return fmt.Sprintf("%.0fs", age.Seconds())
}
