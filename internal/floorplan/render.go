package floorplan

import (
	"fmt"
	"strings"

	"ble-locator.klederson.com/internal/config"
	"ble-locator.klederson.com/internal/locate"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")
	colorBeacon = lipgloss.Color("#00FFAA")
	colorStale  = lipgloss.Color("#FFAA00")

	styleWall     = lipgloss.NewStyle().Foreground(colorMid)
	styleDot      = lipgloss.NewStyle().Foreground(colorDim)
	styleTrailOld = lipgloss.NewStyle().Foreground(colorDim)
	styleTrailNew = lipgloss.NewStyle().Foreground(colorMid)
	styleBeacon   = lipgloss.NewStyle().Foreground(colorBeacon).Bold(true)
	styleStale    = lipgloss.NewStyle().Foreground(colorStale).Bold(true)
	styleObserver = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorBeacon)
	styleLegend   = lipgloss.NewStyle().Foreground(colorMid)
)

// cell is one rendered grid position: a glyph plus its style.
type cell struct {
	ch  rune
	sty lipgloss.Style
}

// Render draws the room to scale: walls, configured beacons, the position
// trail, and the observer at the latest solved position. Beacons whose ids
// appear in stale are drawn in the warning color.
func Render(width, height int, cfg config.Config, snap locate.Snapshot, stale map[int]bool) string {
	if width < 10 || height < 5 {
		return ""
	}

	g := FitGrid(width, height, cfg.RoomWidth, cfg.RoomHeight)

	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, width)
		for c := range grid[r] {
			grid[r][c] = cell{ch: ' '}
		}
	}

	drawWalls(grid, g)

	// Faint interior reference dots every other meter.
	for mx := 0.0; mx <= g.RoomW; mx += 2 {
		for my := 0.0; my <= g.RoomH; my += 2 {
			col, row := g.Cell(mx, my)
			put(grid, g.OffX+col, g.OffY+row, '.', styleDot)
		}
	}

	// Trail, oldest first so newer segments win the cell.
	for i, p := range snap.Trail {
		sty := styleTrailOld
		if i >= len(snap.Trail)/2 {
			sty = styleTrailNew
		}
		col, row := g.Cell(p.X, p.Y)
		put(grid, g.OffX+col, g.OffY+row, '~', sty)
	}

	// Beacon markers carry the beacon id digit; labels go beside them.
	for _, b := range cfg.Beacons {
		col, row := g.Cell(b.X, b.Y)
		sty := styleBeacon
		if stale[b.ID] {
			sty = styleStale
		}
		marker := beaconMarker(b.ID)
		put(grid, g.OffX+col, g.OffY+row, marker, sty)
		drawLabel(grid, g.OffX+col+2, g.OffY+row, b.Label, styleLabel)
	}

	// Observer on top of everything.
	ocol, orow := g.Cell(snap.Position.X, snap.Position.Y)
	put(grid, g.OffX+ocol, g.OffY+orow, '@', styleObserver)

	var sb strings.Builder
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			sb.WriteString(grid[r][c].sty.Render(string(grid[r][c].ch)))
		}
		if r < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// RenderLegend returns the one-line legend under the plan.
func RenderLegend(width int, cfg config.Config) string {
	legend := fmt.Sprintf(" @ you   1-9 beacons   ~ trail   room %.0fx%.0fm", cfg.RoomWidth, cfg.RoomHeight)
	if len(legend) > width && width > 0 {
		legend = legend[:width]
	}
	return styleLegend.Render(legend)
}

func drawWalls(grid [][]cell, g Grid) {
	left, right := g.OffX-1, g.OffX+g.Cols
	top, bottom := g.OffY-1, g.OffY+g.Rows
	for c := left; c <= right; c++ {
		put(grid, c, top, '-', styleWall)
		put(grid, c, bottom, '-', styleWall)
	}
	for r := top; r <= bottom; r++ {
		put(grid, left, r, '|', styleWall)
		put(grid, right, r, '|', styleWall)
	}
	put(grid, left, top, '+', styleWall)
	put(grid, right, top, '+', styleWall)
	put(grid, left, bottom, '+', styleWall)
	put(grid, right, bottom, '+', styleWall)
}

func drawLabel(grid [][]cell, col, row int, label string, sty lipgloss.Style) {
	for i, ch := range label {
		if !put(grid, col+i, row, ch, sty) {
			return
		}
	}
}

func put(grid [][]cell, col, row int, ch rune, sty lipgloss.Style) bool {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return false
	}
	grid[row][col] = cell{ch: ch, sty: sty}
	return true
}

// beaconMarker renders ids 1-9 as digits, everything else as 'B'.
func beaconMarker(id int) rune {
	if id >= 1 && id <= 9 {
		return rune('0' + id)
	}
	return 'B'
}
