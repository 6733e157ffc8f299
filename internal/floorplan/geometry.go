package floorplan

import (
	"math"

	"ble-locator.klederson.com/internal/config"
)

// Grid maps room coordinates (meters) onto a centered block of terminal
// cells, compensating for the ~2:1 height of terminal characters.
type Grid struct {
	Cols, Rows   int     // interior cells, walls excluded
	OffX, OffY   int     // top-left of the interior within the panel
	RoomW, RoomH float64 // meters
}

// FitGrid sizes a grid for a room inside a panel of width x height cells,
// reserving one cell on each side for the walls.
func FitGrid(width, height int, roomW, roomH float64) Grid {
	innerW := width - 2
	innerH := height - 2
	if innerW < 4 {
		innerW = 4
	}
	if innerH < 3 {
		innerH = 3
	}

	// Columns per meter; rows represent 1/AspectRatio more meters each.
	scale := math.Min(float64(innerW)/roomW, float64(innerH)/(roomH*config.AspectRatio))

	cols := int(math.Round(roomW * scale))
	rows := int(math.Round(roomH * scale * config.AspectRatio))
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	if cols > innerW {
		cols = innerW
	}
	if rows > innerH {
		rows = innerH
	}

	return Grid{
		Cols:  cols,
		Rows:  rows,
		OffX:  1 + (innerW-cols)/2,
		OffY:  1 + (innerH-rows)/2,
		RoomW: roomW,
		RoomH: roomH,
	}
}

// Cell maps a room coordinate to an interior cell. Coordinates on the far
// wall land on the last cell, not past it.
func (g Grid) Cell(x, y float64) (col, row int) {
	col = int(math.Round(x / g.RoomW * float64(g.Cols-1)))
	row = int(math.Round(y / g.RoomH * float64(g.Rows-1)))
	if col < 0 {
		col = 0
	}
	if col > g.Cols-1 {
		col = g.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row > g.Rows-1 {
		row = g.Rows - 1
	}
	return col, row
}
