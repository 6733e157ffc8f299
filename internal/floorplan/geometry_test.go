package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitGridStaysInsidePanel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		width, height int
		roomW, roomH  float64
	}{
		{"wide panel", 80, 24, 10, 8},
		{"narrow panel", 30, 10, 10, 8},
		{"tall room", 60, 20, 4, 12},
		{"tiny panel", 10, 6, 10, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := FitGrid(tc.width, tc.height, tc.roomW, tc.roomH)

			assert.GreaterOrEqual(t, g.Cols, 2)
			assert.GreaterOrEqual(t, g.Rows, 2)
			assert.LessOrEqual(t, g.OffX+g.Cols, tc.width)
			assert.LessOrEqual(t, g.OffY+g.Rows, tc.height)
			assert.GreaterOrEqual(t, g.OffX, 1)
			assert.GreaterOrEqual(t, g.OffY, 1)
		})
	}
}

func TestCellMapsCornersToCorners(t *testing.T) {
	t.Parallel()

	g := FitGrid(60, 24, 10, 8)

	col, row := g.Cell(0, 0)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	col, row = g.Cell(10, 8)
	assert.Equal(t, g.Cols-1, col)
	assert.Equal(t, g.Rows-1, row)
}

func TestCellClampsOutOfRoom(t *testing.T) {
	t.Parallel()

	g := FitGrid(60, 24, 10, 8)

	col, row := g.Cell(-3, -3)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	col, row = g.Cell(99, 99)
	assert.Equal(t, g.Cols-1, col)
	assert.Equal(t, g.Rows-1, row)
}
