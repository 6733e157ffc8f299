package floorplan

import (
	"strings"
	"testing"

	"ble-locator.klederson.com/internal/config"
	"ble-locator.klederson.com/internal/locate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContainsMarkers(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	snap := locate.Snapshot{
		Position: locate.Position{X: 5, Y: 4},
		Trail:    []locate.Position{{X: 4, Y: 4}, {X: 4.5, Y: 4}},
	}

	out := Render(60, 24, cfg, snap, nil)
	require.NotEmpty(t, out)

	assert.Contains(t, out, "@", "observer marker")
	for _, b := range cfg.Beacons {
		assert.Contains(t, out, string(rune('0'+b.ID)), "beacon %d marker", b.ID)
		assert.Contains(t, out, b.Label)
	}
	assert.Contains(t, out, "~", "trail marker")
	assert.Contains(t, out, "+", "wall corners")
}

func TestRenderTooSmall(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Render(5, 3, config.Default(), locate.Snapshot{}, nil))
}

func TestRenderLineCount(t *testing.T) {
	t.Parallel()

	out := Render(40, 15, config.Default(), locate.Snapshot{}, nil)
	assert.Equal(t, 15, len(strings.Split(out, "\n")))
}

func TestRenderLegendFitsWidth(t *testing.T) {
	t.Parallel()

	legend := RenderLegend(20, config.Default())
	assert.NotEmpty(t, legend)
}

func TestBeaconMarker(t *testing.T) {
	t.Parallel()
	assert.Equal(t, '3', beaconMarker(3))
	assert.Equal(t, 'B', beaconMarker(42))
}
