package locate

import (
	"math"
	"testing"
	"time"

	"ble-locator.klederson.com/internal/beacon"
	"ble-locator.klederson.com/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	g, err := NewEngine(config.Default())
	require.NoError(t, err)
	return g
}

// feedBeacon repeatedly delivers advertisements for one beacon with an
// RSSI derived from the true distance, letting the filter settle.
func feedBeacon(t *testing.T, g *Engine, b config.Beacon, trueX, trueY float64, times int) {
	t.Helper()
	cfg := g.Config()
	id := uuid.MustParse(cfg.ProximityUUID)

	dx, dy := trueX-b.X, trueY-b.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	rssi := int16(math.Round(float64(cfg.TxPower) - 10*cfg.PathLossExponent*math.Log10(dist)))

	payload := beacon.EncodeFrame(beacon.FrameStandard, id, 1, uint16(b.ID), int8(cfg.TxPower))
	for i := 0; i < times; i++ {
		_, ok := g.HandleAdvertisement(payload, rssi, 0, false)
		require.True(t, ok)
	}
}

func TestEnginePipeline(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)
	cfg := g.Config()

	// Before any beacon is heard, solves decline to update.
	pos, status := g.SolveTick(time.Now())
	assert.Equal(t, StatusInsufficientData, status)
	assert.Equal(t, Position{}, pos)

	// Walk the true observer position through the pipeline.
	const trueX, trueY = 3.0, 2.0
	for _, b := range cfg.Beacons {
		feedBeacon(t, g, b, trueX, trueY, 100)
	}

	pos, status = g.SolveTick(time.Now())
	assert.Equal(t, StatusOK, status)

	// Integer RSSI quantization bounds the achievable accuracy.
	assert.InDelta(t, trueX, pos.X, 1.0)
	assert.InDelta(t, trueY, pos.Y, 1.0)

	snap := g.Snapshot()
	assert.Equal(t, StatusOK, snap.Status)
	assert.Len(t, snap.Readings, 3)
	assert.Len(t, snap.Trail, 1)
	assert.Equal(t, pos, snap.Position)
}

func TestEngineDropsForeignTraffic(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)

	// Undecodable garbage.
	junk := make([]byte, 30)
	_, ok := g.HandleAdvertisement(junk, -70, 0, false)
	assert.False(t, ok)

	// Structurally valid frame with a different identity.
	other := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	payload := beacon.EncodeFrame(beacon.FrameStandard, other, 1, 1, -59)
	_, ok = g.HandleAdvertisement(payload, -70, 0, false)
	assert.False(t, ok)

	// Matching identity but a minor that names no configured beacon.
	target := uuid.MustParse(g.Config().ProximityUUID)
	payload = beacon.EncodeFrame(beacon.FrameStandard, target, 1, 99, -59)
	_, ok = g.HandleAdvertisement(payload, -70, 0, false)
	assert.False(t, ok)

	stats := g.Snapshot().Stats
	assert.Equal(t, uint64(3), stats.Packets)
	assert.Equal(t, uint64(1), stats.DecodeErrors)
	assert.Equal(t, uint64(1), stats.IdentityMismatch)
	assert.Equal(t, uint64(1), stats.UnknownBeacon)
	assert.Empty(t, g.Snapshot().Readings)
}

func TestEngineGlitchReading(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)

	target := uuid.MustParse(g.Config().ProximityUUID)
	payload := beacon.EncodeFrame(beacon.FrameStandard, target, 1, 1, -59)

	_, ok := g.HandleAdvertisement(payload, 0, 0, false)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), g.Snapshot().Stats.GlitchReadings)
	assert.Empty(t, g.Snapshot().Readings)
}

func TestEngineTxPowerHint(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)

	target := uuid.MustParse(g.Config().ProximityUUID)
	// Payload claims -59 but the platform hint says -70; at RSSI -70 the
	// hinted power puts the beacon at 1 m rather than ~3.5 m.
	payload := beacon.EncodeFrame(beacon.FrameStandard, target, 1, 1, -59)

	for i := 0; i < 100; i++ {
		_, ok := g.HandleAdvertisement(payload, -70, -70, true)
		require.True(t, ok)
	}

	readings := g.Snapshot().Readings
	require.Len(t, readings, 1)
	assert.InDelta(t, 1.0, readings[0].Distance, 0.1)
}

func TestEngineStaleReadings(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)
	cfg := g.Config()

	for _, b := range cfg.Beacons {
		feedBeacon(t, g, b, 3, 2, 100)
	}

	pos, status := g.SolveTick(time.Now())
	require.Equal(t, StatusOK, status)

	// Past the staleness window the prior position is retained.
	late := time.Now().Add(cfg.StalenessLimit.Std() + time.Second)
	pos2, status := g.SolveTick(late)
	assert.Equal(t, StatusInsufficientData, status)
	assert.Equal(t, pos, pos2)
	assert.Positive(t, g.Snapshot().Stats.StaleSkips)
}

func TestEngineDegenerateReferences(t *testing.T) {
	t.Parallel()

	// Collinear beacons: the solver must keep the prior position and the
	// status must be distinguishable from missing data.
	cfg := config.Default()
	cfg.Beacons = []config.Beacon{
		{ID: 1, X: 0, Y: 4, Label: "A"},
		{ID: 2, X: 5, Y: 4, Label: "B"},
		{ID: 3, X: 9, Y: 4, Label: "C"},
	}
	g, err := NewEngine(cfg)
	require.NoError(t, err)

	for _, b := range cfg.Beacons {
		feedBeacon(t, g, b, 3, 2, 100)
	}

	pos, status := g.SolveTick(time.Now())
	assert.Equal(t, StatusDegenerateGeometry, status)
	assert.Equal(t, Position{}, pos)
	assert.Positive(t, g.Snapshot().Stats.DegenerateSolves)
	assert.Empty(t, g.Snapshot().Trail)
}

func TestEngineTrailBounded(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)
	cfg := g.Config()

	for _, b := range cfg.Beacons {
		feedBeacon(t, g, b, 3, 2, 100)
	}

	for i := 0; i < config.TrailLength+10; i++ {
		_, status := g.SolveTick(time.Now())
		require.Equal(t, StatusOK, status)
	}

	assert.Len(t, g.Snapshot().Trail, config.TrailLength)
}

func TestEngineReset(t *testing.T) {
	t.Parallel()
	g := newTestEngine(t)
	cfg := g.Config()

	for _, b := range cfg.Beacons {
		feedBeacon(t, g, b, 3, 2, 50)
	}
	g.SolveTick(time.Now())

	g.Reset()
	snap := g.Snapshot()
	assert.Equal(t, Position{}, snap.Position)
	assert.Equal(t, StatusInsufficientData, snap.Status)
	assert.Empty(t, snap.Readings)
	assert.Empty(t, snap.Trail)
	assert.Equal(t, Stats{}, snap.Stats)
}
