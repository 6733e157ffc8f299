package locate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() EstimatorParams {
	return EstimatorParams{
		ProcessNoise:     0.0001,
		MeasurementNoise: 0.01,
		PathLossExponent: 2.0,
		MinDistance:      0.3,
		MaxDistance:      15.0,
	}
}

func TestEstimateDistanceBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rssi int16
	}{
		{"deep fade", -150},
		{"very strong", -1},
		{"typical", -65},
		{"weak", -95},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := NewEstimator(testParams())
			now := time.Now()

			for i := 0; i < 10; i++ {
				d := e.Estimate(1, tc.rssi, -59, now)
				assert.GreaterOrEqual(t, d, 0.3)
				assert.LessOrEqual(t, d, 15.0)
			}
		})
	}
}

func TestEstimatePathLossModel(t *testing.T) {
	t.Parallel()
	e := NewEstimator(testParams())
	now := time.Now()

	// tx -59, signal -79 at n=2: d = 10^(20/20) = 10 m. Feed until the
	// filter settles on the constant signal.
	var d float64
	for i := 0; i < 200; i++ {
		d = e.Estimate(1, -79, -59, now)
	}
	assert.InDelta(t, 10.0, d, 0.05)
}

func TestEstimateGlitchReading(t *testing.T) {
	t.Parallel()
	e := NewEstimator(testParams())
	now := time.Now()

	// A zero RSSI bypasses the filter entirely and leaves no reading.
	d := e.Estimate(1, 0, -59, now)
	assert.Equal(t, SentinelDistance, d)
	_, ok := e.Reading(1)
	assert.False(t, ok)

	// Filter state is untouched: convergence continues as if the glitch
	// never happened.
	for i := 0; i < 50; i++ {
		e.Estimate(2, -60, -59, now)
	}
	before, _ := e.Reading(2)
	assert.Equal(t, SentinelDistance, e.Estimate(2, 0, -59, now))
	after, ok := e.Reading(2)
	require.True(t, ok)
	assert.Equal(t, before.Smoothed, after.Smoothed)
}

func TestEstimatorReadings(t *testing.T) {
	t.Parallel()
	e := NewEstimator(testParams())
	now := time.Now()

	e.Estimate(3, -70, -59, now)
	e.Estimate(1, -60, -59, now)
	e.Estimate(2, -65, -59, now)

	rs := e.Readings()
	require.Len(t, rs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{rs[0].BeaconID, rs[1].BeaconID, rs[2].BeaconID})
	for _, r := range rs {
		assert.False(t, math.IsNaN(r.Distance))
		assert.Equal(t, now, r.LastUpdate)
	}
}

func TestEstimatorReset(t *testing.T) {
	t.Parallel()
	e := NewEstimator(testParams())

	e.Estimate(1, -60, -59, time.Now())
	e.Reset()

	assert.Empty(t, e.Readings())
	_, ok := e.Reading(1)
	assert.False(t, ok)
}
