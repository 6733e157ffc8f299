package locate

import (
	"math"
	"sort"
	"sync"
	"time"
)

// SentinelDistance is returned for a glitch reading (RSSI of exactly 0).
const SentinelDistance = -1.0

// Reading is the latest processed observation for one beacon. Overwritten
// on every accepted advertisement; read by the solver and the UI.
type Reading struct {
	BeaconID   int
	RSSI       float64 // raw signal (dBm)
	Smoothed   float64 // Kalman-filtered signal (dBm)
	Distance   float64 // meters, clamped to the configured bounds
	LastUpdate time.Time
}

// EstimatorParams tune the smoothing and the path-loss conversion.
type EstimatorParams struct {
	ProcessNoise     float64
	MeasurementNoise float64
	PathLossExponent float64
	MinDistance      float64
	MaxDistance      float64
}

// Estimator converts raw RSSI readings into smoothed distance estimates.
// It owns one filter per beacon plus the latest readings; both maps are
// guarded by one mutex so a solve never observes a half-updated filter.
type Estimator struct {
	params EstimatorParams

	mu       sync.Mutex
	filters  map[int]*Filter
	readings map[int]Reading
}

// NewEstimator creates an estimator with no per-beacon state yet; filters
// are created lazily on the first reading for each beacon.
func NewEstimator(params EstimatorParams) *Estimator {
	return &Estimator{
		params:   params,
		filters:  make(map[int]*Filter),
		readings: make(map[int]Reading),
	}
}

// Estimate smooths the RSSI through the beacon's filter and converts it to
// meters with the log-distance path-loss model. An RSSI of exactly 0 is a
// glitch reading: it bypasses the filter entirely and yields the sentinel
// distance without touching stored state.
func (e *Estimator) Estimate(beaconID int, rssi int16, txPower int8, now time.Time) float64 {
	if rssi == 0 {
		return SentinelDistance
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	f, ok := e.filters[beaconID]
	if !ok {
		f = NewFilter(e.params.ProcessNoise, e.params.MeasurementNoise)
		e.filters[beaconID] = f
	}
	smoothed := f.Update(float64(rssi))

	dist := math.Pow(10, (float64(txPower)-smoothed)/(10*e.params.PathLossExponent))
	if dist < e.params.MinDistance {
		dist = e.params.MinDistance
	}
	if dist > e.params.MaxDistance {
		dist = e.params.MaxDistance
	}

	e.readings[beaconID] = Reading{
		BeaconID:   beaconID,
		RSSI:       float64(rssi),
		Smoothed:   smoothed,
		Distance:   dist,
		LastUpdate: now,
	}
	return dist
}

// Reading returns the latest reading for a beacon.
func (e *Estimator) Reading(beaconID int) (Reading, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.readings[beaconID]
	return r, ok
}

// Readings returns copies of all readings, ordered by beacon id.
func (e *Estimator) Readings() []Reading {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Reading, 0, len(e.readings))
	for _, r := range e.readings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BeaconID < out[j].BeaconID })
	return out
}

// Reset drops all filter state and readings. Used on explicit restart.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = make(map[int]*Filter)
	e.readings = make(map[int]Reading)
}
