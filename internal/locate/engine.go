package locate

import (
	"errors"
	"log"
	"sync"
	"time"

	"ble-locator.klederson.com/internal/beacon"
	"ble-locator.klederson.com/internal/config"
)

// Stats counts pipeline events. Decode failures are expected and frequent
// (most BLE traffic is not ours) so they are counted, not surfaced.
type Stats struct {
	Packets          uint64
	Decoded          uint64
	DecodeErrors     uint64
	IdentityMismatch uint64
	UnknownBeacon    uint64
	GlitchReadings   uint64
	Solves           uint64
	StaleSkips       uint64
	DegenerateSolves uint64
}

// Snapshot is a consistent copy of engine state for rendering. No interior
// pointers escape the engine.
type Snapshot struct {
	Position Position
	Status   Status
	Readings []Reading
	Trail    []Position
	Stats    Stats
}

// Engine is the advertisement-to-position pipeline: decode, identity
// filter, per-beacon smoothing, periodic trilateration. Advertisements
// arrive on the scanner's goroutine while the solve tick runs elsewhere;
// all entry points are safe to call concurrently.
type Engine struct {
	cfg     config.Config
	decoder *beacon.Decoder
	est     *Estimator
	solver  Solver
	refs    [3]config.Beacon

	mu       sync.Mutex
	position Position
	status   Status
	trail    *Trail
	stats    Stats
}

// NewEngine builds the pipeline from validated configuration.
func NewEngine(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dec, err := beacon.NewDecoder(cfg.ProximityUUID, cfg.PermissiveScan)
	if err != nil {
		return nil, err
	}
	var refs [3]config.Beacon
	for i, id := range cfg.ReferenceIDs {
		refs[i], _ = cfg.BeaconByID(id)
	}
	return &Engine{
		cfg:     cfg,
		decoder: dec,
		est: NewEstimator(EstimatorParams{
			ProcessNoise:     cfg.ProcessNoise,
			MeasurementNoise: cfg.MeasurementNoise,
			PathLossExponent: cfg.PathLossExponent,
			MinDistance:      cfg.MinDistance,
			MaxDistance:      cfg.MaxDistance,
		}),
		solver: Solver{RoomWidth: cfg.RoomWidth, RoomHeight: cfg.RoomHeight},
		refs:   refs,
		status: StatusInsufficientData,
		trail:  NewTrail(config.TrailLength),
	}, nil
}

// HandleAdvertisement runs one raw packet through decode, identity match
// and distance estimation. The beacon id is the advertisement's minor
// value; the major selects the deployment site and is ignored here. A
// platform tx-power hint, when present, overrides the payload's value.
// Returns the updated reading when the packet was accepted.
func (g *Engine) HandleAdvertisement(payload []byte, rssi int16, txHint int8, haveHint bool) (Reading, bool) {
	g.count(func(s *Stats) { s.Packets++ })

	adv, err := g.decoder.Decode(payload, rssi)
	if err != nil {
		g.count(func(s *Stats) { s.DecodeErrors++ })
		if !errors.Is(err, beacon.ErrBufferTooShort) {
			log.Printf("decode: %v (%d bytes)", err, len(payload))
		}
		return Reading{}, false
	}
	g.count(func(s *Stats) { s.Decoded++ })

	if !adv.Matches(g.cfg.ProximityUUID) {
		g.count(func(s *Stats) { s.IdentityMismatch++ })
		return Reading{}, false
	}

	beaconID := int(adv.Minor)
	if _, ok := g.cfg.BeaconByID(beaconID); !ok {
		g.count(func(s *Stats) { s.UnknownBeacon++ })
		return Reading{}, false
	}

	tx := adv.TxPower
	if haveHint {
		tx = txHint
	}
	if tx == 0 {
		tx = int8(g.cfg.TxPower)
	}

	if dist := g.est.Estimate(beaconID, rssi, tx, time.Now()); dist == SentinelDistance {
		g.count(func(s *Stats) { s.GlitchReadings++ })
		return Reading{}, false
	}

	r, _ := g.est.Reading(beaconID)
	return r, true
}

// SolveTick runs one trilateration pass over the three reference beacons.
// All three need a fresh reading; otherwise the prior position is kept
// unchanged and the status says why.
func (g *Engine) SolveTick(now time.Time) (Position, Status) {
	var ref [3]Anchor
	var dist [3]float64
	fresh := true
	for i, b := range g.refs {
		ref[i] = Anchor{X: b.X, Y: b.Y}
		r, ok := g.est.Reading(b.ID)
		if !ok || now.Sub(r.LastUpdate) > g.cfg.StalenessLimit.Std() {
			fresh = false
			continue
		}
		dist[i] = r.Distance
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stats.Solves++
	if !fresh {
		g.stats.StaleSkips++
		g.status = StatusInsufficientData
		return g.position, g.status
	}

	pos, status := g.solver.Solve(ref, dist, g.position)
	g.status = status
	switch status {
	case StatusOK:
		g.position = pos
		g.trail.Push(pos)
	case StatusDegenerateGeometry:
		g.stats.DegenerateSolves++
	}
	return g.position, g.status
}

// Snapshot copies the current state for the UI.
func (g *Engine) Snapshot() Snapshot {
	readings := g.est.Readings()

	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Position: g.position,
		Status:   g.status,
		Readings: readings,
		Trail:    g.trail.Positions(),
		Stats:    g.stats,
	}
}

// Reset restores the engine to its startup state: fresh filters, no
// readings, empty trail.
func (g *Engine) Reset() {
	g.est.Reset()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = Position{}
	g.status = StatusInsufficientData
	g.trail.Reset()
	g.stats = Stats{}
}

// Config returns the engine's configuration.
func (g *Engine) Config() config.Config {
	return g.cfg
}

func (g *Engine) count(fn func(*Stats)) {
	g.mu.Lock()
	fn(&g.stats)
	g.mu.Unlock()
}
