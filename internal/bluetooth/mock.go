package bluetooth

import (
	"context"
	"math"
	"math/rand"
	"time"

	"ble-locator.klederson.com/internal/beacon"
	"ble-locator.klederson.com/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// MockScanner simulates an observer walking through the configured room,
// broadcasting advertisements from each configured beacon with RSSI values
// derived from the true distances. Frames are real encoded payloads so
// demo mode exercises the full decode path, and the framing convention
// rotates per beacon to cover all supported layouts.
type MockScanner struct {
	program *tea.Program
	cfg     config.Config
	target  uuid.UUID
	running bool
	cancel  context.CancelFunc
}

// NewMockScanner creates a demo scanner for the given configuration.
func NewMockScanner(cfg config.Config) *MockScanner {
	target, _ := uuid.Parse(cfg.ProximityUUID)
	return &MockScanner{
		cfg:    cfg,
		target: target,
	}
}

// Start begins emitting synthetic advertisements.
func (s *MockScanner) Start(p *tea.Program) error {
	s.program = p
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx)
	return nil
}

func (s *MockScanner) loop(ctx context.Context) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.running {
				return
			}
			t += 0.2
			s.emit(t)
		}
	}
}

// emit advances the simulated walker and broadcasts one advertisement per
// beacon, plus occasional unrelated traffic.
func (s *MockScanner) emit(t float64) {
	// Lissajous path keeps the walker inside the room with margin.
	w, h := s.cfg.RoomWidth, s.cfg.RoomHeight
	x := w/2 + (w/2-1)*math.Sin(t/7)
	y := h/2 + (h/2-1)*math.Sin(t/11+1)

	for i, b := range s.cfg.Beacons {
		dx, dy := x-b.X, y-b.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 0.1 {
			dist = 0.1
		}

		// Invert the path-loss model, then add shadowing noise.
		tx := float64(s.cfg.TxPower)
		rssi := tx - 10*s.cfg.PathLossExponent*math.Log10(dist) + (rand.Float64()-0.5)*6

		kind := beacon.FrameKind(i % 3)
		payload := beacon.EncodeFrame(kind, s.target, 1, uint16(b.ID), int8(s.cfg.TxPower))

		if s.program != nil {
			s.program.Send(AdvertisementMsg{
				Payload: payload,
				RSSI:    int16(rssi),
			})
		}
	}

	// Unrelated BLE traffic the decoder must reject or the identity
	// filter must drop.
	if rand.Float64() < 0.3 {
		junk := make([]byte, 10+rand.Intn(30))
		for i := range junk {
			junk[i] = byte(rand.Intn(256))
		}
		if s.program != nil {
			s.program.Send(AdvertisementMsg{
				Payload: junk,
				RSSI:    int16(-90 + rand.Intn(40)),
			})
		}
	}
}

// Stop halts the mock scanner.
func (s *MockScanner) Stop() {
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
}
