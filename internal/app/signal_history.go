package app

// SignalHistory keeps a bounded ring of recent smoothed RSSI values per
// beacon, feeding the sparkline in the beacon list panel.
type SignalHistory struct {
	capacity int
	rings    map[int]*ring
}

type ring struct {
	buf   []float64
	pos   int
	count int
}

// NewSignalHistory creates a history keeping capacity samples per beacon.
func NewSignalHistory(capacity int) *SignalHistory {
	return &SignalHistory{
		capacity: capacity,
		rings:    make(map[int]*ring),
	}
}

// Push records a sample for a beacon.
func (h *SignalHistory) Push(beaconID int, val float64) {
	r, ok := h.rings[beaconID]
	if !ok {
		r = &ring{buf: make([]float64, h.capacity)}
		h.rings[beaconID] = r
	}
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns a beacon's samples in chronological order.
func (h *SignalHistory) Values(beaconID int) []float64 {
	r, ok := h.rings[beaconID]
	if !ok || r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// Reset drops all samples.
func (h *SignalHistory) Reset() {
	h.rings = make(map[int]*ring)
}
