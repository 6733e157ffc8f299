package locate

// Trail is a bounded ring of recent positions for rendering the movement
// path. Oldest entries are overwritten once the ring is full.
type Trail struct {
	buf   []Position
	pos   int
	count int
}

// NewTrail creates a trail holding at most capacity positions.
func NewTrail(capacity int) *Trail {
	return &Trail{
		buf: make([]Position, capacity),
	}
}

// Push records a position.
func (t *Trail) Push(p Position) {
	t.buf[t.pos] = p
	t.pos = (t.pos + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
}

// Positions returns the stored positions in chronological order.
func (t *Trail) Positions() []Position {
	if t.count == 0 {
		return nil
	}
	result := make([]Position, t.count)
	if t.count < len(t.buf) {
		copy(result, t.buf[:t.count])
	} else {
		n := copy(result, t.buf[t.pos:])
		copy(result[n:], t.buf[:t.pos])
	}
	return result
}

// Len returns the number of stored positions.
func (t *Trail) Len() int {
	return t.count
}

// Reset empties the trail.
func (t *Trail) Reset() {
	t.pos = 0
	t.count = 0
}
