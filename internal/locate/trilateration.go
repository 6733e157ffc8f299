package locate

import "math"

// degenerateThreshold is the smallest |denominator| the linear system is
// solved at; below it the reference points are collinear or nearly so.
const degenerateThreshold = 1e-3

// Position is an observer coordinate in meters, clamped to the room.
type Position struct {
	X float64
	Y float64
}

// Anchor is a reference point for trilateration.
type Anchor struct {
	X float64
	Y float64
}

// Status reports why a solve did or did not update the position. Waiting
// for beacons is a normal operating state, not an error; degenerate
// geometry points at badly placed beacons and is kept distinguishable for
// diagnostics.
type Status int

const (
	StatusOK Status = iota
	StatusInsufficientData
	StatusDegenerateGeometry
)

func (s Status) String() string {
	switch s {
	case StatusInsufficientData:
		return "WAITING FOR BEACONS"
	case StatusDegenerateGeometry:
		return "DEGENERATE GEOMETRY"
	default:
		return "TRACKING"
	}
}

// Solver solves a 2-D position from three anchor distances and clamps the
// result to the room. Stateless; each solve depends only on its inputs and
// the previous position used as the fallback.
type Solver struct {
	RoomWidth  float64
	RoomHeight float64
}

// Solve runs linearized trilateration: subtracting the first two and last
// two circle equations gives a 2x2 linear system in x and y. Any missing
// or non-positive distance keeps the previous position.
func (s Solver) Solve(ref [3]Anchor, dist [3]float64, prev Position) (Position, Status) {
	for _, d := range dist {
		if d <= 0 {
			return prev, StatusInsufficientData
		}
	}

	x1, y1, r1 := ref[0].X, ref[0].Y, dist[0]
	x2, y2, r2 := ref[1].X, ref[1].Y, dist[1]
	x3, y3, r3 := ref[2].X, ref[2].Y, dist[2]

	a := 2 * (x2 - x1)
	b := 2 * (y2 - y1)
	c := r1*r1 - r2*r2 - x1*x1 + x2*x2 - y1*y1 + y2*y2
	d := 2 * (x3 - x2)
	e := 2 * (y3 - y2)
	f := r2*r2 - r3*r3 - x2*x2 + x3*x3 - y2*y2 + y3*y3

	den := a*e - b*d
	if math.Abs(den) < degenerateThreshold {
		return prev, StatusDegenerateGeometry
	}

	p := Position{
		X: (c*e - f*b) / den,
		Y: (a*f - d*c) / den,
	}
	return s.clamp(p), StatusOK
}

// clamp absorbs measurement-driven overshoot rather than rejecting it.
func (s Solver) clamp(p Position) Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.X > s.RoomWidth {
		p.X = s.RoomWidth
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > s.RoomHeight {
		p.Y = s.RoomHeight
	}
	return p
}
