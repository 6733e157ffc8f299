package app

import "time"

// FrameMsg triggers a render frame.
type FrameMsg time.Time

// SolveMsg triggers one trilateration pass.
type SolveMsg time.Time
