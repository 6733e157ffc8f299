package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterConvergence(t *testing.T) {
	t.Parallel()

	f := NewFilter(0.0001, 0.01)

	const signal = -60.0
	prevCov := f.ErrorCovariance
	for i := 0; i < 50; i++ {
		f.Update(signal)
		assert.LessOrEqual(t, f.ErrorCovariance, prevCov,
			"covariance must be non-increasing (iteration %d)", i)
		prevCov = f.ErrorCovariance
	}

	assert.InDelta(t, signal, f.Estimate, 0.01,
		"estimate should converge to the constant input")
}

func TestFilterTracksDrift(t *testing.T) {
	t.Parallel()

	f := NewFilter(0.0001, 0.01)

	// Settle on one level, then move the signal; the filter must follow.
	for i := 0; i < 100; i++ {
		f.Update(-60)
	}
	for i := 0; i < 400; i++ {
		f.Update(-70)
	}
	assert.InDelta(t, -70, f.Estimate, 0.5)
}

func TestFilterFirstUpdateJumps(t *testing.T) {
	t.Parallel()

	// Initial covariance 1.0 dwarfs the measurement noise, so the first
	// measurement nearly replaces the zero initial estimate.
	f := NewFilter(0.0001, 0.01)
	got := f.Update(-72)
	assert.InDelta(t, -72, got, 1.0)
}
