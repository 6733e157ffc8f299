package locate

// Filter is a scalar Kalman filter smoothing one beacon's RSSI stream.
// The defaults model a signal that drifts slowly but is read with moderate
// noise; both covariances come from configuration.
type Filter struct {
	ProcessNoise     float64
	MeasurementNoise float64
	ErrorCovariance  float64
	Estimate         float64
}

// NewFilter creates a filter with initial covariance 1.0 and estimate 0.
func NewFilter(processNoise, measurementNoise float64) *Filter {
	return &Filter{
		ProcessNoise:     processNoise,
		MeasurementNoise: measurementNoise,
		ErrorCovariance:  1.0,
	}
}

// Update blends a new measurement into the estimate and returns the
// smoothed value.
func (f *Filter) Update(measurement float64) float64 {
	f.ErrorCovariance += f.ProcessNoise
	gain := f.ErrorCovariance / (f.ErrorCovariance + f.MeasurementNoise)
	f.Estimate += gain * (measurement - f.Estimate)
	f.ErrorCovariance *= 1 - gain
	return f.Estimate
}
