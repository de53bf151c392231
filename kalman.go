package ukf

import "gonum.org/v1/gonum/mat"

// Filter defines a sensor fusion Kalman filter fed one measurement at a time.
type Filter interface {
	ProcessMeasurement(Measurement) (Estimate, error)
	Predict(Δt float64) error
	Update(Measurement) (Estimate, error)
	Initialized() bool
	Reset()
	String() string
}

// Estimate is returned from ProcessMeasurement() and Update().
type Estimate interface {
	IsWithinNσ(N float64) bool     // IsWithinNσ returns whether the estimation is within the N*σ bounds.
	Sensor() SensorType            // Sensor of the measurement which produced this estimate
	Timestamp() int64              // Measurement timestamp (µs)
	State() *mat.VecDense          // Returns \hat{x}_{k+1}^{+}
	Measurement() *mat.VecDense    // Returns the predicted measurement \hat{z}_{k+1}^{-}
	Innovation() *mat.VecDense     // Returns z_{k+1} - \hat{z}_{k+1}^{-}
	Covariance() mat.Symmetric     // Return P_{k+1}^{+}
	PredCovariance() mat.Symmetric // Return P_{k+1}^{-}
	NIS() float64                  // Normalized innovation squared
	String() string                // Must implement the stringer interface.
}
