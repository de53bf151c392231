package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// UKFEstimate is the output of each step of the UKF.
// It implements the Estimate interface.
type UKFEstimate struct {
	sensor                  SensorType
	timestamp               int64
	state, meas, innovation *mat.VecDense
	covar, predCovar        mat.Symmetric
	gain                    mat.Matrix
	nis                     float64
}

// IsWithinNσ returns whether every state component lies within the N*σ bounds of zero.
// This is meaningful on error estimates (estimate minus truth).
func (e UKFEstimate) IsWithinNσ(N float64) bool {
	for i := 0; i < e.state.Len(); i++ {
		nσ := N * math.Sqrt(e.covar.At(i, i))
		if e.state.AtVec(i) > nσ || e.state.AtVec(i) < -nσ {
			return false
		}
	}
	return true
}

// IsWithin2σ returns whether the estimation is within the 2σ bounds.
func (e UKFEstimate) IsWithin2σ() bool {
	return e.IsWithinNσ(2)
}

// Sensor implements the Estimate interface.
func (e UKFEstimate) Sensor() SensorType {
	return e.sensor
}

// Timestamp implements the Estimate interface.
func (e UKFEstimate) Timestamp() int64 {
	return e.timestamp
}

// State implements the Estimate interface.
func (e UKFEstimate) State() *mat.VecDense {
	return e.state
}

// Measurement implements the Estimate interface.
func (e UKFEstimate) Measurement() *mat.VecDense {
	return e.meas
}

// Innovation implements the Estimate interface.
func (e UKFEstimate) Innovation() *mat.VecDense {
	return e.innovation
}

// Covariance implements the Estimate interface.
func (e UKFEstimate) Covariance() mat.Symmetric {
	return e.covar
}

// PredCovariance implements the Estimate interface.
func (e UKFEstimate) PredCovariance() mat.Symmetric {
	return e.predCovar
}

// Gain returns the Kalman gain of the update, nil for the initializing measurement.
func (e UKFEstimate) Gain() mat.Matrix {
	return e.gain
}

// NIS implements the Estimate interface.
func (e UKFEstimate) NIS() float64 {
	return e.nis
}

func (e UKFEstimate) String() string {
	state := mat.Formatted(e.State(), mat.Prefix("  "))
	covar := mat.Formatted(e.Covariance(), mat.Prefix("  "))
	if e.gain == nil {
		return fmt.Sprintf("{%s@%d\ns=%v\nP=%v\n}", e.sensor, e.timestamp, state, covar)
	}
	meas := mat.Formatted(e.Measurement(), mat.Prefix("  "))
	gain := mat.Formatted(e.Gain(), mat.Prefix("  "))
	innov := mat.Formatted(e.Innovation(), mat.Prefix("  "))
	predp := mat.Formatted(e.PredCovariance(), mat.Prefix("   "))
	return fmt.Sprintf("{%s@%d\ns=%v\ny=%v\nP=%v\nK=%v\nP-=%v\ni=%v\nnis=%f\n}", e.sensor, e.timestamp, state, meas, covar, gain, predp, innov, e.nis)
}
