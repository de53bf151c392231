package ukf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Scenario describes a simulated target moving with the CTRV model.
type Scenario struct {
	X0      *mat.VecDense // True initial state (px, py, v, ψ, ψ̇)
	Steps   int           // Number of measurements
	Start   int64         // Timestamp of the first measurement (µs)
	DtUs    int64         // Time between two measurements (µs)
	Sensors []SensorType  // Sensors used in turn, defaults to lidar then radar
}

// Validate returns an error if the scenario cannot be simulated.
func (sc Scenario) Validate() error {
	if sc.X0 == nil || sc.X0.Len() != nX {
		return errors.New("scenario initial state must have 5 components")
	}
	if sc.Steps <= 0 {
		return fmt.Errorf("scenario must have at least one step, got %d", sc.Steps)
	}
	if sc.DtUs <= 0 {
		return fmt.Errorf("scenario time step must be positive, got %dµs", sc.DtUs)
	}
	for _, s := range sc.Sensors {
		if s.Dims() == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSensor, s)
		}
	}
	return nil
}

// Sample is one simulated measurement along with the true state which produced it.
type Sample struct {
	Measurement Measurement
	Truth       *mat.VecDense // True CTRV state at the measurement timestamp
}

// CartesianTruth returns the true (px, py, vx, vy), as used by RMSE.
func (s Sample) CartesianTruth() *mat.VecDense {
	return CartesianState(s.Truth)
}

// Simulate propagates the true state of the scenario with the CTRV model, disturbed
// by the process noise of n, and measures it at every step with the next sensor of
// the scenario, adding the measurement noise of n.
func Simulate(sc Scenario, n Noise) ([]Sample, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sensors := sc.Sensors
	if len(sensors) == 0 {
		sensors = []SensorType{Lidar, Radar}
	}

	Δt := float64(sc.DtUs) / 1e6
	truth := mat.VecDenseCopyOf(sc.X0)
	samples := make([]Sample, sc.Steps)
	for k := 0; k < sc.Steps; k++ {
		if k > 0 {
			ν := n.Process(k)
			xAug := mat.NewVecDense(nAug, nil)
			xAug.SliceVec(0, nX).(*mat.VecDense).CopyVec(truth)
			xAug.SetVec(iNuA, ν.AtVec(0))
			xAug.SetVec(iNuYawdd, ν.AtVec(1))
			truth = mat.NewVecDense(nX, ctrv(xAug, Δt))
			truth.SetVec(iYaw, NormalizeAngle(truth.AtVec(iYaw)))
		}

		s := sensors[k%len(sensors)]
		model, err := modelFor(s)
		if err != nil {
			return nil, err
		}
		z := mat.NewVecDense(s.Dims(), model.observe(truth))
		z.AddVec(z, n.Measurement(s, k))
		if a := model.angle(); a != noAngle {
			z.SetVec(a, NormalizeAngle(z.AtVec(a)))
		}

		samples[k] = Sample{
			Measurement: Measurement{Sensor: s, Values: z, Timestamp: sc.Start + int64(k)*sc.DtUs},
			Truth:       mat.VecDenseCopyOf(truth),
		}
	}
	return samples, nil
}
