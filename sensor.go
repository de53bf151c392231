package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// observationModel maps a predicted CTRV state into the measurement space of a sensor.
// There are exactly two implementations, lidarModel and radarModel.
type observationModel interface {
	sensor() SensorType
	// observe returns the expected measurement of state x.
	observe(x mat.Vector) []float64
	// angle returns the index of the angular measurement component, or noAngle.
	angle() int
}

// lidarModel observes the position components directly.
type lidarModel struct{}

func (lidarModel) sensor() SensorType { return Lidar }

func (lidarModel) observe(x mat.Vector) []float64 {
	return []float64{x.AtVec(iPx), x.AtVec(iPy)}
}

func (lidarModel) angle() int { return noAngle }

// radarModel observes range, bearing and range rate.
type radarModel struct{}

func (radarModel) sensor() SensorType { return Radar }

func (radarModel) observe(x mat.Vector) []float64 {
	px, py := x.AtVec(iPx), x.AtVec(iPy)
	v, ψ := x.AtVec(iV), x.AtVec(iYaw)
	vx, vy := v*math.Cos(ψ), v*math.Sin(ψ)

	ρ := math.Hypot(px, py)
	den := ρ
	if den < epsilon {
		den = epsilon
	}
	return []float64{ρ, math.Atan2(py, px), (px*vx + py*vy) / den}
}

func (radarModel) angle() int { return 1 }

// modelFor returns the observation model of the given sensor.
func modelFor(s SensorType) (observationModel, error) {
	switch s {
	case Lidar:
		return lidarModel{}, nil
	case Radar:
		return radarModel{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownSensor, s)
}

// observeSigmaPoints maps each column of the predicted sigma points into measurement space.
func observeSigmaPoints(model observationModel, Xsig *mat.Dense) *mat.Dense {
	_, c := Xsig.Dims()
	Zsig := mat.NewDense(model.sensor().Dims(), c, nil)
	for i := 0; i < c; i++ {
		Zsig.SetCol(i, model.observe(Xsig.ColView(i)))
	}
	return Zsig
}
