package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SensorType identifies the sensor which produced a measurement.
type SensorType uint8

const (
	// Lidar measures the Cartesian position (px, py).
	Lidar SensorType = iota + 1
	// Radar measures range ρ, bearing φ and range rate ρ̇.
	Radar
)

func (s SensorType) String() string {
	switch s {
	case Lidar:
		return "lidar"
	case Radar:
		return "radar"
	}
	return fmt.Sprintf("SensorType(%d)", uint8(s))
}

// Dims returns the size of a raw measurement of this sensor, or 0 if unknown.
func (s SensorType) Dims() int {
	switch s {
	case Lidar:
		return 2
	case Radar:
		return 3
	}
	return 0
}

// Measurement is one timestamped reading of either sensor.
// Timestamp is in microseconds.
type Measurement struct {
	Sensor    SensorType
	Values    *mat.VecDense
	Timestamp int64
}

// NewLidarMeasurement returns a lidar measurement at (px, py).
func NewLidarMeasurement(px, py float64, timestamp int64) Measurement {
	return Measurement{Lidar, mat.NewVecDense(2, []float64{px, py}), timestamp}
}

// NewRadarMeasurement returns a radar measurement (ρ, φ, ρ̇).
func NewRadarMeasurement(ρ, φ, ρdot float64, timestamp int64) Measurement {
	return Measurement{Radar, mat.NewVecDense(3, []float64{ρ, φ, ρdot}), timestamp}
}

// Validate checks the sensor type and that the raw values have the right size and are finite.
func (m Measurement) Validate() error {
	n := m.Sensor.Dims()
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownSensor, m.Sensor)
	}
	if m.Values == nil {
		return fmt.Errorf("%s measurement has no values", m.Sensor)
	}
	if m.Values.Len() != n {
		return fmt.Errorf("%s measurement must have %d values, got %d", m.Sensor, n, m.Values.Len())
	}
	for i := 0; i < n; i++ {
		if v := m.Values.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s measurement value %d is not finite", m.Sensor, i)
		}
	}
	return nil
}

func (m Measurement) String() string {
	if m.Values == nil {
		return fmt.Sprintf("%s@%d []", m.Sensor, m.Timestamp)
	}
	return fmt.Sprintf("%s@%d %v", m.Sensor, m.Timestamp, mat.Formatted(m.Values.T(), mat.Squeeze()))
}
