package ukf

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// NISThreshold returns the NIS value which a consistent filter exceeds with
// probability 1-p for the provided sensor, i.e. the p quantile of the chi square
// distribution with as many degrees of freedom as the sensor has dimensions.
// For example, NISThreshold(Radar, 0.95) ≈ 7.815.
func NISThreshold(s SensorType, p float64) (float64, error) {
	if s.Dims() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSensor, s)
	}
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("probability must be in (0, 1), got %f", p)
	}
	return distuv.ChiSquared{K: float64(s.Dims())}.Quantile(p), nil
}

// NISConsistency returns the fraction of the provided NIS values of sensor s which
// are above the NISThreshold for p. A consistent filter returns about 1-p.
func NISConsistency(values []float64, s SensorType, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no NIS values", ErrInvalidSequence)
	}
	threshold, err := NISThreshold(s, p)
	if err != nil {
		return 0, err
	}
	above := 0
	for _, nis := range values {
		if nis > threshold {
			above++
		}
	}
	return float64(above) / float64(len(values)), nil
}
