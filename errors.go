package ukf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotPositiveDefinite is returned when the augmented covariance cannot be Cholesky factorized.
	ErrNotPositiveDefinite = errors.New("augmented covariance is not positive definite")
	// ErrSingularInnovation is returned when the innovation covariance S cannot be inverted.
	ErrSingularInnovation = errors.New("innovation covariance is not invertible")
	// ErrInvalidSequence is returned by the scoring helpers on empty or mismatched inputs.
	ErrInvalidSequence = errors.New("invalid estimation or ground truth data")
	// ErrUnknownSensor is returned for a measurement whose sensor type is not Lidar nor Radar.
	ErrUnknownSensor = errors.New("unknown sensor type")
	// ErrNotInitialized is returned when Predict or Update is called before the first measurement.
	ErrNotInitialized = errors.New("filter is not initialized")
	// ErrNoPrediction is returned when Update is called without a prior Predict.
	ErrNoPrediction = errors.New("no predicted sigma points (call Predict first)")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DimensionAgreement defines how two matrices' dimensions should agree.
type DimensionAgreement uint8

const (
	dimErrMsg                    = "dimensions must agree: "
	rows2cols DimensionAgreement = iota + 1
	rowsAndcols
)

// checkMatDims checks the matrix dimensions match provided a DimensionAgreement. Returns an error if not.
func checkMatDims(m1, m2 mat.Matrix, name1, name2 string, method DimensionAgreement) error {
	r1, c1 := m1.Dims()
	r2, c2 := m2.Dims()
	switch method {
	case rows2cols:
		if r1 != c2 {
			return fmt.Errorf("%s%s(%dx...) %s(...x%d)", dimErrMsg, name1, r1, name2, c2)
		}
	case rowsAndcols:
		if c1 != c2 || r1 != r2 {
			return fmt.Errorf("%s%s(%dx%d) %s(%dx%d)", dimErrMsg, name1, r1, c1, name2, r2, c2)
		}
	}
	return nil
}
