package ukf

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RMSE returns the per-component root mean squared error between the estimations and
// the ground truth, both given as (px, py, vx, vy) vectors.
// If the sequences are empty, of different lengths or hold vectors of the wrong size,
// a warning is logged and a zero vector is returned along with ErrInvalidSequence.
func RMSE(estimations, groundTruth []*mat.VecDense) (*mat.VecDense, error) {
	rmse := mat.NewVecDense(4, nil)
	if len(estimations) == 0 || len(estimations) != len(groundTruth) {
		logger.WithFields(log.Fields{"estimations": len(estimations), "truths": len(groundTruth)}).Warn("invalid estimation or ground truth data")
		return rmse, fmt.Errorf("%w: %d estimations and %d ground truths", ErrInvalidSequence, len(estimations), len(groundTruth))
	}

	sum := make([]float64, 4)
	residual := make([]float64, 4)
	for k := range estimations {
		est, truth := estimations[k], groundTruth[k]
		if est == nil || truth == nil || est.Len() != 4 || truth.Len() != 4 {
			logger.WithField("k", k).Warn("invalid estimation or ground truth data")
			return rmse, fmt.Errorf("%w: pair %d is not a pair of 4-vectors", ErrInvalidSequence, k)
		}
		for i := range residual {
			residual[i] = est.AtVec(i) - truth.AtVec(i)
		}
		floats.Mul(residual, residual)
		floats.Add(sum, residual)
	}
	floats.Scale(1/float64(len(estimations)), sum)
	for i, s := range sum {
		rmse.SetVec(i, math.Sqrt(s))
	}
	return rmse, nil
}

// GroundTruth accumulates estimates and their true states as a run progresses
// so that they may be scored with RMSE.
type GroundTruth struct {
	estimations []*mat.VecDense
	truths      []*mat.VecDense
}

// NewGroundTruth initializes an empty ground truth accumulator.
func NewGroundTruth() *GroundTruth {
	return &GroundTruth{}
}

// Add records an estimate along with the true (px, py, vx, vy) state at that time.
func (t *GroundTruth) Add(est Estimate, truth *mat.VecDense) error {
	if truth == nil || truth.Len() != 4 {
		return fmt.Errorf("%w: ground truth must be (px, py, vx, vy)", ErrInvalidSequence)
	}
	t.estimations = append(t.estimations, CartesianState(est.State()))
	t.truths = append(t.truths, mat.VecDenseCopyOf(truth))
	return nil
}

// Len returns the number of recorded pairs.
func (t *GroundTruth) Len() int {
	return len(t.estimations)
}

// Error returns the difference between the k-th recorded estimate and its truth.
func (t *GroundTruth) Error(k int) *mat.VecDense {
	var diff mat.VecDense
	diff.SubVec(t.estimations[k], t.truths[k])
	return &diff
}

// RMSE returns the RMSE of everything recorded so far.
func (t *GroundTruth) RMSE() (*mat.VecDense, error) {
	return RMSE(t.estimations, t.truths)
}
