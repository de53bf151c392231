package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// noAngle marks a vector space without an angular component.
const noAngle = -1

// sigmaWeights returns the 2*nAug+1 weights of the sigma points for the spread λ.
// They sum to one.
func sigmaWeights() []float64 {
	w := make([]float64, nSig)
	w[0] = float64(lambda) / float64(lambda+nAug)
	for i := 1; i < nSig; i++ {
		w[i] = 0.5 / float64(lambda+nAug)
	}
	return w
}

// augment builds the augmented mean and covariance from the belief (x, P) and the
// process noise covariance Q. The belief is only read: the returned values are new.
func augment(x mat.Vector, P, Q mat.Symmetric) (*mat.VecDense, *mat.SymDense) {
	xAug := mat.NewVecDense(nAug, nil)
	for i := 0; i < nX; i++ {
		xAug.SetVec(i, x.AtVec(i))
	}

	PAug := mat.NewSymDense(nAug, nil)
	for i := 0; i < nX; i++ {
		for j := i; j < nX; j++ {
			PAug.SetSym(i, j, P.At(i, j))
		}
	}
	for i := 0; i < nNoise; i++ {
		for j := i; j < nNoise; j++ {
			PAug.SetSym(nX+i, nX+j, Q.At(i, j))
		}
	}
	return xAug, PAug
}

// generateSigmaPoints returns the nAug x nSig matrix of sigma points around xAug.
// Column 0 is the mean, columns 1..nAug and nAug+1..2*nAug are the mean plus and minus
// √(λ+nAug) times the columns of the lower Cholesky factor of PAug.
func generateSigmaPoints(xAug *mat.VecDense, PAug *mat.SymDense) (*mat.Dense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(PAug); !ok {
		return nil, fmt.Errorf("%w:\n%v", ErrNotPositiveDefinite, mat.Formatted(PAug, mat.Prefix(" ")))
	}
	var L mat.TriDense
	chol.LTo(&L)

	scale := math.Sqrt(float64(lambda + nAug))
	X := mat.NewDense(nAug, nSig, nil)
	for r := 0; r < nAug; r++ {
		X.Set(r, 0, xAug.AtVec(r))
	}
	for i := 0; i < nAug; i++ {
		for r := 0; r < nAug; r++ {
			d := scale * L.At(r, i)
			X.Set(r, i+1, xAug.AtVec(r)+d)
			X.Set(r, i+1+nAug, xAug.AtVec(r)-d)
		}
	}
	return X, nil
}

// unscentedMean returns the weighted sum of the columns of X.
// The component at index angle is averaged as wrapped offsets from the first column,
// so that columns on either side of ±π do not average out to the opposite direction.
func unscentedMean(X mat.Matrix, w []float64, angle int) *mat.VecDense {
	r, _ := X.Dims()
	mean := mat.NewVecDense(r, nil)
	mean.MulVec(X, mat.NewVecDense(len(w), w))
	if angle != noAngle {
		ref := X.At(angle, 0)
		var offset float64
		for i, wi := range w {
			offset += wi * NormalizeAngle(X.At(angle, i)-ref)
		}
		mean.SetVec(angle, ref+offset)
	}
	return mean
}

// residual stores a - b in dst, with the component at index angle wrapped into (-π, π].
func residual(dst *mat.VecDense, a, b mat.Vector, angle int) {
	dst.SubVec(a, b)
	if angle != noAngle {
		dst.SetVec(angle, NormalizeAngle(dst.AtVec(angle)))
	}
}

// unscentedCovariance returns Σ w_i (X_i - mean)(X_i - mean)ᵀ.
func unscentedCovariance(X *mat.Dense, mean *mat.VecDense, w []float64, angle int) *mat.SymDense {
	r, c := X.Dims()
	P := mat.NewSymDense(r, nil)
	diff := mat.NewVecDense(r, nil)
	for i := 0; i < c; i++ {
		residual(diff, X.ColView(i), mean, angle)
		P.SymRankOne(P, w[i], diff)
	}
	return P
}

// crossCovariance returns Σ w_i (X_i - xMean)(Z_i - zMean)ᵀ.
func crossCovariance(X *mat.Dense, xMean *mat.VecDense, xAngle int, Z *mat.Dense, zMean *mat.VecDense, zAngle int, w []float64) *mat.Dense {
	nx, c := X.Dims()
	nz, _ := Z.Dims()
	Tc := mat.NewDense(nx, nz, nil)
	xDiff := mat.NewVecDense(nx, nil)
	zDiff := mat.NewVecDense(nz, nil)
	for i := 0; i < c; i++ {
		residual(xDiff, X.ColView(i), xMean, xAngle)
		residual(zDiff, Z.ColView(i), zMean, zAngle)
		Tc.RankOne(Tc, w[i], xDiff, zDiff)
	}
	return Tc
}
