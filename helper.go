package ukf

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Identity returns an identity matrix of the provided size.
func Identity(n int) *mat.SymDense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j += n + 1 {
		vals[j] = 1
	}
	return mat.NewSymDense(n, vals)
}

// IsNil returns whether the provided matrix only has zero values
func IsNil(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// AsSymDense returns the symmetric part (M+Mᵀ)/2 of the provided square matrix.
// Covariance updates such as P - K*S*Kᵀ are only symmetric up to rounding, so the
// average is taken instead of requiring exact equality.
func AsSymDense(m mat.Matrix) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, errors.New("matrix must be square")
	}
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return sym, nil
}

// CartesianState converts a CTRV state (px, py, v, ψ, ψ̇) into the (px, py, vx, vy)
// vector used when scoring against ground truth.
func CartesianState(x mat.Vector) *mat.VecDense {
	v, ψ := x.AtVec(2), x.AtVec(3)
	return mat.NewVecDense(4, []float64{x.AtVec(0), x.AtVec(1), v * math.Cos(ψ), v * math.Sin(ψ)})
}

func isFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
