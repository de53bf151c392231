package ukf

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSigmaWeights(t *testing.T) {
	w := sigmaWeights()
	if len(w) != 15 {
		t.Fatalf("expected 15 weights, got %d", len(w))
	}
	if s := floats.Sum(w); math.Abs(s-1) > 1e-12 {
		t.Fatalf("weights sum to %f", s)
	}
	exp := make([]float64, 15)
	exp[0] = -4.0 / 3
	for i := 1; i < 15; i++ {
		exp[i] = 1.0 / 6
	}
	if diff := cmp.Diff(exp, w, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("weights mismatch (-want +got):\n%s", diff)
	}
}

// testBelief returns a positive definite state covariance with correlations.
func testBelief() (*mat.VecDense, *mat.SymDense) {
	x := mat.NewVecDense(nX, []float64{5.7441, 1.38, 2.2049, 0.5015, 0.3528})
	P := mat.NewSymDense(nX, []float64{
		0.0043, -0.0013, 0.0030, -0.0022, -0.0020,
		-0.0013, 0.0077, 0.0011, 0.0071, 0.0060,
		0.0030, 0.0011, 0.0054, 0.0007, 0.0008,
		-0.0022, 0.0071, 0.0007, 0.0098, 0.0100,
		-0.0020, 0.0060, 0.0008, 0.0100, 0.0123,
	})
	return x, P
}

func TestAugment(t *testing.T) {
	x, P := testBelief()
	xCopy, PCopy := mat.VecDenseCopyOf(x), mat.NewSymDense(nX, nil)
	PCopy.CopySym(P)

	Q := DefaultConfig().ProcessMatrix()
	xAug, PAug := augment(x, P, Q)
	if xAug.Len() != nAug || PAug.SymmetricDim() != nAug {
		t.Fatal("wrong augmented sizes")
	}
	for i := 0; i < nX; i++ {
		if xAug.AtVec(i) != x.AtVec(i) {
			t.Fatalf("xAug[%d] differs", i)
		}
		for j := 0; j < nX; j++ {
			if PAug.At(i, j) != P.At(i, j) {
				t.Fatalf("PAug[%d,%d] differs", i, j)
			}
		}
	}
	if xAug.AtVec(iNuA) != 0 || xAug.AtVec(iNuYawdd) != 0 {
		t.Fatal("noise mean is not zero")
	}
	if PAug.At(iNuA, iNuA) != 1.5*1.5 || PAug.At(iNuYawdd, iNuYawdd) != 0.57*0.57 {
		t.Fatal("Q not placed on the noise block")
	}
	if PAug.At(iPx, iNuA) != 0 || PAug.At(iNuA, iNuYawdd) != 0 {
		t.Fatal("cross terms are not zero")
	}
	if !mat.Equal(x, xCopy) || !mat.Equal(P, PCopy) {
		t.Fatal("augment modified the belief")
	}
}

func TestGenerateSigmaPoints(t *testing.T) {
	x, P := testBelief()
	xAug, PAug := augment(x, P, DefaultConfig().ProcessMatrix())
	X, err := generateSigmaPoints(xAug, PAug)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := X.Dims(); r != nAug || c != nSig {
		t.Fatalf("sigma points are %dx%d", r, c)
	}
	if !mat.Equal(X.ColView(0), xAug) {
		t.Fatal("first sigma point is not the mean")
	}
	// Columns i and i+nAug are symmetric around the mean.
	for i := 1; i <= nAug; i++ {
		for r := 0; r < nAug; r++ {
			if d := X.At(r, i) + X.At(r, i+nAug) - 2*xAug.AtVec(r); math.Abs(d) > 1e-12 {
				t.Fatalf("sigma points %d and %d are not symmetric", i, i+nAug)
			}
		}
	}
	// The unscented transform of the identity returns the original distribution.
	w := sigmaWeights()
	mean := unscentedMean(X, w, noAngle)
	if !mat.EqualApprox(mean, xAug, 1e-12) {
		t.Fatalf("mean mismatch\n%v", mat.Formatted(mean.T()))
	}
	cov := unscentedCovariance(X, mean, w, noAngle)
	if !mat.EqualApprox(cov, PAug, 1e-12) {
		t.Fatalf("covariance mismatch\n%v", mat.Formatted(cov))
	}
}

func TestGenerateSigmaPointsNotPD(t *testing.T) {
	xAug := mat.NewVecDense(nAug, nil)
	PAug := mat.NewSymDense(nAug, nil)
	PAug.SetSym(0, 0, -1)
	if _, err := generateSigmaPoints(xAug, PAug); !errors.Is(err, ErrNotPositiveDefinite) {
		t.Fatalf("expected ErrNotPositiveDefinite, got %v", err)
	}
}

func TestResidual(t *testing.T) {
	dst := mat.NewVecDense(2, nil)
	residual(dst, mat.NewVecDense(2, []float64{1, 3}), mat.NewVecDense(2, []float64{0, -3}), 1)
	if dst.AtVec(0) != 1 || math.Abs(dst.AtVec(1)-(6-2*math.Pi)) > 1e-12 {
		t.Fatalf("unexpected residual %v", mat.Formatted(dst.T()))
	}
	residual(dst, mat.NewVecDense(2, []float64{1, 3}), mat.NewVecDense(2, []float64{0, -3}), noAngle)
	if dst.AtVec(1) != 6 {
		t.Fatal("component wrapped without angle")
	}
}

func TestCrossCovariance(t *testing.T) {
	X := mat.NewDense(1, 3, []float64{0, 1, -1})
	Z := mat.NewDense(1, 3, []float64{0, 2, -2})
	w := []float64{0, 0.5, 0.5}
	Tc := crossCovariance(X, mat.NewVecDense(1, nil), noAngle, Z, mat.NewVecDense(1, nil), noAngle, w)
	if Tc.At(0, 0) != 2 {
		t.Fatalf("Tc = %f", Tc.At(0, 0))
	}
}

func TestUnscentedMeanAcrossPi(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		math.Pi - 0.1, -math.Pi + 0.1, math.Pi - 0.3,
	})
	w := []float64{0.5, 0.25, 0.25}
	mean := unscentedMean(X, w, 1)
	if math.Abs(mean.AtVec(0)-1.75) > 1e-12 {
		t.Fatalf("linear component = %f", mean.AtVec(0))
	}
	if math.Abs(mean.AtVec(1)-(math.Pi-0.1)) > 1e-12 {
		t.Fatalf("angular mean = %f, expected %f", mean.AtVec(1), math.Pi-0.1)
	}
	if plain := unscentedMean(X, w, noAngle); math.Abs(plain.AtVec(1)) > math.Pi/2 {
		t.Fatalf("plain weighted sum unexpectedly close to ±π: %f", plain.AtVec(1))
	}
}
