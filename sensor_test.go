package ukf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLidarModel(t *testing.T) {
	z := lidarModel{}.observe(mat.NewVecDense(nX, []float64{1.5, -2, 3, 0.1, 0.2}))
	if len(z) != 2 || z[0] != 1.5 || z[1] != -2 {
		t.Fatalf("lidar observed %v", z)
	}
	if (lidarModel{}).angle() != noAngle {
		t.Fatal("lidar has no angular component")
	}
}

func TestRadarModel(t *testing.T) {
	ψ := math.Atan2(4, 3)
	z := radarModel{}.observe(mat.NewVecDense(nX, []float64{3, 4, 5, ψ, 0}))
	exp := []float64{5, ψ, 5}
	for i := range exp {
		if math.Abs(z[i]-exp[i]) > 1e-12 {
			t.Fatalf("radar [%d] = %f, expected %f", i, z[i], exp[i])
		}
	}
	// At the origin the range rate stays finite.
	z = radarModel{}.observe(mat.NewVecDense(nX, []float64{0, 0, 1, 0, 0}))
	if z[0] != 0 || z[2] != 0 || math.IsNaN(z[1]) {
		t.Fatalf("radar at origin observed %v", z)
	}
	if (radarModel{}).angle() != 1 {
		t.Fatal("radar bearing is not the angular component")
	}
}

func TestModelFor(t *testing.T) {
	for _, s := range []SensorType{Lidar, Radar} {
		m, err := modelFor(s)
		if err != nil {
			t.Fatal(err)
		}
		if m.sensor() != s {
			t.Fatalf("model for %s is for %s", s, m.sensor())
		}
	}
	if _, err := modelFor(SensorType(9)); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("expected ErrUnknownSensor, got %v", err)
	}
}

func TestObserveSigmaPoints(t *testing.T) {
	Xsig := mat.NewDense(nX, nSig, nil)
	for i := 0; i < nSig; i++ {
		Xsig.Set(iPx, i, float64(i)+1)
		Xsig.Set(iPy, i, 1)
	}
	Zsig := observeSigmaPoints(radarModel{}, Xsig)
	if r, c := Zsig.Dims(); r != 3 || c != nSig {
		t.Fatalf("Zsig is %dx%d", r, c)
	}
	Zsig = observeSigmaPoints(lidarModel{}, Xsig)
	if r, _ := Zsig.Dims(); r != 2 {
		t.Fatalf("lidar Zsig has %d rows", r)
	}
	if Zsig.At(0, 14) != 15 {
		t.Fatal("columns are not observed in order")
	}
}
