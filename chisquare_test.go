package ukf

import (
	"errors"
	"math"
	"testing"
)

func TestNISThreshold(t *testing.T) {
	for _, tc := range []struct {
		s   SensorType
		p   float64
		exp float64
	}{
		{Lidar, 0.95, 5.991},
		{Radar, 0.95, 7.815},
		{Lidar, 0.05, 0.103},
		{Radar, 0.05, 0.352},
	} {
		got, err := NISThreshold(tc.s, tc.p)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tc.exp) > 1e-3 {
			t.Fatalf("NISThreshold(%s, %f) = %f, expected %f", tc.s, tc.p, got, tc.exp)
		}
	}
	if _, err := NISThreshold(SensorType(0), 0.95); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("expected ErrUnknownSensor, got %v", err)
	}
	if _, err := NISThreshold(Radar, 1); err == nil {
		t.Fatal("p=1 accepted")
	}
}

func TestNISConsistency(t *testing.T) {
	frac, err := NISConsistency([]float64{0.5, 1, 8, 2}, Radar, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	if frac != 0.25 {
		t.Fatalf("expected 1/4 above threshold, got %f", frac)
	}
	if _, err := NISConsistency(nil, Radar, 0.95); !errors.Is(err, ErrInvalidSequence) {
		t.Fatalf("expected ErrInvalidSequence, got %v", err)
	}
}
