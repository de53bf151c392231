package ukf

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMCRuns(t *testing.T) {
	sc := Scenario{
		X0:    mat.NewVecDense(5, []float64{2, 1, 3, 0.2, 0.1}),
		Steps: 10,
		DtUs:  50000,
	}
	runs, err := NewMonteCarloRuns(5, sc, DefaultConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs.Runs) != 5 {
		t.Fatal("requesting 5 runs did not generate five")
	}
	for r, run := range runs.Runs {
		if len(run.Estimates) != 10 || len(run.Samples) != 10 {
			t.Fatalf("sample #%d does not have 10 steps", r)
		}
	}
	// Every run has its own noise.
	if mat.Equal(runs.Runs[0].Samples[3].Measurement.Values, runs.Runs[1].Samples[3].Measurement.Values) {
		t.Fatal("two runs share the same measurements")
	}

	files := runs.AsCSV([]string{"px", "py", "v", "yaw", "yawd"})
	if len(files) != 5 {
		t.Fatal("less than 5 files returned from a five component state")
	}
	lines := strings.Split(files[0], "\n")
	if len(lines) != 11 {
		t.Fatalf("unexpected number of lines in the file: %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "px-4,px-mean,px-stddev") {
		t.Fatalf("unexpected header %q", lines[0])
	}

	mean, dev := runs.Mean(9), runs.StdDev(9)
	if len(mean) != 5 || len(dev) != 5 {
		t.Fatal("mean or stddev of wrong size")
	}
	for i, d := range dev {
		if d < 0 {
			t.Fatalf("negative stddev for component %d", i)
		}
	}

	rmse, err := runs.MeanRMSE()
	if err != nil {
		t.Fatal(err)
	}
	if rmse.Len() != 4 || IsNil(rmse) {
		t.Fatalf("unexpected RMSE %v", mat.Formatted(rmse.T()))
	}

	// 10 alternating steps, the first one initializes: 4 lidar and 5 radar updates per run.
	if n := len(runs.NIS(Lidar)); n != 20 {
		t.Fatalf("expected 20 lidar NIS, got %d", n)
	}
	if n := len(runs.NIS(Radar)); n != 25 {
		t.Fatalf("expected 25 radar NIS, got %d", n)
	}
	frac, err := NISConsistency(runs.NIS(Radar), Radar, 0.95)
	if err != nil || frac < 0 || frac > 1 {
		t.Fatalf("unexpected NIS consistency %f (%v)", frac, err)
	}
}

func TestMCRunsErrors(t *testing.T) {
	sc := Scenario{X0: mat.NewVecDense(5, nil), Steps: 2, DtUs: 1}
	if _, err := NewMonteCarloRuns(0, sc, DefaultConfig(), 1); err == nil {
		t.Fatal("zero samples accepted")
	}
	sc.Steps = 0
	if _, err := NewMonteCarloRuns(1, sc, DefaultConfig(), 1); err == nil {
		t.Fatal("invalid scenario accepted")
	}
	bad := DefaultConfig()
	bad.StdA = -1
	sc.Steps = 2
	if _, err := NewMonteCarloRuns(1, sc, bad, 1); err == nil {
		t.Fatal("invalid configuration accepted")
	}
}
