package ukf

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloRuns stores MC runs.
type MonteCarloRuns struct {
	runs, steps int
	Runs        []MonteCarloRun
}

// Mean returns the mean of all the samples for the given time step.
func (mc MonteCarloRuns) Mean(step int) (mean []float64) {
	states := mc.gather(step)
	means := make([]float64, len(states))
	for i := range states {
		means[i] = stat.Mean(states[i], nil)
	}
	return means
}

// StdDev returns the standard deviation of all the samples for the given time step.
func (mc MonteCarloRuns) StdDev(step int) (devs []float64) {
	states := mc.gather(step)
	devs = make([]float64, len(states))
	for i := range states {
		devs[i] = stat.StdDev(states[i], nil)
	}
	return devs
}

// gather returns, for each state component, its value in every run at step.
func (mc MonteCarloRuns) gather(step int) [][]float64 {
	states := make([][]float64, nX)
	for i := range states {
		states[i] = make([]float64, len(mc.Runs))
	}
	for r, run := range mc.Runs {
		state := run.Estimates[step].State()
		for i := 0; i < nX; i++ {
			states[i][r] = state.AtVec(i)
		}
	}
	return states
}

// MeanRMSE returns the (px, py, vx, vy) RMSE of each run averaged over all runs.
func (mc MonteCarloRuns) MeanRMSE() (*mat.VecDense, error) {
	perComponent := make([][]float64, 4)
	for i := range perComponent {
		perComponent[i] = make([]float64, len(mc.Runs))
	}
	for r, run := range mc.Runs {
		rmse, err := run.RMSE()
		if err != nil {
			return mat.NewVecDense(4, nil), fmt.Errorf("run %d: %w", r, err)
		}
		for i := 0; i < 4; i++ {
			perComponent[i][r] = rmse.AtVec(i)
		}
	}
	mean := mat.NewVecDense(4, nil)
	for i := range perComponent {
		mean.SetVec(i, stat.Mean(perComponent[i], nil))
	}
	return mean, nil
}

// NIS returns the NIS of every update by sensor s, across all runs.
func (mc MonteCarloRuns) NIS(s SensorType) []float64 {
	var nis []float64
	for _, run := range mc.Runs {
		// The first estimate of a run only initializes the filter.
		for _, est := range run.Estimates[1:] {
			if est.Sensor() == s {
				nis = append(nis, est.NIS())
			}
		}
	}
	return nis
}

// AsCSV is used as a CSV serializer. Does not include the header.
func (mc MonteCarloRuns) AsCSV(headers []string) []string {
	rtn := make([]string, nX)

	for i := 0; i < nX; i++ {
		header := headers[i]
		lines := make([]string, mc.steps+1) // One line per step, plus header.
		for rNo := 0; rNo < mc.runs; rNo++ {
			lines[0] += fmt.Sprintf("%s-%d,", header, rNo)
		}
		lines[0] += header + "-mean," + header + "-stddev"

		for k := 0; k < mc.steps; k++ {
			for _, run := range mc.Runs {
				lines[k+1] += fmt.Sprintf("%f,", run.Estimates[k].State().AtVec(i))
			}
			// All runs written, let's add the mean and stddev for this step.
			lines[k+1] += fmt.Sprintf("%f,%f", mc.Mean(k)[i], mc.StdDev(k)[i])
		}
		rtn[i] = strings.Join(lines, "\n")
	}
	return rtn
}

// NewMonteCarloRuns simulates the scenario as many times as requested, each time with a
// new AWGN seeded from seed and a new UKF built from cfg.
// The same noise standard deviations drive both the simulation and the filter.
func NewMonteCarloRuns(samples int, sc Scenario, cfg Config, seed uint64) (MonteCarloRuns, error) {
	if samples <= 0 {
		return MonteCarloRuns{}, fmt.Errorf("must run at least one sample, got %d", samples)
	}
	runs := make([]MonteCarloRun, samples)
	for sample := 0; sample < samples; sample++ {
		noise, err := NewAWGN(cfg, seed+uint64(sample))
		if err != nil {
			return MonteCarloRuns{}, err
		}
		data, err := Simulate(sc, noise)
		if err != nil {
			return MonteCarloRuns{}, err
		}
		kf, err := NewUKF(cfg)
		if err != nil {
			return MonteCarloRuns{}, err
		}

		MCRun := MonteCarloRun{Samples: data, Estimates: make([]Estimate, len(data))}
		for k, s := range data {
			est, err := kf.ProcessMeasurement(s.Measurement)
			if err != nil {
				return MonteCarloRuns{}, fmt.Errorf("sample %d step %d: %w", sample, k, err)
			}
			MCRun.Estimates[k] = est
		}
		runs[sample] = MCRun
		logger.WithFields(log.Fields{"sample": sample, "filter": kf.ID()}).Debug("monte carlo run done")
	}
	return MonteCarloRuns{samples, sc.Steps, runs}, nil
}

// MonteCarloRun stores the results of an MC run.
type MonteCarloRun struct {
	Samples   []Sample
	Estimates []Estimate
}

// RMSE returns the RMSE of this run against its simulated truth.
func (r MonteCarloRun) RMSE() (*mat.VecDense, error) {
	gt := NewGroundTruth()
	for k, est := range r.Estimates {
		if err := gt.Add(est, r.Samples[k].CartesianTruth()); err != nil {
			return mat.NewVecDense(4, nil), err
		}
	}
	return gt.RMSE()
}
