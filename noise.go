package ukf

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Noise allows to handle the process and sensor noise of the CTRV system.
type Noise interface {
	Process(k int) *mat.VecDense                   // Returns the process noise (νa, νψ̈) at step k
	Measurement(s SensorType, k int) *mat.VecDense // Returns the noise of sensor s at step k
	ProcessMatrix() mat.Symmetric                  // Returns the process noise matrix Q
	MeasurementMatrix(s SensorType) mat.Symmetric  // Returns the measurement noise matrix R of sensor s
	String() string                                // Stringer interface implementation
}

// Noiseless is noiseless and implements the Noise interface.
// The UKF uses it to hold its fixed Q and R matrices.
type Noiseless struct {
	Q, RLidar, RRadar mat.Symmetric
}

// NewNoiseless creates a new Noiseless from the provided Q and the R of each sensor.
func NewNoiseless(Q, RLidar, RRadar mat.Symmetric) *Noiseless {
	if Q == nil || RLidar == nil || RRadar == nil {
		panic("Q, RLidar and RRadar must be specified")
	}
	for _, m := range []struct {
		name string
		R    mat.Symmetric
		n    int
	}{{"Q", Q, nNoise}, {"RLidar", RLidar, Lidar.Dims()}, {"RRadar", RRadar, Radar.Dims()}} {
		if err := checkMatDims(m.R, Identity(m.n), m.name, "expected", rowsAndcols); err != nil {
			panic(err)
		}
	}
	return &Noiseless{Q, RLidar, RRadar}
}

// NoiselessFromConfig builds the noise matrices from the standard deviations of cfg.
func NoiselessFromConfig(cfg Config) *Noiseless {
	RLidar, _ := cfg.MeasurementMatrix(Lidar)
	RRadar, _ := cfg.MeasurementMatrix(Radar)
	return NewNoiseless(cfg.ProcessMatrix(), RLidar, RRadar)
}

// Process returns a zero vector of the correct size.
func (n Noiseless) Process(k int) *mat.VecDense {
	return mat.NewVecDense(nNoise, nil)
}

// Measurement returns a zero vector of the correct size.
func (n Noiseless) Measurement(s SensorType, k int) *mat.VecDense {
	return mat.NewVecDense(s.Dims(), nil)
}

// ProcessMatrix implements the Noise interface.
func (n Noiseless) ProcessMatrix() mat.Symmetric {
	return n.Q
}

// MeasurementMatrix implements the Noise interface. It returns nil for an unknown sensor.
func (n Noiseless) MeasurementMatrix(s SensorType) mat.Symmetric {
	switch s {
	case Lidar:
		return n.RLidar
	case Radar:
		return n.RRadar
	}
	return nil
}

// String implements the Stringer interface.
func (n Noiseless) String() string {
	return fmt.Sprintf("Noiseless{\nQ=%v\nRlidar=%v\nRradar=%v}\n", mat.Formatted(n.Q, mat.Prefix("  ")), mat.Formatted(n.RLidar, mat.Prefix("  ")), mat.Formatted(n.RRadar, mat.Prefix("  ")))
}

// AWGN implements the Noise interface and generates an Additive white Gaussian noise.
type AWGN struct {
	Noiseless
	process, lidar, radar *distmv.Normal
}

// NewAWGN creates new AWGN noise from the standard deviations of cfg.
// The same seed always yields the same sequence of samples.
func NewAWGN(cfg Config, seed uint64) (*AWGN, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	nl := NoiselessFromConfig(cfg)

	normal := func(name string, cov mat.Symmetric) (*distmv.Normal, error) {
		n := cov.SymmetricDim()
		dist, ok := distmv.NewNormal(make([]float64, n), cov, src)
		if !ok {
			return nil, fmt.Errorf("%s noise covariance is not positive definite", name)
		}
		return dist, nil
	}
	process, err := normal("process", nl.Q)
	if err != nil {
		return nil, err
	}
	lidar, err := normal("lidar", nl.RLidar)
	if err != nil {
		return nil, err
	}
	radar, err := normal("radar", nl.RRadar)
	if err != nil {
		return nil, err
	}
	return &AWGN{*nl, process, lidar, radar}, nil
}

// Process implements the Noise interface.
func (n AWGN) Process(k int) *mat.VecDense {
	r := n.process.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// Measurement implements the Noise interface.
func (n AWGN) Measurement(s SensorType, k int) *mat.VecDense {
	var dist *distmv.Normal
	switch s {
	case Lidar:
		dist = n.lidar
	case Radar:
		dist = n.radar
	default:
		panic(fmt.Errorf("no measurement noise defined for %s", s))
	}
	r := dist.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// String implements the Stringer interface.
func (n AWGN) String() string {
	return "AWGN" + n.Noiseless.String()
}
