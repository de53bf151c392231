package ukf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Config holds the noise model and sensor switches of a UKF.
// It is copied into the filter at construction and never mutated afterwards.
type Config struct {
	// Process noise
	StdA     float64 `json:"std_a"`     // Longitudinal acceleration (m/s²)
	StdYawdd float64 `json:"std_yawdd"` // Yaw acceleration (rad/s²)

	// Lidar measurement noise
	StdLaserPx float64 `json:"std_laspx"` // Position x (m)
	StdLaserPy float64 `json:"std_laspy"` // Position y (m)

	// Radar measurement noise
	StdRadarR   float64 `json:"std_radr"`   // Range (m)
	StdRadarPhi float64 `json:"std_radphi"` // Bearing (rad)
	StdRadarRd  float64 `json:"std_radrd"`  // Range rate (m/s)

	// If false, measurements of that sensor are skipped (prediction still happens).
	UseLaser bool `json:"use_laser"`
	UseRadar bool `json:"use_radar"`
}

// DefaultConfig returns the noise parameters tuned for the bicycle data sets.
func DefaultConfig() Config {
	return Config{
		StdA:        1.5,
		StdYawdd:    0.57,
		StdLaserPx:  0.15,
		StdLaserPy:  0.15,
		StdRadarR:   0.3,
		StdRadarPhi: 0.03,
		StdRadarRd:  0.3,
		UseLaser:    true,
		UseRadar:    true,
	}
}

// LoadConfig loads a Config from a JSON file.
// Fields omitted from the file keep their DefaultConfig values, so partial files are safe.
func LoadConfig(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every standard deviation is finite and strictly positive.
// The sensor switches are independent: with both off the filter only predicts.
func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"std_a", c.StdA},
		{"std_yawdd", c.StdYawdd},
		{"std_laspx", c.StdLaserPx},
		{"std_laspy", c.StdLaserPy},
		{"std_radr", c.StdRadarR},
		{"std_radphi", c.StdRadarPhi},
		{"std_radrd", c.StdRadarRd},
	} {
		if math.IsNaN(p.val) || math.IsInf(p.val, 0) || p.val <= 0 {
			return fmt.Errorf("%w: %s must be finite and positive, got %v", ErrInvalidConfig, p.name, p.val)
		}
	}
	return nil
}

// Enabled returns whether measurements of the given sensor are used for updates.
func (c Config) Enabled(s SensorType) bool {
	switch s {
	case Lidar:
		return c.UseLaser
	case Radar:
		return c.UseRadar
	}
	return false
}

// ProcessMatrix returns diag(σa², σψ̈²), the covariance of the two augmented noise components.
func (c Config) ProcessMatrix() *mat.SymDense {
	return mat.NewSymDense(nNoise, []float64{
		c.StdA * c.StdA, 0,
		0, c.StdYawdd * c.StdYawdd,
	})
}

// MeasurementMatrix returns the diagonal measurement noise covariance R of the given sensor.
func (c Config) MeasurementMatrix(s SensorType) (*mat.SymDense, error) {
	var stds []float64
	switch s {
	case Lidar:
		stds = []float64{c.StdLaserPx, c.StdLaserPy}
	case Radar:
		stds = []float64{c.StdRadarR, c.StdRadarPhi, c.StdRadarRd}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSensor, s)
	}
	R := mat.NewSymDense(len(stds), nil)
	for i, σ := range stds {
		R.SetSym(i, i, σ*σ)
	}
	return R, nil
}
