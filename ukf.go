package ukf

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// UKF defines an unscented Kalman filter of the constant turn rate and velocity (CTRV)
// state (px, py, v, ψ, ψ̇) which fuses lidar and radar measurements. Use NewUKF to initialize.
//
// A UKF tracks one object and is not safe for concurrent use.
type UKF struct {
	id     string
	cfg    Config
	noise  *Noiseless
	logger log.FieldLogger

	initialized bool
	predicted   bool  // Xsig holds the sigma points of the last Predict, not yet consumed by Update
	timeUs      int64 // Timestamp of the last processed measurement

	x         *mat.VecDense // Belief mean
	P         *mat.SymDense // Belief covariance
	predCovar *mat.SymDense // Covariance after the last Predict
	Xsig      *mat.Dense    // Predicted sigma points (nX x nSig)
	weights   []float64
}

// NewUKF returns a new uninitialized UKF.
// The first measurement given to ProcessMeasurement seeds the state.
func NewUKF(cfg Config) (*UKF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kf := &UKF{id: uuid.NewString(), cfg: cfg, noise: NoiselessFromConfig(cfg)}
	kf.SetLogger(logger)
	kf.Reset()
	return kf, nil
}

func (kf *UKF) String() string {
	return fmt.Sprintf("UKF [%s] t=%dµs\nx=%v\nP=%v\n%s", kf.id, kf.timeUs, mat.Formatted(kf.x.T(), mat.Prefix("  ")), mat.Formatted(kf.P, mat.Prefix("  ")), kf.noise)
}

// SetLogger sets the logger of this filter. Every entry carries the filter ID.
func (kf *UKF) SetLogger(l log.FieldLogger) {
	if l == nil {
		l = log.StandardLogger()
	}
	kf.logger = l.WithField("filter", kf.id)
}

// ID returns the unique identifier of this filter.
func (kf *UKF) ID() string {
	return kf.id
}

// Config returns the configuration the filter was built with.
func (kf *UKF) Config() Config {
	return kf.cfg
}

// GetNoise returns the fixed process and measurement noise matrices.
func (kf *UKF) GetNoise() Noise {
	return kf.noise
}

// Initialized returns whether the first measurement has been processed.
func (kf *UKF) Initialized() bool {
	return kf.initialized
}

// Timestamp returns the timestamp (µs) of the last processed measurement.
func (kf *UKF) Timestamp() int64 {
	return kf.timeUs
}

// State returns a copy of the belief mean.
func (kf *UKF) State() *mat.VecDense {
	return mat.VecDenseCopyOf(kf.x)
}

// Covariance returns a copy of the belief covariance.
func (kf *UKF) Covariance() *mat.SymDense {
	P := mat.NewSymDense(nX, nil)
	P.CopySym(kf.P)
	return P
}

// PredictedSigmaPoints returns a copy of the sigma points of the last prediction.
// It is all zeros until the first Predict.
func (kf *UKF) PredictedSigmaPoints() *mat.Dense {
	return mat.DenseCopyOf(kf.Xsig)
}

// Weights returns a copy of the sigma point weights, nil before initialization.
func (kf *UKF) Weights() []float64 {
	if kf.weights == nil {
		return nil
	}
	return append([]float64(nil), kf.weights...)
}

// Reset returns the filter to its uninitialized state.
func (kf *UKF) Reset() {
	kf.initialized = false
	kf.predicted = false
	kf.timeUs = 0
	kf.x = mat.NewVecDense(nX, nil)
	kf.P = mat.NewSymDense(nX, nil)
	kf.predCovar = mat.NewSymDense(nX, nil)
	kf.Xsig = mat.NewDense(nX, nSig, nil)
	kf.weights = nil
}

// belief is a snapshot of everything ProcessMeasurement may replace.
// Predict and Update never write into these matrices, they swap in new ones.
type belief struct {
	predicted    bool
	timeUs       int64
	x            *mat.VecDense
	P, predCovar *mat.SymDense
	Xsig         *mat.Dense
}

func (kf *UKF) save() belief {
	return belief{kf.predicted, kf.timeUs, kf.x, kf.P, kf.predCovar, kf.Xsig}
}

func (kf *UKF) restore(b belief) {
	kf.predicted, kf.timeUs = b.predicted, b.timeUs
	kf.x, kf.P, kf.predCovar, kf.Xsig = b.x, b.P, b.predCovar, b.Xsig
}

// ProcessMeasurement runs one step of the filter.
// The first measurement only seeds the state. Every following one predicts over the
// elapsed time and, if its sensor is enabled, corrects with the measurement.
// Measurements must arrive in non-decreasing timestamp order. On error the belief is
// left as it was before the call.
func (kf *UKF) ProcessMeasurement(m Measurement) (Estimate, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !kf.initialized {
		return kf.initialize(m), nil
	}

	entry := kf.logger.WithFields(log.Fields{"sensor": m.Sensor, "timestamp": m.Timestamp})
	Δt := float64(m.Timestamp-kf.timeUs) / 1e6
	if Δt <= 0 {
		entry.WithField("dt", Δt).Warn("non-increasing measurement timestamp")
	}

	prev := kf.save()
	if err := kf.Predict(Δt); err != nil {
		kf.restore(prev)
		return nil, err
	}
	kf.timeUs = m.Timestamp

	if !kf.cfg.Enabled(m.Sensor) {
		entry.Debug("sensor disabled, prediction only")
		return kf.predictionEstimate(m), nil
	}

	est, err := kf.Update(m)
	if err != nil {
		kf.restore(prev)
		return nil, err
	}
	entry.WithFields(log.Fields{"dt": Δt, "nis": est.NIS()}).Debug("measurement processed")
	return est, nil
}

// initialize seeds the belief from the first measurement.
func (kf *UKF) initialize(m Measurement) Estimate {
	var px, py, v float64
	switch m.Sensor {
	case Radar:
		ρ, φ, ρdot := m.Values.AtVec(0), m.Values.AtVec(1), m.Values.AtVec(2)
		sinφ, cosφ := math.Sincos(φ)
		px, py = ρ*cosφ, ρ*sinφ
		v = math.Hypot(ρdot*cosφ, ρdot*sinφ)
	case Lidar:
		px, py = m.Values.AtVec(0), m.Values.AtVec(1)
	}
	if math.Abs(px) < epsilon && math.Abs(py) < epsilon {
		px, py = epsilon, epsilon
	}

	kf.x = mat.NewVecDense(nX, []float64{px, py, v, 0, 0})
	kf.P = Identity(nX)
	kf.weights = sigmaWeights()
	kf.timeUs = m.Timestamp
	kf.initialized = true

	kf.logger.WithFields(log.Fields{"sensor": m.Sensor, "timestamp": m.Timestamp}).Debug("filter initialized")
	return UKFEstimate{
		sensor:     m.Sensor,
		timestamp:  m.Timestamp,
		state:      kf.State(),
		meas:       mat.VecDenseCopyOf(m.Values),
		innovation: mat.NewVecDense(m.Sensor.Dims(), nil),
		covar:      kf.Covariance(),
		predCovar:  kf.Covariance(),
	}
}

// predictionEstimate describes the belief right after a prediction without correction.
func (kf *UKF) predictionEstimate(m Measurement) Estimate {
	return UKFEstimate{
		sensor:     m.Sensor,
		timestamp:  m.Timestamp,
		state:      kf.State(),
		meas:       mat.NewVecDense(m.Sensor.Dims(), nil),
		innovation: mat.NewVecDense(m.Sensor.Dims(), nil),
		covar:      kf.Covariance(),
		predCovar:  kf.Covariance(),
	}
}

// Predict advances the belief by Δt seconds through the CTRV model using the
// unscented transform of the augmented state.
func (kf *UKF) Predict(Δt float64) error {
	if !kf.initialized {
		return ErrNotInitialized
	}

	xAug, PAug := augment(kf.x, kf.P, kf.noise.ProcessMatrix())
	Xaug, err := generateSigmaPoints(xAug, PAug)
	if err != nil {
		kf.logger.WithError(err).Error("could not generate sigma points")
		return fmt.Errorf("predict Δt=%fs: %w", Δt, err)
	}

	Xsig := mat.NewDense(nX, nSig, nil)
	for i := 0; i < nSig; i++ {
		Xsig.SetCol(i, ctrv(Xaug.ColView(i), Δt))
	}

	x := unscentedMean(Xsig, kf.weights, iYaw)
	P := unscentedCovariance(Xsig, x, kf.weights, iYaw)
	if !isFinite(x) || !isFinite(P) {
		kf.logger.WithField("dt", Δt).Error("predicted belief is not finite")
		return fmt.Errorf("predict Δt=%fs: predicted belief is not finite", Δt)
	}

	kf.Xsig, kf.x, kf.P, kf.predCovar = Xsig, x, P, P
	kf.predicted = true
	return nil
}

// Update corrects the predicted belief with the measurement m, using the observation
// model of its sensor. It must follow a Predict and consumes its sigma points.
// Update does not check whether the sensor is enabled: ProcessMeasurement does.
func (kf *UKF) Update(m Measurement) (Estimate, error) {
	if !kf.initialized {
		return nil, ErrNotInitialized
	}
	if !kf.predicted {
		return nil, ErrNoPrediction
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	model, err := modelFor(m.Sensor)
	if err != nil {
		return nil, err
	}
	R := kf.noise.MeasurementMatrix(m.Sensor)
	if err := checkMatDims(m.Values, R, "z", "R", rows2cols); err != nil {
		return nil, err
	}

	est, err := kf.correct(model, m, R)
	if err != nil {
		kf.logger.WithError(err).WithField("sensor", m.Sensor).Error("could not correct belief")
		return nil, err
	}
	return est, nil
}

// correct is the measurement update shared by both sensors.
func (kf *UKF) correct(model observationModel, m Measurement, R mat.Symmetric) (UKFEstimate, error) {
	angle := model.angle()

	// Sigma points in measurement space, predicted measurement and its covariance.
	Zsig := observeSigmaPoints(model, kf.Xsig)
	zPred := unscentedMean(Zsig, kf.weights, angle)
	S := unscentedCovariance(Zsig, zPred, kf.weights, angle)
	S.AddSym(S, R)

	Tc := crossCovariance(kf.Xsig, kf.x, iYaw, Zsig, zPred, angle, kf.weights)

	var Sinv mat.Dense
	if err := Sinv.Inverse(S); err != nil {
		return UKFEstimate{}, fmt.Errorf("%s update: %w: %v", model.sensor(), ErrSingularInnovation, err)
	}
	var K mat.Dense
	K.Mul(Tc, &Sinv)

	y := mat.NewVecDense(m.Values.Len(), nil)
	residual(y, m.Values, zPred, angle)

	var Ky mat.VecDense
	Ky.MulVec(&K, y)
	x := mat.NewVecDense(nX, nil)
	x.AddVec(kf.x, &Ky)

	var KS, KSKt, Pd mat.Dense
	KS.Mul(&K, S)
	KSKt.Mul(&KS, K.T())
	Pd.Sub(kf.P, &KSKt)
	P, err := AsSymDense(&Pd)
	if err != nil {
		return UKFEstimate{}, err
	}

	var Siy mat.VecDense
	Siy.MulVec(&Sinv, y)
	nis := mat.Dot(y, &Siy)

	if !isFinite(x) || !isFinite(P) {
		return UKFEstimate{}, fmt.Errorf("%s update: corrected belief is not finite", model.sensor())
	}

	kf.x, kf.P = x, P
	kf.predicted = false

	return UKFEstimate{
		sensor:     m.Sensor,
		timestamp:  m.Timestamp,
		state:      kf.State(),
		meas:       zPred,
		innovation: y,
		covar:      kf.Covariance(),
		predCovar:  kf.predCovar,
		gain:       &K,
		nis:        nis,
	}, nil
}
