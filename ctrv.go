package ukf

import "math"

// State layout of the CTRV model.
const (
	iPx   = iota // Position x (m)
	iPy          // Position y (m)
	iV           // Speed magnitude (m/s)
	iYaw         // Heading ψ (rad), not normalized between steps
	iYawd        // Yaw rate ψ̇ (rad/s)
	iNuA         // Longitudinal acceleration noise νa (augmented only)
	iNuYawdd     // Yaw acceleration noise νψ̈ (augmented only)
)

const (
	nX     = 5           // State size
	nNoise = 2           // Process noise components
	nAug   = nX + nNoise // Augmented state size
	nSig   = 2*nAug + 1  // Number of sigma points
	lambda = 3 - nAug    // Spread parameter λ

	// epsilon guards the yaw rate branch, the range denominators and the initial position.
	epsilon = 0.001
)

// augmentedVector is the read view ctrv needs on an augmented sigma point.
type augmentedVector interface {
	AtVec(int) float64
	Len() int
}

// ctrv propagates one augmented sigma point (px, py, v, ψ, ψ̇, νa, νψ̈) through the
// constant turn rate and velocity model over Δt seconds and returns the 5-dim state.
// A 5-dim input is treated as noise free.
func ctrv(x augmentedVector, Δt float64) []float64 {
	px, py := x.AtVec(iPx), x.AtVec(iPy)
	v, ψ, ψdot := x.AtVec(iV), x.AtVec(iYaw), x.AtVec(iYawd)
	var νa, νψdd float64
	if x.Len() == nAug {
		νa, νψdd = x.AtVec(iNuA), x.AtVec(iNuYawdd)
	}

	sinψ, cosψ := math.Sincos(ψ)
	ψp := ψ + ψdot*Δt

	var pxp, pyp float64
	if math.Abs(ψdot) > epsilon {
		pxp = px + v/ψdot*(math.Sin(ψp)-sinψ)
		pyp = py + v/ψdot*(cosψ-math.Cos(ψp))
	} else {
		// Straight line, avoids the division by ψ̇.
		pxp = px + v*Δt*cosψ
		pyp = py + v*Δt*sinψ
	}

	Δt2 := Δt * Δt
	return []float64{
		pxp + 0.5*νa*Δt2*cosψ,
		pyp + 0.5*νa*Δt2*sinψ,
		v + νa*Δt,
		ψp + 0.5*νψdd*Δt2,
		ψdot + νψdd*Δt,
	}
}
