package ukf

import "math"

// NormalizeAngle maps ψ into (-π, π] by repeated ±2π shifts.
// It is the only wraparound routine of the filter and is used for the predicted state
// covariance, the innovation covariance, the cross covariance and the innovation itself.
func NormalizeAngle(ψ float64) float64 {
	if math.IsNaN(ψ) || math.IsInf(ψ, 0) {
		return ψ
	}
	if math.Abs(ψ) > 64*math.Pi {
		ψ = math.Mod(ψ, 2*math.Pi)
	}
	for ψ > math.Pi {
		ψ -= 2 * math.Pi
	}
	for ψ <= -math.Pi {
		ψ += 2 * math.Pi
	}
	return ψ
}
