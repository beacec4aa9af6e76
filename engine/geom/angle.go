package geom

import "math"

// NormalizeAngle wraps theta into [-π, π]. Non-finite input yields 0.
func NormalizeAngle(theta float64) float64 {
	if !isFinite(theta) {
		return 0
	}
	if theta >= -math.Pi && theta <= math.Pi {
		return theta
	}
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}

// ShortestAngle returns the signed smallest rotation taking from onto to
func ShortestAngle(from, to float64) float64 {
	return NormalizeAngle(to - from)
}
