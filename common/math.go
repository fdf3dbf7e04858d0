package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Direction returns v scaled to unit length, or the zero vector when v is too
// short to have a direction.
func Direction(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < epsilon {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// WrapAngle maps a into [-pi, pi).
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDiff is the unsigned angular distance between a and b in [0, pi].
func AngleDiff(a, b float64) float64 {
	return math.Abs(WrapAngle(a - b))
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// EaseBell rises from 0 to 1 at t=0.5 and falls back to 0 at t=1.
func EaseBell(t float64) float64 {
	return math.Sin(math.Pi * Clamp(t, 0, 1))
}
