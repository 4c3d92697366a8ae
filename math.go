package rdke

import (
	"math"

	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	deg2rad = math.Pi / 180
	// zeroTol is the absolute tolerance under which a norm is treated as zero.
	zeroTol = 1e-12
)

// unit returns the unit vector of a given vector, or the zero vector if it has no direction.
func unit(a md3.Vec) md3.Vec {
	n := md3.Norm(a)
	if scalar.EqualWithinAbs(n, 0, zeroTol) {
		return md3.Vec{}
	}
	return md3.Scale(1/n, a)
}

// isZero reports whether v is within zeroTol of zero.
func isZero(v float64) bool {
	return scalar.EqualWithinAbs(v, 0, zeroTol)
}

// finite reports whether every component of v is a real number.
func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// rad2deg converts an angle from radians to degrees, keeping its sign.
func rad2deg(a float64) float64 {
	return a / deg2rad
}

// wrap360 maps an angle in degrees to [0, 360).
func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// lerp linearly interpolates between (x0, y0) and (x1, y1) at x.
func lerp(x, x0, y0, x1, y1 float64) float64 {
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
