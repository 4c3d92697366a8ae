package rdke

import (
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/mat"
)

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a vector.
func MxV33(m mat.Matrix, v md3.Vec) md3.Vec {
	var r mat.VecDense
	r.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return md3.Vec{X: r.AtVec(0), Y: r.AtVec(1), Z: r.AtVec(2)}
}

// PCI2PCPF converts an inertial vector to the body-fixed frame for the sidereal angle θgast in degrees.
func PCI2PCPF(R md3.Vec, θgast float64) md3.Vec {
	return MxV33(R3(θgast*deg2rad), R)
}

// PCPF2PCI converts a body-fixed vector to the inertial frame for the sidereal angle θgast in degrees.
func PCPF2PCI(R md3.Vec, θgast float64) md3.Vec {
	return PCI2PCPF(R, -θgast)
}

// Cartesian2LLR returns the geocentric latitude and longitude (degrees) and radius of R.
// Longitude is within (-180, 180].
func Cartesian2LLR(R md3.Vec) (lat, long, radius float64, err error) {
	radius = md3.Norm(R)
	if isZero(radius) {
		return 0, 0, 0, fmt.Errorf("%w: zero radius in lat/long conversion", ErrDegenerateGeometry)
	}
	lat = rad2deg(math.Asin(math.Max(-1, math.Min(1, R.Z/radius))))
	long = rad2deg(math.Atan2(R.Y, R.X))
	return
}
