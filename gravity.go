package rdke

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

const (
	// G0 is the standard gravitational acceleration at the surface in m/s^2.
	G0 = 9.80665
	// minGravityRadius is the radius under which the gravity direction is undefined.
	minGravityRadius = 0.1
)

// GravityAcceleration returns the magnitude of the gravitational acceleration at r.
// It scales G0 with the inverse square of the distance to the center, anchored at the mean radius.
// It is zero closer than 0.1m to the center.
func GravityAcceleration(r md3.Vec, p Planet) float64 {
	R := p.MeanRadius()
	rn := md3.Norm(r)
	if rn < minGravityRadius {
		return 0
	}
	h := rn - R
	ratio := R / (R + h)
	return G0 * ratio * ratio
}

// GravityForce returns the gravity force on the vehicle described by x, pointing to the body center.
// A position closer than 0.1m to the center yields a zero force and ErrDegenerateGeometry.
func GravityForce(x StateVector, p Planet) (md3.Vec, error) {
	r := x.Position()
	if md3.Norm(r) < minGravityRadius {
		return md3.Vec{}, fmt.Errorf("%w: |r|=%g m in gravity model", ErrDegenerateGeometry, md3.Norm(r))
	}
	g := GravityAcceleration(r, p)
	return md3.Scale(-g*x[Mass], unit(r)), nil
}
