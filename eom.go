package rdke

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/md3"
)

// Stage holds the force model quantities evaluated at one derivative call.
// It is the only output of a derivative besides the derivative itself: stages never write to the Environment.
type Stage struct {
	Gravity      md3.Vec // N
	Aero         md3.Vec // N
	Density      float64
	MeanFreePath float64
	Kn           float64
	Regime       FlowRegime
	Err          error // non fatal conditions met in this evaluation
}

// Derivative returns dx/dt at x. Only the position and velocity derivatives are populated.
func Derivative(x StateVector, env *Environment) (xDot StateVector, s Stage) {
	var errs []error
	grav, err := GravityForce(x, env.Planet)
	if err != nil {
		errs = append(errs, err)
	}
	s.Gravity = grav
	total := grav
	if env.AtmosphereEnabled {
		s.aerodynamics(x, env)
		total = md3.Add(total, s.Aero)
	}

	xDot.SetPosition(x.Velocity())
	m := x[Mass]
	if m <= 0 {
		errs = append(errs, fmt.Errorf("%w: mass %g kg in equations of motion", ErrInvalidParameter, m))
	} else {
		acc := md3.Scale(1/m, total)
		if finite(acc.X, acc.Y, acc.Z) {
			xDot.SetVelocity(acc)
		} else {
			errs = append(errs, fmt.Errorf("%w: acceleration %v", ErrNumerical, acc))
		}
	}
	s.Err = errors.Join(errs...)
	return
}

// aerodynamics evaluates the atmosphere and the aerodynamic force at x.
func (s *Stage) aerodynamics(x StateVector, env *Environment) {
	atm := env.Planet.Atmosphere
	sc := env.Spacecraft
	alt := env.Planet.Altitude(md3.Norm(x.Position()))
	s.Density = atm.DensityAt(alt)
	s.MeanFreePath = atm.MeanFreePathAt(alt)
	s.Kn = knudsen(s.MeanFreePath, sc.CharLength)
	s.Aero, s.Regime = env.Aero.Force(x.Velocity(), s.Density, s.Kn, sc.Area)
}

// DerivativeFunc is the signature of the function integrated by RK4Step.
type DerivativeFunc func(x StateVector, env *Environment) (StateVector, Stage)
