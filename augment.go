package rdke

import (
	"github.com/soypat/geometry/md3"
)

// AugmentSolve fills the cheap derived fields of x1 after every integration step from x0:
// simulation time, epoch, finite difference acceleration and a first-pass altitude.
func AugmentSolve(env *Environment, x1 *StateVector, x0 StateVector) {
	dt := env.Dt()
	x1[SimTime] = env.SimTime()
	x1[EpochJ2000] = x0[EpochJ2000] + dt
	if isZero(dt) {
		x1.SetAcceleration(md3.Vec{})
	} else {
		x1.SetAcceleration(md3.Scale(1/dt, md3.Sub(x1.Velocity(), x0.Velocity())))
	}
	x1[AltitudePCPF] = env.Planet.Altitude(md3.Norm(x1.Position()))
}

// AugmentWrite fills the derived fields of x1 which are only needed when archiving.
// It refreshes the atmosphere and spacecraft caches at x1 first, so it gives the same result
// when called twice on the same state. Degenerate geometry is returned after every other field is set.
func AugmentWrite(env *Environment, x1 *StateVector, x0 StateVector) error {
	sc := env.Spacecraft
	pos := x1.Position()
	vel := x1.Velocity()
	refreshCaches(env, *x1)

	θgast := GAST(EpochFromJ2000Seconds(x1[EpochJ2000]))
	x1[GASTAngle] = θgast
	lat, long, radius, err := Cartesian2LLR(PCI2PCPF(pos, θgast))
	x1[LatitudePCPF] = lat
	x1[LongitudePCPF] = long
	x1[AltitudePCPF] = env.Planet.Altitude(radius)
	x1[GravityAcc] = GravityAcceleration(pos, env.Planet)

	v := md3.Norm(vel)
	x1[VelocityMagnitude] = v
	x1[AtmosDensity] = sc.Density
	x1.SetAeroForce(sc.AeroForce)

	// Drag and ballistic coefficients.
	sc.DragCoeff, sc.BallisticCoeff = 0, 0
	if q := sc.Density * v * v * sc.Area; !isZero(q) {
		sc.DragCoeff = 2 * md3.Norm(sc.AeroForce) / q
	}
	if cdA := sc.DragCoeff * sc.Area; !isZero(cdA) {
		sc.BallisticCoeff = x1[Mass] / cdA
	}
	x1[DragCoefficient] = sc.DragCoeff
	x1[BallisticCoefficient] = sc.BallisticCoeff
	return err
}

// refreshCaches evaluates the atmosphere and the aerodynamic force at x and stores them in the environment.
func refreshCaches(env *Environment, x StateVector) {
	sc := env.Spacecraft
	if !env.AtmosphereEnabled {
		sc.AeroForce, sc.Density = md3.Vec{}, 0
		return
	}
	atm := env.Planet.Atmosphere
	alt := env.Planet.Altitude(md3.Norm(x.Position()))
	atm.UpdateDensity(alt)
	atm.UpdateMeanFreePathAndKn(alt, sc.CharLength)
	sc.Density = atm.Density
	sc.AeroForce, _ = env.Aero.Force(x.Velocity(), atm.Density, atm.Kn, sc.Area)
}
