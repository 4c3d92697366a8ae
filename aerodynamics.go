package rdke

import (
	"math"

	"github.com/soypat/geometry/md3"
)

const (
	// KnContinuum is the Knudsen number under which the flow is continuum.
	KnContinuum = 0.01
	// KnFreeMolecular is the Knudsen number from which the flow is free molecular.
	KnFreeMolecular = 10.0
)

// FlowRegime is the rarefaction regime of the flow around the vehicle.
type FlowRegime uint8

const (
	// Continuum flow (collisional).
	Continuum FlowRegime = iota
	// Transitional flow, bridged between both regimes.
	Transitional
	// FreeMolecular flow (collisionless).
	FreeMolecular
)

func (r FlowRegime) String() string {
	switch r {
	case Continuum:
		return "continuum"
	case Transitional:
		return "transitional"
	case FreeMolecular:
		return "free-molecular"
	default:
		return "unknown"
	}
}

// RegimeFromKn returns the regime for the Knudsen number kn.
func RegimeFromKn(kn float64) FlowRegime {
	switch {
	case kn < KnContinuum:
		return Continuum
	case kn < KnFreeMolecular:
		return Transitional
	default:
		return FreeMolecular
	}
}

// FlowModel computes the aerodynamic force in the inertial frame.
type FlowModel interface {
	Force(density, area float64, v md3.Vec) md3.Vec
}

// ContinuumFlow is the force model of the continuum regime.
type ContinuumFlow struct{}

// Force implements FlowModel.
// TODO: replace the quadratic drag with a Cd(Mach) based continuum law once the atmosphere provides a speed of sound.
func (ContinuumFlow) Force(density, area float64, v md3.Vec) md3.Vec {
	return quadraticDrag(density, area, v)
}

// FreeMolecularFlow is the Newtonian force model of the free molecular regime.
type FreeMolecularFlow struct{}

// Force implements FlowModel.
func (FreeMolecularFlow) Force(density, area float64, v md3.Vec) md3.Vec {
	return quadraticDrag(density, area, v)
}

// quadraticDrag returns ρ·A·|v|² opposite to v. No velocity, no force.
func quadraticDrag(density, area float64, v md3.Vec) md3.Vec {
	v2 := md3.Norm2(v)
	if isZero(v2) {
		return md3.Vec{}
	}
	return md3.Scale(-density*area*v2, unit(v))
}

// BridgingWeight returns the free molecular weight of the transitional bridging function.
func BridgingWeight(kn float64) float64 {
	s := math.Sin(math.Pi * (3./8 + math.Log10(kn)/8))
	return s * s
}

// Aerodynamics blends a continuum and a free molecular model by Knudsen number.
type Aerodynamics struct {
	Continuum     FlowModel
	FreeMolecular FlowModel
}

// DefaultAerodynamics returns the quadratic drag models for both regimes.
func DefaultAerodynamics() Aerodynamics {
	return Aerodynamics{Continuum: ContinuumFlow{}, FreeMolecular: FreeMolecularFlow{}}
}

// Force returns the aerodynamic force on a vehicle of reference area moving at v (inertial)
// through air of the provided density and Knudsen number.
func (a Aerodynamics) Force(v md3.Vec, density, kn, area float64) (md3.Vec, FlowRegime) {
	regime := RegimeFromKn(kn)
	switch regime {
	case Continuum:
		return a.Continuum.Force(density, area, v), regime
	case FreeMolecular:
		return a.FreeMolecular.Force(density, area, v), regime
	}
	pb := BridgingWeight(kn)
	fm := a.FreeMolecular.Force(density, area, v)
	ct := a.Continuum.Force(density, area, v)
	return md3.Add(md3.Scale(pb, fm), md3.Scale(1-pb, ct)), regime
}
