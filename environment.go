package rdke

import (
	"fmt"
)

// Environment aggregates everything the force models need: the planet, the vehicle and the clock.
type Environment struct {
	Planet     Planet
	Spacecraft *Spacecraft
	Aero       Aerodynamics
	// AtmosphereEnabled adds the aerodynamic force to the equations of motion.
	AtmosphereEnabled bool
	dt, simTime       float64
}

// NewEnvironment builds the environment. The planet must carry an atmosphere when enabled is set.
func NewEnvironment(p Planet, sc *Spacecraft, enabled bool) (*Environment, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("%w: no spacecraft", ErrInvalidParameter)
	}
	if enabled && p.Atmosphere == nil {
		return nil, fmt.Errorf("%w: atmosphere enabled but %s has none", ErrInvalidParameter, p.Name)
	}
	return &Environment{Planet: p, Spacecraft: sc, Aero: DefaultAerodynamics(), AtmosphereEnabled: enabled}, nil
}

// NewEnvironmentFromConfig loads the tables referenced by the scenario and builds the environment.
func NewEnvironmentFromConfig(c Config) (*Environment, error) {
	p := c.Planet
	if c.Atmosphere.Enabled || c.Atmosphere.MeanFreePathTable != "" {
		mfp, err := LoadMeanFreePathTable(c.Atmosphere.MeanFreePathTable)
		if err != nil {
			return nil, fmt.Errorf("mean free path table: %w", err)
		}
		atm, err := NewAtmosphere(c.Atmosphere.Model, c.Atmosphere.F107, c.Atmosphere.Ap, mfp)
		if err != nil {
			return nil, err
		}
		p.Atmosphere = atm
	}
	var cd *LookupTable
	if c.Spacecraft.DragCoeffTable != "" {
		var err error
		if cd, err = LoadDragCoefficientTable(c.Spacecraft.DragCoeffTable); err != nil {
			return nil, fmt.Errorf("drag coefficient table: %w", err)
		}
	}
	sc, err := NewSpacecraft(c.Spacecraft.Name, c.StartState.Mass, c.Spacecraft.Area, c.Spacecraft.CharLength, cd)
	if err != nil {
		return nil, err
	}
	return NewEnvironment(p, sc, c.Atmosphere.Enabled)
}

// SetSimTimes sets the step size and the current simulation time.
func (e *Environment) SetSimTimes(dt, t float64) {
	e.dt = dt
	e.simTime = t
}

// Dt returns the current step size in seconds.
func (e *Environment) Dt() float64 {
	return e.dt
}

// SimTime returns the current simulation time in seconds.
func (e *Environment) SimTime() float64 {
	return e.simTime
}
