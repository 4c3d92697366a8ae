package rdke

import (
	"fmt"
	"strings"
)

// Planet defines the central body as an oblate spheroid.
type Planet struct {
	Name          string
	SemiMajorAxis float64 // meters
	SemiMinorAxis float64 // meters
	GM            float64 // m^3/s^2, not used by the gravity force model
	Flattening    float64
	Omega         float64 // rotation rate, rad/s
	Atmosphere    *Atmosphere
}

// MeanRadius returns the mean of the semi-major and semi-minor axes.
func (p Planet) MeanRadius() float64 {
	return (p.SemiMajorAxis + p.SemiMinorAxis) / 2
}

// Altitude returns the height of r above the mean radius.
func (p Planet) Altitude(r float64) float64 {
	return r - p.MeanRadius()
}

// String implements the Stringer interface.
func (p Planet) String() string {
	return fmt.Sprintf("%s body (a=%.1fm b=%.1fm)", p.Name, p.SemiMajorAxis, p.SemiMinorAxis)
}

func (p Planet) validate() error {
	if p.SemiMajorAxis <= 0 || p.SemiMinorAxis <= 0 {
		return fmt.Errorf("%w: planet axes must be positive (a=%g, b=%g)", ErrInvalidParameter, p.SemiMajorAxis, p.SemiMinorAxis)
	}
	return nil
}

// PlanetFromString returns the built-in geometry of the named body. The atmosphere is left unset.
func PlanetFromString(name string) (Planet, error) {
	switch strings.ToLower(name) {
	case "earth":
		return Earth, nil
	default:
		return Planet{}, fmt.Errorf("undefined planet '%s'", name)
	}
}

// Earth is home (WGS84).
var Earth = Planet{
	Name:          "Earth",
	SemiMajorAxis: 6378137.0,
	SemiMinorAxis: 6356752.314245,
	GM:            3.986004418e14,
	Flattening:    1 / 298.257223563,
	Omega:         7.2921158553e-5,
}
