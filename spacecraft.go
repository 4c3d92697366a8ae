package rdke

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

// Drag coefficient table columns.
const (
	cdValueCol = 0
	cdKeyCol   = 1
)

// Spacecraft defines the aerodynamic properties of the vehicle.
// AeroForce, Density, DragCoeff and BallisticCoeff hold the values of the last archived state.
type Spacecraft struct {
	Name           string
	Mass           float64 // initial mass, kg
	Area           float64 // effective aerodynamic area, m^2
	CharLength     float64 // characteristic length, m
	AeroForce      md3.Vec // N, inertial frame
	Density        float64 // kg/m^3
	DragCoeff      float64
	BallisticCoeff float64 // kg/m^2
	cdTable        *LookupTable
}

// NewSpacecraft returns a spacecraft after checking its parameters.
// cdTable may be nil.
func NewSpacecraft(name string, mass, area, charLength float64, cdTable *LookupTable) (*Spacecraft, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: spacecraft mass %g kg", ErrInvalidParameter, mass)
	}
	if area <= 0 {
		return nil, fmt.Errorf("%w: spacecraft area %g m^2", ErrInvalidParameter, area)
	}
	if charLength <= 0 {
		return nil, fmt.Errorf("%w: spacecraft characteristic length %g m", ErrInvalidParameter, charLength)
	}
	return &Spacecraft{Name: name, Mass: mass, Area: area, CharLength: charLength, cdTable: cdTable}, nil
}

// LoadDragCoefficientTable reads the Cd over Mach CSV (column 0 drag coefficient, column 1 Mach).
func LoadDragCoefficientTable(path string) (*LookupTable, error) {
	return LoadLookupTableFile(path, cdKeyCol, cdValueCol)
}

// DragCoefficientAtMach returns the tabulated drag coefficient, and false if no table is loaded.
func (sc *Spacecraft) DragCoefficientAtMach(mach float64) (float64, bool) {
	if sc.cdTable == nil {
		return 0, false
	}
	return sc.cdTable.Value(mach), true
}

// String implements the Stringer interface.
func (sc *Spacecraft) String() string {
	return fmt.Sprintf("%s (%.1fkg, %.2fm^2, L=%.2fm)", sc.Name, sc.Mass, sc.Area, sc.CharLength)
}
