package rdke

import (
	"fmt"
	"math"
	"strings"
)

// DensityModel selects the density formula below the exospheric band.
type DensityModel uint8

const (
	// CIRA uses a 7th order fit of the CIRA reference atmosphere up to 180km, then the exospheric model.
	CIRA DensityModel = iota + 1
	// Isothermal uses an exponential atmosphere with a 7km scale height.
	Isothermal
)

func (m DensityModel) String() string {
	switch m {
	case CIRA:
		return "cira"
	case Isothermal:
		return "isothermal"
	default:
		return "unknown"
	}
}

// DensityModelFromString returns the model from its name.
func DensityModelFromString(name string) (DensityModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cira":
		return CIRA, nil
	case "isothermal":
		return Isothermal, nil
	default:
		return 0, fmt.Errorf("%w: unknown atmosphere model '%s'", ErrConfig, name)
	}
}

const (
	polyCeiling = 180e3 // meters
	exoCeiling  = 500e3 // meters
	// Mean free path table columns.
	mfpValueCol = 0
	mfpKeyCol   = 1
)

// ciraCoeffs are the coefficients of log10(density) as a polynomial of the altitude in km, lowest order first.
var ciraCoeffs = [8]float64{
	7.001985e-2,
	-4.336216e-3,
	-5.009831e-3,
	1.621827e-4,
	-2.471283e-6,
	1.904383e-8,
	-7.189421e-11,
	1.060067e-13,
}

// Atmosphere is the density and rarefaction model of a planet.
// Density, MeanFreePath and Kn are caches of the last update, not history.
type Atmosphere struct {
	Model        DensityModel
	F107         float64 // solar radio flux at 10.7cm, sfu
	Ap           float64 // geomagnetic index
	mfp          *LookupTable
	Density      float64 // kg/m^3
	MeanFreePath float64 // m
	Kn           float64
}

// NewAtmosphere returns an atmosphere using the provided mean free path table (keys in km, values in m).
func NewAtmosphere(model DensityModel, f107, ap float64, mfp *LookupTable) (*Atmosphere, error) {
	if mfp == nil {
		return nil, fmt.Errorf("%w: atmosphere requires a mean free path table", ErrInvalidParameter)
	}
	return &Atmosphere{Model: model, F107: f107, Ap: ap, mfp: mfp}, nil
}

// LoadMeanFreePathTable reads the mean free path CSV (column 0 mean free path in m, column 1 altitude in km).
func LoadMeanFreePathTable(path string) (*LookupTable, error) {
	return LoadLookupTableFile(path, mfpKeyCol, mfpValueCol)
}

// DensityAt returns the density at the provided altitude in meters.
func (a *Atmosphere) DensityAt(alt float64) float64 {
	if a.Model == Isothermal {
		return isothermalDensity(alt)
	}
	switch {
	case alt < polyCeiling:
		return ciraDensity(alt)
	case alt < exoCeiling:
		return exosphericDensity(alt, a.F107, a.Ap)
	default:
		return 0
	}
}

// MeanFreePathAt returns the tabulated mean free path at the provided altitude in meters.
func (a *Atmosphere) MeanFreePathAt(alt float64) float64 {
	return a.mfp.Value(alt / 1e3)
}

// UpdateDensity refreshes the cached density.
func (a *Atmosphere) UpdateDensity(alt float64) {
	a.Density = a.DensityAt(alt)
}

// UpdateMeanFreePathAndKn refreshes the cached mean free path and Knudsen number.
func (a *Atmosphere) UpdateMeanFreePathAndKn(alt, charLength float64) {
	a.MeanFreePath = a.MeanFreePathAt(alt)
	a.Kn = knudsen(a.MeanFreePath, charLength)
}

func knudsen(mfp, charLength float64) float64 {
	if isZero(charLength) {
		return math.Inf(1)
	}
	return mfp / charLength
}

func ciraDensity(alt float64) float64 {
	h := alt / 1e3
	p := 0.0
	for i := len(ciraCoeffs) - 1; i >= 0; i-- {
		p = p*h + ciraCoeffs[i]
	}
	return math.Pow(10, p)
}

func exosphericDensity(alt, f107, ap float64) float64 {
	h := alt / 1e3
	T := 900 + 2.5*(f107-70) + 1.5*ap
	if T == 0 {
		return 0
	}
	μ := 27 - 0.012*(h-200)
	return 6e-10 * math.Exp(-(h-175)*μ/T)
}

func isothermalDensity(alt float64) float64 {
	return 1.3 * math.Exp(-alt/7000)
}
