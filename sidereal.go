package rdke

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// EpochLayout is the layout of the scenario start date, e.g. "2023-06-01 12:00:00 +0000".
	EpochLayout = "2006-01-02 15:04:05 -0700"
	// JDJ2000 is the Julian day of the J2000 epoch.
	JDJ2000 = 2451545.0
)

// J2000 is the reference epoch for absolute time bookkeeping.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// ParseEpoch parses a start date written with EpochLayout.
func ParseEpoch(s string) (time.Time, error) {
	t, err := time.Parse(EpochLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch %q: %v", ErrConfig, s, err)
	}
	return t.UTC(), nil
}

// J2000Seconds returns the seconds elapsed from J2000 to t.
func J2000Seconds(t time.Time) float64 {
	return t.Sub(J2000).Seconds()
}

// EpochFromJ2000Seconds returns the instant s seconds after J2000.
func EpochFromJ2000Seconds(s float64) time.Time {
	whole, frac := math.Modf(s)
	return J2000.Add(time.Duration(whole) * time.Second).Add(time.Duration(frac * float64(time.Second)))
}

// JulianDay returns the Julian day of t (UT).
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// GMST returns the Greenwich mean sidereal time in degrees, per the USNO approximation.
func GMST(t time.Time) float64 {
	D := JulianDay(t) - JDJ2000
	hours := math.Mod(18.697375+24.065709824279*D, 24)
	return wrap360(hours / 24 * 360)
}

// EquationOfEquinoxes returns the nutation in right ascension, in hours.
func EquationOfEquinoxes(t time.Time) float64 {
	D := JulianDay(t) - JDJ2000
	Ω := (125.04 - 0.052954*D) * deg2rad
	L := (280.47 + 0.98565*D) * deg2rad
	ε := (23.4393 - 0.0000004*D) * deg2rad
	Δψ := -0.000319*math.Sin(Ω) - 0.000024*math.Sin(2*L)
	return Δψ * math.Cos(ε)
}

// GAST returns the Greenwich apparent sidereal time in degrees within [0, 360).
func GAST(t time.Time) float64 {
	return wrap360(GMST(t) + EquationOfEquinoxes(t)/24*360)
}
