package rdke

import (
	"fmt"
	"io"
	"time"

	"github.com/soypat/geometry/md3"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config is a scenario: simulation window, cadences, initial state and physical models.
type Config struct {
	TStart, TEnd, Dt float64 // seconds
	PrintInterval    float64 // seconds
	ArchiveInterval  float64 // seconds
	FlushInterval    float64 // seconds
	Archive          ArchiveConfig
	MetricsPath      string // Prometheus textfile, empty to disable
	StartState       StartState
	Planet           Planet
	Atmosphere       AtmosphereConfig
	Spacecraft       SpacecraftConfig
}

// StartState is the initial state of the vehicle.
type StartState struct {
	Position md3.Vec // m, inertial
	Velocity md3.Vec // m/s, inertial
	Mass     float64 // kg
	Epoch    time.Time
}

// AtmosphereConfig configures the atmosphere model.
type AtmosphereConfig struct {
	Enabled           bool
	Model             DensityModel
	F107, Ap          float64
	MeanFreePathTable string
}

// SpacecraftConfig configures the vehicle.
type SpacecraftConfig struct {
	Name           string
	Area           float64 // m^2
	CharLength     float64 // m
	DragCoeffTable string
}

// LoadConfig reads the scenario file at path (any format viper supports, TOML is the default).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return configFromViper(v)
}

// ReadConfig reads a scenario of the provided format ("toml", "yaml", "json", "ini"...) from r.
func ReadConfig(r io.Reader, format string) (Config, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return configFromViper(v)
}

// confReader reads typed keys and keeps the first error.
type confReader struct {
	v   *viper.Viper
	err error
}

func (r *confReader) get(key string, required bool) (interface{}, bool) {
	if r.err != nil {
		return nil, false
	}
	if !r.v.IsSet(key) {
		if required {
			r.err = fmt.Errorf("%w: missing `%s`", ErrConfig, key)
		}
		return nil, false
	}
	return r.v.Get(key), true
}

func (r *confReader) float(key string) float64 {
	return r.floatOr(key, 0, true)
}

func (r *confReader) floatOr(key string, def float64, required bool) float64 {
	raw, ok := r.get(key, required)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: `%s`: %v", ErrConfig, key, err)
		return def
	}
	return f
}

func (r *confReader) boolOr(key string, def bool) bool {
	raw, ok := r.get(key, false)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: `%s`: %v", ErrConfig, key, err)
		return def
	}
	return b
}

func (r *confReader) stringOr(key string, def string, required bool) string {
	raw, ok := r.get(key, required)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: `%s`: %v", ErrConfig, key, err)
		return def
	}
	return s
}

func (r *confReader) vec(prefix, suffix string) md3.Vec {
	return md3.Vec{
		X: r.float(prefix + "_x_" + suffix),
		Y: r.float(prefix + "_y_" + suffix),
		Z: r.float(prefix + "_z_" + suffix),
	}
}

func configFromViper(v *viper.Viper) (Config, error) {
	r := &confReader{v: v}
	var c Config
	// Simulation window and cadences.
	c.TStart = r.float("sim.t_start_s")
	c.TEnd = r.float("sim.t_end_s")
	c.Dt = r.float("sim.dt_sim_s")
	c.PrintInterval = r.floatOr("print_setting.sim_print_interval_s", c.TEnd-c.TStart, false)
	c.ArchiveInterval = r.float("write_setting.sim_archive_interval_s")
	c.FlushInterval = r.float("write_setting.sim_archive_flush_interval_s")
	c.Archive.Path = r.stringOr("write_setting.output_path", DefaultArchivePath, false)
	c.Archive.Timestamp = r.boolOr("write_setting.timestamp", false)
	c.MetricsPath = r.stringOr("write_setting.metrics_path", "", false)

	// Initial state.
	c.StartState.Position = r.vec("start_state.pos_pci", "m")
	c.StartState.Velocity = r.vec("start_state.vel_pci", "m")
	c.StartState.Mass = r.float("start_state.sc_mass_start_kg")
	if epoch := r.stringOr("start_state.start_date_time", "", true); r.err == nil {
		c.StartState.Epoch, r.err = ParseEpoch(epoch)
	}

	// Planet: either a built-in body, or every geometric parameter. Explicit keys override the built-in ones.
	required := true
	if name := r.stringOr("planet.name", "", false); name != "" && r.err == nil {
		p, err := PlanetFromString(name)
		if err != nil {
			r.err = fmt.Errorf("%w: %v", ErrConfig, err)
		}
		c.Planet = p
		required = false
	}
	c.Planet.SemiMajorAxis = r.floatOr("planet.planet_semi_major_axis_m", c.Planet.SemiMajorAxis, required)
	c.Planet.SemiMinorAxis = r.floatOr("planet.planet_semi_minor_axis_m", c.Planet.SemiMinorAxis, required)
	c.Planet.GM = r.floatOr("planet.planet_gravitational_constant", c.Planet.GM, required)
	c.Planet.Flattening = r.floatOr("planet.planet_flattening_factor", c.Planet.Flattening, required)
	c.Planet.Omega = r.floatOr("planet.planet_omega_rads", c.Planet.Omega, required)
	if c.Planet.Name == "" {
		c.Planet.Name = "planet"
	}

	// Atmosphere.
	c.Atmosphere.Enabled = r.boolOr("atmosphere.enabled", false)
	if r.err == nil {
		c.Atmosphere.Model, r.err = DensityModelFromString(r.stringOr("atmosphere.model", "cira", false))
	}
	c.Atmosphere.F107 = r.floatOr("atmosphere.f107", 0, c.Atmosphere.Enabled)
	c.Atmosphere.Ap = r.floatOr("atmosphere.ap", 0, c.Atmosphere.Enabled)
	c.Atmosphere.MeanFreePathTable = r.stringOr("atmosphere.mean_free_path_table", "", c.Atmosphere.Enabled)

	// Spacecraft.
	c.Spacecraft.Name = r.stringOr("spacecraft.name", "spacecraft", false)
	c.Spacecraft.Area = r.float("spacecraft.aero_eff_area_mm")
	c.Spacecraft.CharLength = r.float("spacecraft.characteristic_length_m")
	c.Spacecraft.DragCoeffTable = r.stringOr("spacecraft.drag_coeff_table", "", false)

	if r.err != nil {
		return Config{}, r.err
	}
	return c, c.Validate()
}

// Validate checks the consistency of the scenario.
func (c Config) Validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("%w: step size must be positive, got %g s", ErrConfig, c.Dt)
	case c.TEnd < c.TStart:
		return fmt.Errorf("%w: end time %g s before start time %g s", ErrConfig, c.TEnd, c.TStart)
	case !(c.StartState.Mass > 0):
		return fmt.Errorf("%w: start mass must be positive, got %g kg", ErrConfig, c.StartState.Mass)
	case !(c.Spacecraft.Area > 0):
		return fmt.Errorf("%w: effective area must be positive, got %g m^2", ErrConfig, c.Spacecraft.Area)
	case !(c.Spacecraft.CharLength > 0):
		return fmt.Errorf("%w: characteristic length must be positive, got %g m", ErrConfig, c.Spacecraft.CharLength)
	case c.PrintInterval < 0 || !(c.ArchiveInterval > 0) || !(c.FlushInterval > 0):
		return fmt.Errorf("%w: print, archive and flush intervals must be positive", ErrConfig)
	case !(c.Planet.SemiMajorAxis > 0 && c.Planet.SemiMinorAxis > 0):
		return fmt.Errorf("%w: planet axes must be positive", ErrConfig)
	}
	return nil
}

// StartVector returns the state vector at the start of the simulation.
func (c Config) StartVector() StateVector {
	var x StateVector
	x[SimTime] = c.TStart
	x.SetPosition(c.StartState.Position)
	x.SetVelocity(c.StartState.Velocity)
	x[AttQW] = 1
	x[Mass] = c.StartState.Mass
	x[EpochJ2000] = J2000Seconds(c.StartState.Epoch)
	return x
}
