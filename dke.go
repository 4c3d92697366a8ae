package rdke

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/soypat/geometry/md3"
)

// DriverState is the state of the simulation driver.
type DriverState uint8

const (
	// Initializing until Run is called.
	Initializing DriverState = iota
	// Stepping while integrating.
	Stepping
	// Archiving while deriving and writing an archived state.
	Archiving
	// Terminated once the loop has exited and the archive is flushed.
	Terminated
)

func (s DriverState) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Stepping:
		return "stepping"
	case Archiving:
		return "archiving"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ExitReason tells why a run stopped.
type ExitReason uint8

const (
	// EndTime is reached.
	EndTime ExitReason = iota + 1
	// Impact means the altitude became negative.
	Impact
	// Failure means an I/O error stopped the run.
	Failure
)

func (r ExitReason) String() string {
	switch r {
	case EndTime:
		return "end time"
	case Impact:
		return "impact"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Summary describes a finished run.
type Summary struct {
	Reason      ExitReason
	Wall        time.Duration
	SimDuration float64 // seconds
	Steps       uint64  // integration steps
	Rows        uint64  // archived states
	Warnings    uint64
	Final       StateVector
}

// DKE is the dynamic kinematic environment: it owns the state and the environment and runs the propagation.
// It is an ode.Integrable.
type DKE struct {
	Metrics  *Metrics
	conf     Config
	env      *Environment
	archive  Archiver
	logger   kitlog.Logger
	state    DriverState
	x, xPrev StateVector
	numSteps uint64
	// Cadences in steps, and the counters since the last print, archive and flush.
	printEvery, archiveEvery, flushEvery uint64
	printCnt, writeCnt, flushCnt         uint64
	steps, rows, warnings                uint64
	eval                                 evaluator
	done                                 bool
	reason                               ExitReason
	runErr                               error
}

var _ ode.Integrable = (*DKE)(nil)

// NewDKE returns a driver ready to run the scenario. A nil logger discards the logs.
func NewDKE(conf Config, env *Environment, archive Archiver, logger kitlog.Logger) (*DKE, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if env == nil || archive == nil {
		return nil, fmt.Errorf("%w: driver requires an environment and an archive", ErrInvalidParameter)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	d := &DKE{
		Metrics:      NewMetrics(),
		eval:         evaluator{f: Derivative, env: env},
		conf:         conf,
		env:          env,
		archive:      archive,
		logger:       kitlog.With(logger, "subsys", "dke"),
		state:        Initializing,
		x:            conf.StartVector(),
		numSteps:     NumSteps(conf.TStart, conf.TEnd, conf.Dt),
		printEvery:   cadence(conf.PrintInterval, conf.Dt),
		archiveEvery: cadence(conf.ArchiveInterval, conf.Dt),
		flushEvery:   cadence(conf.FlushInterval, conf.Dt),
	}
	if conf.PrintInterval == 0 {
		d.printEvery = 0
	}
	env.SetSimTimes(conf.Dt, conf.TStart)
	d.x[AltitudePCPF] = env.Planet.Altitude(md3.Norm(d.x.Position()))
	d.xPrev = d.x
	return d, nil
}

// NumSteps returns the number of states of a run, the initial one included.
func NumSteps(tStart, tEnd, dt float64) uint64 {
	return uint64(math.Ceil((tEnd-tStart)/dt-1e-9)) + 1
}

// cadence converts an interval in seconds to a number of steps, at least one.
func cadence(interval, dt float64) uint64 {
	n := math.Round(interval / dt)
	if n < 1 {
		return 1
	}
	return uint64(n)
}

// State returns the state of the driver.
func (d *DKE) State() DriverState {
	return d.state
}

// StateVector returns a copy of the live state.
func (d *DKE) StateVector() StateVector {
	return d.x
}

// LogStatus logs the current state of the vehicle.
func (d *DKE) LogStatus() {
	d.logger.Log("level", "info", "t(s)", d.x[SimTime], "alt(m)", d.x[AltitudePCPF], "|v|(m/s)", md3.Norm(d.x.Velocity()), "state", d.state)
}

// Run propagates from the start to the end time, or until the altitude becomes negative.
// The archive is flushed before returning, on every path.
func (d *DKE) Run() (Summary, error) {
	if d.state != Initializing {
		return Summary{}, fmt.Errorf("%w: driver already ran", ErrInvalidParameter)
	}
	wallStart := time.Now()
	d.logger.Log("level", "notice", "status", "starting", "steps", d.numSteps, "dt(s)", d.conf.Dt, "vehicle", d.env.Spacecraft, "planet", d.env.Planet, "atmosphere", d.env.AtmosphereEnabled)
	d.LogStatus()

	d.state = Stepping
	d.reason = EndTime
	d.advance(0)
	ode.NewRK4(d.conf.TStart, d.conf.Dt, d).Solve() // Blocking.

	if err := d.flush(d.numSteps); err != nil && d.runErr == nil {
		d.runErr, d.reason = err, Failure
	}
	d.state = Terminated
	sum := Summary{
		Reason:      d.reason,
		Wall:        time.Since(wallStart),
		SimDuration: d.x[SimTime] - d.conf.TStart,
		Steps:       d.steps,
		Rows:        d.rows,
		Warnings:    d.warnings,
		Final:       d.x,
	}
	simDur := time.Duration(sum.SimDuration * float64(time.Second))
	durStr := simDur.String()
	if simDur.Hours() > 24 {
		durStr += fmt.Sprintf(" (~%.3fd)", simDur.Hours()/24)
	}
	d.logger.Log("level", "notice", "status", "finished", "reason", d.reason, "duration", durStr, "wall", sum.Wall, "steps", sum.Steps, "rows", sum.Rows, "warnings", sum.Warnings)
	d.LogStatus()
	return sum, d.runErr
}

// GetState implements the ode.Integrable interface.
func (d *DKE) GetState() []float64 {
	return stateSlice(d.x)
}

// Func implements the ode.Integrable interface.
func (d *DKE) Func(t float64, s []float64) []float64 {
	return d.eval.eval(s)
}

// Stop implements the ode.Integrable interface: the run stops after the last step, an impact or a failure.
func (d *DKE) Stop(t float64) bool {
	return d.done
}

// SetState implements the ode.Integrable interface. It stores the integrated state of the next step,
// derives its fields and archives it when due.
func (d *DKE) SetState(t float64, s []float64) {
	d.state = Stepping
	k := d.steps + 1
	d.env.SetSimTimes(d.conf.Dt, d.conf.TStart+float64(k)*d.conf.Dt)
	var next StateVector
	copy(next[:], s)
	AugmentSolve(d.env, &next, d.x)
	d.xPrev, d.x = d.x, next
	d.steps++
	d.printCnt++
	d.writeCnt++
	d.flushCnt++

	stage := d.eval.next()
	d.Metrics.Steps.Inc()
	d.Metrics.SimTime.Set(d.x[SimTime])
	d.Metrics.Altitude.Set(d.x[AltitudePCPF])
	if d.env.AtmosphereEnabled {
		d.Metrics.Regime.WithLabelValues(stage.Regime.String()).Inc()
	}
	if stage.Err != nil {
		d.warn(k, stage.Err)
	}
	d.advance(k)
}

// advance archives, flushes and logs step k when due, and decides whether the run is over.
func (d *DKE) advance(k uint64) {
	impact := d.x[AltitudePCPF] < 0
	last := impact || k >= d.numSteps-1

	if k == 0 || last || d.writeCnt >= d.archiveEvery {
		d.writeCnt = 0
		if err := d.write(k); err != nil {
			d.fail(err)
			return
		}
	}
	if d.flushCnt >= d.flushEvery {
		d.flushCnt = 0
		if err := d.flush(k); err != nil {
			d.fail(err)
			return
		}
	}
	if d.printEvery > 0 && d.printCnt >= d.printEvery {
		d.printCnt = 0
		d.LogStatus()
	}
	if impact {
		d.reason = Impact
		d.logger.Log("level", "critical", "status", "impact", "t(s)", d.x[SimTime], "alt(m)", d.x[AltitudePCPF], "lat(deg)", d.x[LatitudePCPF], "long(deg)", d.x[LongitudePCPF])
	}
	d.done = last
}

func (d *DKE) fail(err error) {
	d.runErr, d.reason = err, Failure
	d.done = true
}

// write derives the archived fields of the live state and appends it to the archive.
func (d *DKE) write(k uint64) error {
	d.state = Archiving
	if err := AugmentWrite(d.env, &d.x, d.xPrev); err != nil {
		d.warn(k, err)
	}
	if err := d.archive.Append(d.x); err != nil {
		return &SimulationError{Step: k, Time: d.x[SimTime], Err: err}
	}
	d.rows++
	d.Metrics.Rows.Inc()
	return nil
}

func (d *DKE) flush(k uint64) error {
	if err := d.archive.Flush(); err != nil {
		return &SimulationError{Step: k, Time: d.x[SimTime], Err: err}
	}
	d.Metrics.Flushes.Inc()
	return nil
}

// warn logs a recovered model condition. The run continues.
func (d *DKE) warn(k uint64, err error) {
	d.warnings++
	kind := "other"
	switch {
	case errors.Is(err, ErrDegenerateGeometry):
		kind = "degenerate_geometry"
	case errors.Is(err, ErrNumerical):
		kind = "numerical"
	case errors.Is(err, ErrInvalidParameter):
		kind = "invalid_parameter"
	}
	d.Metrics.Warnings.WithLabelValues(kind).Inc()
	d.logger.Log("level", "critical", "step", k, "t(s)", d.x[SimTime], "kind", kind, "err", err)
}
