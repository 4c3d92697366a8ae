package rdke

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/floats/scalar"
)

// memArchive keeps the archived states in memory.
type memArchive struct {
	rows      []StateVector
	pending   int
	flushes   int
	failAfter int // fail the Append after that many rows, if positive
}

func (a *memArchive) Append(x StateVector) error {
	if a.failAfter > 0 && len(a.rows) >= a.failAfter {
		return fmt.Errorf("%w: disk full", ErrArchive)
	}
	a.rows = append(a.rows, x)
	a.pending++
	return nil
}

func (a *memArchive) Flush() error {
	a.pending = 0
	a.flushes++
	return nil
}

// flatConfig drops a vehicle from rest at the provided height above a body large enough to be flat.
func flatConfig(height, tEnd, dt float64) Config {
	return Config{
		TStart:          0,
		TEnd:            tEnd,
		Dt:              dt,
		PrintInterval:   1,
		ArchiveInterval: 5,
		FlushInterval:   20,
		StartState: StartState{
			Position: md3.Vec{Z: flatBody.MeanRadius() + height},
			Mass:     1000,
			Epoch:    time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		Planet:     flatBody,
		Spacecraft: SpacecraftConfig{Name: "drop", Area: 1, CharLength: 1},
	}
}

func newTestDKE(t *testing.T, conf Config, archive Archiver) *DKE {
	env, err := NewEnvironmentFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDKE(conf, env, archive, kitlog.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNumSteps(t *testing.T) {
	for _, tt := range []struct {
		tStart, tEnd, dt float64
		exp              uint64
	}{
		{0, 60, 1, 61},
		{0, 60, 7, 10},
		{0, 0.3, 0.1, 4},
		{10, 10, 1, 1},
		{0, 3000, 0.1, 30001},
	} {
		if n := NumSteps(tt.tStart, tt.tEnd, tt.dt); n != tt.exp {
			t.Fatalf("NumSteps(%f, %f, %f)=%d expected %d", tt.tStart, tt.tEnd, tt.dt, n, tt.exp)
		}
	}
}

func TestArchiveCadence(t *testing.T) {
	archive := &memArchive{}
	d := newTestDKE(t, flatConfig(1e6, 60, 1), archive)
	if d.State() != Initializing {
		t.Fatalf("state %s", d.State())
	}
	sum, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	if d.State() != Terminated || sum.Reason != EndTime {
		t.Fatalf("state %s reason %s", d.State(), sum.Reason)
	}
	if len(archive.rows) != 13 || sum.Rows != 13 {
		t.Fatalf("expected 13 rows, got %d (summary %d)", len(archive.rows), sum.Rows)
	}
	for i, row := range archive.rows {
		if row[SimTime] != float64(5*i) {
			t.Fatalf("row %d at t=%f expected %d", i, row[SimTime], 5*i)
		}
	}
	if sum.Steps != 60 || sum.SimDuration != 60 {
		t.Fatalf("steps %d duration %f", sum.Steps, sum.SimDuration)
	}
	// Flushed at 20, 40 and 60 s, then once more on exit.
	if archive.flushes != 4 || archive.pending != 0 {
		t.Fatalf("flushes %d pending %d", archive.flushes, archive.pending)
	}
	if v := testutil.ToFloat64(d.Metrics.Rows); v != 13 {
		t.Fatalf("rows metric %f", v)
	}
	if v := testutil.ToFloat64(d.Metrics.Steps); v != 60 {
		t.Fatalf("steps metric %f", v)
	}
	if _, err := d.Run(); err == nil {
		t.Fatal("a driver only runs once")
	}
}

func TestFreeFall(t *testing.T) {
	const h = 1000.0
	conf := flatConfig(h, 30, 0.001)
	conf.ArchiveInterval = 1
	conf.FlushInterval = 5
	archive := &memArchive{}
	d := newTestDKE(t, conf, archive)
	sum, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Reason != Impact {
		t.Fatalf("expected an impact, got %s", sum.Reason)
	}
	exp := math.Sqrt(2 * h / G0)
	if !scalar.EqualWithinAbs(sum.Final[SimTime], exp, 2e-3) {
		t.Fatalf("impact at %fs, expected %fs", sum.Final[SimTime], exp)
	}
	if sum.Final[AltitudePCPF] >= 0 || sum.Final[AltitudePCPF] < -0.2 {
		t.Fatalf("final altitude %f", sum.Final[AltitudePCPF])
	}
	// v = g·t at impact, and the acceleration is the finite difference of v.
	if !scalar.EqualWithinRel(-sum.Final[VelZ], G0*sum.Final[SimTime], 1e-4) {
		t.Fatalf("impact velocity %f", sum.Final[VelZ])
	}
	if !scalar.EqualWithinRel(sum.Final[AccZ], -G0, 1e-4) {
		t.Fatalf("impact acceleration %f", sum.Final[AccZ])
	}
	last := archive.rows[len(archive.rows)-1]
	if last != sum.Final {
		t.Fatal("the impact state must be archived")
	}
	if len(archive.rows) != 16 || archive.pending != 0 {
		t.Fatalf("rows %d pending %d", len(archive.rows), archive.pending)
	}
}

func TestRunArchiveFailure(t *testing.T) {
	archive := &memArchive{failAfter: 3}
	d := newTestDKE(t, flatConfig(1e6, 60, 1), archive)
	sum, err := d.Run()
	if !errors.Is(err, ErrArchive) {
		t.Fatalf("expected ErrArchive, got %v", err)
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 15 || simErr.Time != 15 {
		t.Fatalf("unexpected error %v", err)
	}
	if sum.Reason != Failure || d.State() != Terminated {
		t.Fatalf("reason %s state %s", sum.Reason, d.State())
	}
	if archive.pending != 0 {
		t.Fatal("the archive must be flushed on failure")
	}
}

func TestRunWithAtmosphere(t *testing.T) {
	c, err := LoadConfig("scenarios/reentry.toml")
	if err != nil {
		t.Fatal(err)
	}
	c.TEnd = 120
	c.Dt = 1
	c.ArchiveInterval = 10
	c.Archive.Path = filepath.Join(t.TempDir(), "out.csv")
	env, err := NewEnvironmentFromConfig(c)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := CreateCSVArchive(c.Archive)
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	d, err := NewDKE(c, env, archive, kitlog.NewLogfmtLogger(&logs))
	if err != nil {
		t.Fatal(err)
	}
	sum, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	if err := archive.Close(); err != nil {
		t.Fatal(err)
	}
	if sum.Reason != EndTime || sum.Warnings != 0 {
		t.Fatalf("reason %s warnings %d", sum.Reason, sum.Warnings)
	}
	final := sum.Final
	if final[AtmosDensity] <= 0 || final[DragCoefficient] <= 0 || final[BallisticCoefficient] <= 0 {
		t.Fatalf("no drag at %fm: density %g Cd %f BC %f", final[AltitudePCPF], final[AtmosDensity], final[DragCoefficient], final[BallisticCoefficient])
	}
	// Drag opposes the motion.
	if F, v := final.AeroForce(), final.Velocity(); F.X*v.X+F.Y*v.Y+F.Z*v.Z >= 0 {
		t.Fatalf("aero force %+v along velocity %+v", final.AeroForce(), final.Velocity())
	}
	data, err := os.ReadFile(c.Archive.Path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 14 {
		t.Fatalf("expected a header and 13 rows, got %d lines", lines)
	}
	if !strings.Contains(logs.String(), "status=finished") {
		t.Fatalf("no summary logged:\n%s", logs.String())
	}
	if v := testutil.ToFloat64(d.Metrics.Regime.WithLabelValues(Transitional.String())) + testutil.ToFloat64(d.Metrics.Regime.WithLabelValues(FreeMolecular.String())); v != 120 {
		t.Fatalf("regime counts %f", v)
	}
	path := filepath.Join(t.TempDir(), "dke.prom")
	if err := d.Metrics.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	if prom, _ := os.ReadFile(path); !strings.Contains(string(prom), "dke_steps_total 120") {
		t.Fatalf("unexpected textfile:\n%s", prom)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 1.5, Err: ErrNumerical}
	if !errors.Is(err, ErrNumerical) || !strings.Contains(err.Error(), "step 3") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDriverMatchesRK4Step(t *testing.T) {
	conf := flatConfig(1e4, 3, 0.5)
	d := newTestDKE(t, conf, &memArchive{})
	sum, err := d.Run()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Steps != 6 {
		t.Fatalf("steps %d", sum.Steps)
	}
	env, err := NewEnvironmentFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	x := conf.StartVector()
	for i := 0; i < 6; i++ {
		x, _ = RK4Step(x, Derivative, conf.Dt, env)
	}
	for _, f := range []Field{PosX, PosY, PosZ, VelX, VelY, VelZ} {
		if !scalar.EqualWithinAbs(sum.Final[f], x[f], 1e-9) {
			t.Fatalf("%s: driver %f step by step %f", f, sum.Final[f], x[f])
		}
	}
	if d.GetState()[PosZ] != sum.Final[PosZ] {
		t.Fatal("integrator state differs from the final state")
	}
	if !d.Stop(conf.TEnd) {
		t.Fatal("a terminated driver must stop the integrator")
	}
}
