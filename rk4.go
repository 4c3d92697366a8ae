package rdke

import (
	"errors"
	"fmt"

	"github.com/ChristopherRabotin/ode"
)

// evaluator adapts a DerivativeFunc to the ode integrators. It keeps the Stage of the first
// evaluation of a step, with the errors of every evaluation of that step.
type evaluator struct {
	f     DerivativeFunc
	env   *Environment
	stage Stage
	evals int
}

func (e *evaluator) eval(s []float64) []float64 {
	var x StateVector
	copy(x[:], s)
	xDot, stage := e.f(x, e.env)
	if e.evals == 0 {
		e.stage = stage
	} else if stage.Err != nil {
		e.stage.Err = errors.Join(e.stage.Err, stage.Err)
	}
	e.evals++
	return xDot[:]
}

// next returns the Stage of the step which just ended and prepares for the next one.
func (e *evaluator) next() Stage {
	s := e.stage
	e.stage, e.evals = Stage{}, 0
	return s
}

// stateSlice returns a copy of x for the integrator.
func stateSlice(x StateVector) []float64 {
	s := make([]float64, NumFields)
	copy(s, x[:])
	return s
}

// singleStep is an ode.Integrable which stops after one step.
type singleStep struct {
	evaluator
	x    StateVector
	done bool
}

func (s *singleStep) GetState() []float64 { return stateSlice(s.x) }

func (s *singleStep) SetState(t float64, st []float64) {
	copy(s.x[:], st)
	s.done = true
}

func (s *singleStep) Stop(t float64) bool { return s.done }

func (s *singleStep) Func(t float64, st []float64) []float64 { return s.eval(st) }

// RK4Step propagates x by dt with the classical fourth order Runge-Kutta method.
// The returned Stage is the one evaluated at x, with the errors of all four stages.
func RK4Step(x StateVector, f DerivativeFunc, dt float64, env *Environment) (StateVector, Stage) {
	if !(dt > 0) {
		return x, Stage{Err: fmt.Errorf("%w: step size %g s", ErrInvalidParameter, dt)}
	}
	s := &singleStep{evaluator: evaluator{f: f, env: env}, x: x}
	ode.NewRK4(0, dt, s).Solve()
	return s.x, s.next()
}
