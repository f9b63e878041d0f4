// Package rewrite implements small string-rewriting machines: tag
// systems, cyclic tag systems, semi-Thue systems and elementary
// cellular automata, with a shared lazy run protocol and terminal
// renderers for tape evolutions.
package rewrite

import (
	"errors"
	"fmt"
)

// ErrHalted reports that a run reached its system's halting condition.
var ErrHalted = errors.New("rewrite: halted")

// ErrBudget reports that a run performed its maximum number of steps
// without halting.
var ErrBudget = errors.New("rewrite: step budget exceeded")

// DefaultMaxSteps is the conventional step budget for a run.
const DefaultMaxSteps = 100

type stepFunc func(tape string) (string, error)

// Run is a lazy sequence of tapes. The first Next returns the initial
// tape unchanged; every following Next performs one rewriting step.
// Once Next returns an error the run is exhausted.
type Run struct {
	tape    string
	started bool
	steps   int
	max     int
	step    stepFunc
}

func newRun(tape string, maxSteps int, step stepFunc) *Run {
	return &Run{tape: tape, max: maxSteps, step: step}
}

// Next returns the next tape. It returns ErrHalted when the system
// halts and an ErrBudget-wrapping error when the step budget runs out.
func (r *Run) Next() (string, error) {
	if !r.started {
		r.started = true
		return r.tape, nil
	}
	if r.max > 0 && r.steps >= r.max {
		return "", fmt.Errorf("%w: %d", ErrBudget, r.max)
	}
	next, err := r.step(r.tape)
	if err != nil {
		return "", err
	}
	r.steps++
	r.tape = next
	return next, nil
}

// Steps returns the number of rewriting steps performed so far.
func (r *Run) Steps() int { return r.steps }

// Collect drains the run and returns every tape it produced, the
// initial one included. A halt is the normal outcome and is not
// reported as an error; running out of budget is.
func (r *Run) Collect() ([]string, error) {
	var tapes []string
	for {
		tape, err := r.Next()
		if errors.Is(err, ErrHalted) {
			return tapes, nil
		}
		if err != nil {
			return tapes, err
		}
		tapes = append(tapes, tape)
	}
}

// Take returns up to n tapes from the run. It stops early without error
// if the system halts first.
func (r *Run) Take(n int) ([]string, error) {
	tapes := make([]string, 0, n)
	for len(tapes) < n {
		tape, err := r.Next()
		if errors.Is(err, ErrHalted) {
			return tapes, nil
		}
		if err != nil {
			return tapes, err
		}
		tapes = append(tapes, tape)
	}
	return tapes, nil
}

// checkBinary validates that s consists only of '0' and '1' cells.
func checkBinary(what, s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return fmt.Errorf("rewrite: %s contains %q, want only '0' and '1'", what, string(s[i]))
		}
	}
	return nil
}
