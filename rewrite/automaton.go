package rewrite

// ElementaryCellularAutomaton updates every cell of a binary tape
// simultaneously from its own value and its two neighbors, using the
// 8-entry truth table encoded by the rule number. The tape is circular:
// the first and last cells are neighbors. An automaton never halts.
type ElementaryCellularAutomaton struct {
	rule uint8
}

// NewElementaryCellularAutomaton builds an automaton for a Wolfram rule
// number.
func NewElementaryCellularAutomaton(rule uint8) *ElementaryCellularAutomaton {
	return &ElementaryCellularAutomaton{rule: rule}
}

// Start begins a run on a binary tape. maxSteps bounds the run; 0 means
// unbounded.
func (a *ElementaryCellularAutomaton) Start(tape string, maxSteps int) (*Run, error) {
	if err := checkBinary("tape", tape); err != nil {
		return nil, err
	}
	return newRun(tape, maxSteps, a.stepTape), nil
}

func (a *ElementaryCellularAutomaton) stepTape(tape string) (string, error) {
	n := len(tape)
	if n == 0 {
		return tape, nil
	}
	cell := func(i int) uint8 {
		if tape[(i+n)%n] == '1' {
			return 1
		}
		return 0
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		idx := cell(i-1)<<2 | cell(i)<<1 | cell(i+1)
		if a.rule&(1<<idx) != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out), nil
}

// Pad surrounds a tape with n zero cells on each side, giving a pattern
// room to grow before it wraps around the circular boundary.
func Pad(tape string, n int) string {
	zeros := make([]byte, n)
	for i := range zeros {
		zeros[i] = '0'
	}
	return string(zeros) + tape + string(zeros)
}
