package rewrite

import "fmt"

// TagSystem is an m-tag system: each step reads the head symbol,
// removes the first m symbols and appends the head's production. The
// system halts when the tape is shorter than m or when the head is the
// halting symbol.
type TagSystem struct {
	deletion    int
	productions map[string]string
	halting     string
}

// NewTagSystem builds a tag system with deletion number m. Symbols are
// single characters; every symbol used in a production body must have a
// production of its own, except the halting symbol. The halting symbol
// is optional.
func NewTagSystem(m int, productions map[string]string, halting string) (*TagSystem, error) {
	if len(productions) == 0 {
		return nil, fmt.Errorf("rewrite: tag system has no productions")
	}
	if len(halting) > 1 {
		return nil, fmt.Errorf("rewrite: halting symbol %q is longer than one character", halting)
	}
	for sym := range productions {
		if len(sym) != 1 {
			return nil, fmt.Errorf("rewrite: production symbol %q is not a single character", sym)
		}
	}
	for _, body := range productions {
		for i := 0; i < len(body); i++ {
			sym := body[i : i+1]
			if sym == halting {
				continue
			}
			if _, ok := productions[sym]; !ok {
				return nil, fmt.Errorf("rewrite: missing production for symbol %q", sym)
			}
		}
	}
	return &TagSystem{deletion: m, productions: productions, halting: halting}, nil
}

// Start begins a run on tape. Every tape symbol must have a production.
// maxSteps bounds the run; 0 means unbounded.
func (s *TagSystem) Start(tape string, maxSteps int) (*Run, error) {
	for i := 0; i < len(tape); i++ {
		if _, ok := s.productions[tape[i:i+1]]; !ok {
			return nil, fmt.Errorf("rewrite: tape contains symbol %q without a production", string(tape[i]))
		}
	}
	return newRun(tape, maxSteps, s.stepTape), nil
}

func (s *TagSystem) stepTape(tape string) (string, error) {
	if len(tape) < s.deletion {
		return "", ErrHalted
	}
	head := tape[:1]
	if s.halting != "" && head == s.halting {
		return "", ErrHalted
	}
	production, ok := s.productions[head]
	if !ok {
		return "", fmt.Errorf("rewrite: no production for symbol %q", head)
	}
	return tape[s.deletion:] + production, nil
}

// CyclicTagSystem rewrites binary tapes against a fixed cycle of
// productions: each step pops the head cell and, when it is '1',
// appends the current production; the production index advances every
// step regardless. The system halts on an empty tape.
type CyclicTagSystem struct {
	productions []string
}

// NewCyclicTagSystem builds a cyclic tag system. Productions are words
// over '0' and '1'.
func NewCyclicTagSystem(productions []string) (*CyclicTagSystem, error) {
	if len(productions) == 0 {
		return nil, fmt.Errorf("rewrite: cyclic tag system has no productions")
	}
	for _, p := range productions {
		if err := checkBinary("production", p); err != nil {
			return nil, err
		}
	}
	return &CyclicTagSystem{productions: productions}, nil
}

// Start begins a run on a binary tape. maxSteps bounds the run; 0 means
// unbounded.
func (s *CyclicTagSystem) Start(tape string, maxSteps int) (*Run, error) {
	if err := checkBinary("tape", tape); err != nil {
		return nil, err
	}
	i := 0
	step := func(tape string) (string, error) {
		if tape == "" {
			return "", ErrHalted
		}
		head := tape[0]
		rest := tape[1:]
		if head == '1' {
			rest += s.productions[i]
		}
		i = (i + 1) % len(s.productions)
		return rest, nil
	}
	return newRun(tape, maxSteps, step), nil
}
