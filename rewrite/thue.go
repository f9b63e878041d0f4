package rewrite

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Rule is one semi-Thue rewriting rule: every occurrence of From in the
// tape is replaced by To.
type Rule struct {
	From string
	To   string
}

// SemiThueSystem rewrites tapes by whole-tape string replacement. Each
// step applies the first rule whose From occurs in the tape, or a
// uniformly random matching rule when Random is set. The system halts
// when no rule matches.
type SemiThueSystem struct {
	rules  []Rule
	random bool
}

// NewSemiThueSystem builds a semi-Thue system over an ordered rule
// list.
func NewSemiThueSystem(rules []Rule, random bool) (*SemiThueSystem, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rewrite: semi-Thue system has no rules")
	}
	return &SemiThueSystem{rules: rules, random: random}, nil
}

// Start begins a run on tape. maxSteps bounds the run; 0 means
// unbounded.
func (s *SemiThueSystem) Start(tape string, maxSteps int) (*Run, error) {
	return newRun(tape, maxSteps, s.stepTape), nil
}

func (s *SemiThueSystem) stepTape(tape string) (string, error) {
	if s.random {
		var matching []Rule
		for _, r := range s.rules {
			if strings.Contains(tape, r.From) {
				matching = append(matching, r)
			}
		}
		if len(matching) == 0 {
			return "", ErrHalted
		}
		r := matching[rand.IntN(len(matching))]
		return strings.ReplaceAll(tape, r.From, r.To), nil
	}

	for _, r := range s.rules {
		if strings.Contains(tape, r.From) {
			return strings.ReplaceAll(tape, r.From, r.To), nil
		}
	}
	return "", ErrHalted
}
