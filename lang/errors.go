package lang

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports a structural problem found while compiling source
// text. Offset is the zero-based character offset of the offending
// character; for an unterminated closure body it is the end of the text.
//
// Incomplete marks the one recoverable case: a '[' whose matching ']'
// was not found before the end of the text. A line-buffered caller may
// append more input and retry; every other syntax error is final.
type SyntaxError struct {
	Msg        string
	Text       string
	Offset     int
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (text=%q offset=%d)", e.Msg, e.Text, e.Offset)
}

// IsIncomplete reports whether err is a recoverable syntax error, i.e.
// the source ended inside an unterminated closure body.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Incomplete
}

// RunError reports a fatal runtime fault. It carries the code, variable
// bindings and stack at the moment of failure plus the position of the
// failing instruction, enough for a caller to render full diagnostics.
type RunError struct {
	Msg   string
	Code  *Code
	Vars  Vars
	Stack Stack
	Pos   int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s (text=%q srcOffset=%d pos=%d stack=%d vars=%s)",
		e.Msg, e.Code.Text, e.Code.SourceOffset(e.Pos), e.Pos, len(e.Stack),
		strings.Join(boundNames(e.Vars), ","))
}
