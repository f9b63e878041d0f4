package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Value is the closed sum of the two runtime value kinds: *Record and
// *Closure. Nothing else implements it.
type Value interface {
	value()
}

// Record is a mutable mapping from field name to Value. Records are
// reference-shared: every variable, stack slot or record field that
// holds one aliases the same underlying map, and field writes are seen
// through every alias. Fields may refer back to the record itself.
type Record struct {
	Fields map[string]Value
}

// NewRecord returns a fresh record with no fields.
func NewRecord() *Record {
	return &Record{Fields: make(map[string]Value)}
}

func (*Record) value() {}

// Closure bundles a shared, read-only child Code with a private snapshot
// of the free variables it captured, a private partial stack, and a
// resume position. Invocation never mutates the stored snapshot.
type Closure struct {
	Code  *Code
	Vars  Vars
	Stack Stack
	Pos   int
}

func (*Closure) value() {}

func (f *Closure) String() string {
	return fmt.Sprintf("[%s] (stack: %d, pos: %d)", f.Code.Text, len(f.Stack), f.Pos)
}

// Vars maps variable names to values. A Vars is exclusively owned by one
// execution frame at a time; closures copy it rather than alias it.
type Vars map[string]Value

// Copy returns a shallow copy: bindings are duplicated, the records and
// closures they point at are shared.
func (v Vars) Copy() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Stack is a last-in-first-out sequence of values, owned the same way as
// Vars.
type Stack []Value

// Copy returns a shallow copy of the stack.
func (s Stack) Copy() Stack {
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// boundNames returns the sorted names bound in v.
func boundNames(v Vars) []string {
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FormatValue renders a value for diagnostics and the driver's session
// dump. Records already being printed further up render as "{...}" so
// cyclic structures terminate.
func FormatValue(v Value) string {
	var sb strings.Builder
	formatValue(&sb, v, make(map[*Record]bool))
	return sb.String()
}

func formatValue(sb *strings.Builder, v Value, seen map[*Record]bool) {
	switch val := v.(type) {
	case *Record:
		if seen[val] {
			sb.WriteString("{...}")
			return
		}
		seen[val] = true
		sb.WriteByte('{')
		names := make([]string, 0, len(val.Fields))
		for k := range val.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		for i, k := range names {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			formatValue(sb, val.Fields[k], seen)
		}
		sb.WriteByte('}')
		delete(seen, val)
	case *Closure:
		sb.WriteString(val.String())
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}
