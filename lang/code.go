package lang

import (
	"fmt"
	"sync"
)

// isNameByte reports whether b belongs to the identifier alphabet.
func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

// Code is an immutable compiled artifact: a flat instruction stream, a
// label table, the child codes of nested closure bodies, and a map from
// stream position back to the source offset the instruction came from.
//
// The assigned- and free-variable sets are pure functions of the stream
// and the children; they are computed on first use and cached.
type Code struct {
	Text     string
	Instrs   []Instr
	Labels   map[string]int
	Children []*Code

	srcOffsets map[int]int // stream position -> source offset

	assignedOnce sync.Once
	assigned     map[string]struct{}
	freeOnce     sync.Once
	free         map[string]struct{}
}

// Compile scans source text left to right and produces a Code, or fails
// with a *SyntaxError on the first structural problem.
//
// Space, newline and the grouping characters ( ) { } ; are skipped. '#'
// starts a line comment. A bare identifier character compiles to a name
// reference; '*' '!' '^' '/' '?' are standalone opcodes; '.' '@' ':' '='
// and '=.' are prefix operators taking one identifier character. '[' and
// ']' delimit a nested closure body which is compiled recursively into a
// child Code.
func Compile(text string) (*Code, error) {
	c := &Code{
		Text:       text,
		Labels:     make(map[string]int),
		srcOffsets: make(map[int]int),
	}

	emit := func(start int, slots ...Instr) {
		for _, in := range slots {
			c.srcOffsets[len(c.Instrs)] = start
			c.Instrs = append(c.Instrs, in)
		}
	}

	i := 0
	n := len(text)
	for i < n {
		start := i
		b := text[i]
		switch {
		case b == ' ' || b == '\n' || b == '(' || b == ')' || b == '{' || b == '}' || b == ';':
			i++

		case b == '#':
			for i < n && text[i] != '\n' {
				i++
			}

		case b == '*':
			emit(start, Instr{Op: OpNewRecord})
			i++
		case b == '!':
			emit(start, Instr{Op: OpApply})
			i++
		case b == '^':
			emit(start, Instr{Op: OpDrop})
			i++
		case b == '/':
			emit(start, Instr{Op: OpSkipEQ})
			i++
		case b == '?':
			emit(start, Instr{Op: OpSkipNE})
			i++

		case isNameByte(b):
			emit(start, nameSlot(text[i:i+1]))
			i++

		case b == '.' || b == '@':
			i++
			if i >= n || !isNameByte(text[i]) {
				return nil, syntaxErrorAt(fmt.Sprintf("expected a name after %q", string(b)), text, i)
			}
			op := OpFieldGet
			if b == '@' {
				op = OpJump
			}
			emit(start, Instr{Op: op}, nameSlot(text[i:i+1]))
			i++

		case b == ':':
			i++
			if i >= n || !isNameByte(text[i]) {
				return nil, syntaxErrorAt(`expected a name after ":"`, text, i)
			}
			name := text[i : i+1]
			if _, dup := c.Labels[name]; dup {
				return nil, syntaxErrorAt(fmt.Sprintf("duplicate label: %q", name), text, i)
			}
			c.Labels[name] = len(c.Instrs)
			i++

		case b == '=':
			i++
			if i < n && text[i] == '.' {
				i++
				if i >= n || !isNameByte(text[i]) {
					return nil, syntaxErrorAt(`expected a name after "=."`, text, i)
				}
				emit(start, Instr{Op: OpFieldSet}, nameSlot(text[i:i+1]))
				i++
			} else {
				if i >= n || !isNameByte(text[i]) {
					return nil, syntaxErrorAt(`expected a name after "="`, text, i)
				}
				emit(start, Instr{Op: OpBind}, nameSlot(text[i:i+1]))
				i++
			}

		case b == '[':
			bodyStart := i + 1
			depth := 1
			j := i + 1
			for depth > 0 {
				if j >= n {
					return nil, &SyntaxError{
						Msg:        "missing terminating ']'",
						Text:       text,
						Offset:     n,
						Incomplete: true,
					}
				}
				switch text[j] {
				case '[':
					depth++
				case ']':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			child, err := Compile(text[bodyStart:j])
			if err != nil {
				return nil, err
			}
			emit(start, Instr{Op: OpClosure}, childSlot(len(c.Children)))
			c.Children = append(c.Children, child)
			i = j + 1

		default:
			return nil, syntaxErrorAt(fmt.Sprintf("unknown instruction: %q", string(b)), text, start)
		}
	}

	return c, nil
}

func syntaxErrorAt(msg, text string, offset int) error {
	return &SyntaxError{Msg: msg, Text: text, Offset: offset}
}

// SourceOffset maps a stream position back to the source offset of the
// instruction that produced it. Positions at or past the end of the
// stream map to the end of the text.
func (c *Code) SourceOffset(pos int) int {
	if pos >= len(c.Instrs) {
		return len(c.Text)
	}
	return c.srcOffsets[pos]
}

// AssignedVars returns the set of names targeted by a bind or a
// field-write anywhere in this code's own stream (children excluded).
func (c *Code) AssignedVars() map[string]struct{} {
	c.assignedOnce.Do(func() {
		c.assigned = make(map[string]struct{})
		for pos := 0; pos < len(c.Instrs); pos++ {
			op := c.Instrs[pos].Op
			if op == OpBind || op == OpFieldSet {
				if pos+1 < len(c.Instrs) {
					c.assigned[c.Instrs[pos+1].Name] = struct{}{}
				}
			}
			if op.Operand() != OperandNone {
				pos++ // operand slot is not an instruction of its own
			}
		}
	})
	return c.assigned
}

// FreeVars returns the names this code reads without assigning,
// including the free variables of its children. A name assigned locally
// shadows the same name in a child's free set only if the child itself
// does not assign it; each child subtracts its own assigned names first.
func (c *Code) FreeVars() map[string]struct{} {
	c.freeOnce.Do(func() {
		c.free = make(map[string]struct{})
		for pos := 0; pos < len(c.Instrs); pos++ {
			in := c.Instrs[pos]
			if in.Op == OpName {
				c.free[in.Name] = struct{}{}
			}
			if in.Op.Operand() != OperandNone {
				pos++ // skip operand: field, label and bind names are not reads
			}
		}
		for _, child := range c.Children {
			for name := range child.FreeVars() {
				c.free[name] = struct{}{}
			}
		}
		for name := range c.AssignedVars() {
			delete(c.free, name)
		}
	})
	return c.free
}

func (c *Code) String() string { return c.Text }
