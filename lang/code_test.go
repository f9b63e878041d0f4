package lang

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

func mustCompile(t *testing.T, text string) *Code {
	t.Helper()
	c, err := Compile(text)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", text, err)
	}
	return c
}

func ops(c *Code) []Opcode {
	out := make([]Opcode, len(c.Instrs))
	for i, in := range c.Instrs {
		out[i] = in.Op
	}
	return out
}

func TestCompileBareName(t *testing.T) {
	c := mustCompile(t, "a")
	if len(c.Instrs) != 1 || c.Instrs[0].Op != OpName || c.Instrs[0].Name != "a" {
		t.Fatalf("unexpected stream: %+v", c.Instrs)
	}
	if got := c.SourceOffset(0); got != 0 {
		t.Errorf("SourceOffset(0) = %d, want 0", got)
	}
	if got := c.SourceOffset(1); got != 1 {
		t.Errorf("SourceOffset(end) = %d, want len(text)", got)
	}
}

func TestCompileSkipsGroupingAndComments(t *testing.T) {
	c := mustCompile(t, "( a ) ;{ b }\n# a comment * ! \nc")
	want := []string{"a", "b", "c"}
	if len(c.Instrs) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(c.Instrs), len(want), c.Instrs)
	}
	for i, name := range want {
		if c.Instrs[i].Op != OpName || c.Instrs[i].Name != name {
			t.Errorf("instr %d = %+v, want name %q", i, c.Instrs[i], name)
		}
	}
}

func TestCompileStandaloneOpcodes(t *testing.T) {
	c := mustCompile(t, "*!^/?")
	want := []Opcode{OpNewRecord, OpApply, OpDrop, OpSkipEQ, OpSkipNE}
	got := ops(c)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instr %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCompilePrefixOperators(t *testing.T) {
	c := mustCompile(t, ".x@y=z=.w")
	want := []Instr{
		{Op: OpFieldGet}, nameSlot("x"),
		{Op: OpJump}, nameSlot("y"),
		{Op: OpBind}, nameSlot("z"),
		{Op: OpFieldSet}, nameSlot("w"),
	}
	if len(c.Instrs) != len(want) {
		t.Fatalf("got %d slots, want %d: %+v", len(c.Instrs), len(want), c.Instrs)
	}
	for i := range want {
		if c.Instrs[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, c.Instrs[i], want[i])
		}
	}
	// Operator and operand share the operator's source offset.
	if c.SourceOffset(0) != 0 || c.SourceOffset(1) != 0 {
		t.Errorf("field-get offsets = %d,%d, want 0,0", c.SourceOffset(0), c.SourceOffset(1))
	}
	if c.SourceOffset(6) != 6 || c.SourceOffset(7) != 6 {
		t.Errorf("field-set offsets = %d,%d, want 6,6", c.SourceOffset(6), c.SourceOffset(7))
	}
}

func TestCompileLabels(t *testing.T) {
	c := mustCompile(t, "a:xb@x")
	if got := c.Labels["x"]; got != 1 {
		t.Errorf("label x = %d, want 1", got)
	}
	// Labels emit no instruction.
	want := []Opcode{OpName, OpName, OpJump, OpName}
	got := ops(c)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stream = %v, want %v", got, want)
		}
	}
}

func TestCompileDuplicateLabel(t *testing.T) {
	_, err := Compile(":x:x")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Incomplete {
		t.Error("duplicate label must not be recoverable")
	}
	if se.Offset != 3 {
		t.Errorf("offset = %d, want 3", se.Offset)
	}
}

func TestCompileMissingOperand(t *testing.T) {
	for _, text := range []string{".", "@", ":", "=", "=.", ".$", "=*"} {
		_, err := Compile(text)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("Compile(%q): expected *SyntaxError, got %v", text, err)
		}
		if se.Incomplete {
			t.Errorf("Compile(%q): must be a hard error", text)
		}
	}
}

func TestCompileUnknownCharacter(t *testing.T) {
	_, err := Compile("$")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Offset != 0 || se.Incomplete {
		t.Errorf("got offset=%d incomplete=%v, want 0,false", se.Offset, se.Incomplete)
	}
}

func TestCompileIncompleteClosure(t *testing.T) {
	_, err := Compile("[a")
	if !IsIncomplete(err) {
		t.Fatalf("expected recoverable error, got %v", err)
	}
	var se *SyntaxError
	errors.As(err, &se)
	if se.Offset != 2 {
		t.Errorf("offset = %d, want end of text 2", se.Offset)
	}

	// Appending the missing bracket completes the program.
	if _, err := Compile("[a" + "]"); err != nil {
		t.Errorf("completed program failed to compile: %v", err)
	}
}

func TestCompileNestedClosures(t *testing.T) {
	c := mustCompile(t, "[[a]b]c")
	if len(c.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(c.Children))
	}
	outer := c.Children[0]
	if outer.Text != "[a]b" {
		t.Errorf("outer child text = %q, want %q", outer.Text, "[a]b")
	}
	if len(outer.Children) != 1 || outer.Children[0].Text != "a" {
		t.Fatalf("inner child = %+v", outer.Children)
	}
	if c.Instrs[0].Op != OpClosure || c.Instrs[1].Op != OpChild || c.Instrs[1].Child != 0 {
		t.Errorf("closure slots = %+v", c.Instrs[:2])
	}
}

func TestCompileErrorInsideClosureBody(t *testing.T) {
	_, err := Compile("[$]")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Text != "$" || se.Offset != 0 {
		t.Errorf("child error = %+v, want child-relative text and offset", se)
	}
}

func setOf(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sameSet(t *testing.T, got map[string]struct{}, want map[string]struct{}) {
	t.Helper()
	g, w := setNames(got), setNames(want)
	sort.Strings(g)
	sort.Strings(w)
	if strings.Join(g, ",") != strings.Join(w, ",") {
		t.Errorf("set = %v, want %v", g, w)
	}
}

func TestAssignedAndFreeVars(t *testing.T) {
	// b is read then assigned: assigned names never count as free.
	c := mustCompile(t, "a b =b *=.f")
	sameSet(t, c.AssignedVars(), setOf("b", "f"))
	sameSet(t, c.FreeVars(), setOf("a"))
}

func TestFreeVarsOperandsAreNotReads(t *testing.T) {
	// Field, label and jump names are operands, not variable reads.
	c := mustCompile(t, ":l a.f@l")
	sameSet(t, c.FreeVars(), setOf("a"))
}

func TestFreeVarsOfChildrenRespectShadowing(t *testing.T) {
	// The child assigns x locally, so x is not free in the child and
	// must not leak into the parent's free set; y is free in the child
	// and propagates. The parent assigns z, shadowing the child's use.
	c := mustCompile(t, "*=z [=x x y z]")
	sameSet(t, c.Children[0].FreeVars(), setOf("y", "z"))
	sameSet(t, c.FreeVars(), setOf("y"))
}

func TestOpcodeMetadataTotal(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("opcode %d has no metadata", op)
		}
	}
}

func TestDisassembleListsStreamAndChildren(t *testing.T) {
	c := mustCompile(t, "*=a:l[a]@l")
	out := c.Disassemble()
	for _, want := range []string{"NEW_RECORD", "BIND a", "CLOSURE #0", "JUMP l", "child 0", "Labels: l=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}
