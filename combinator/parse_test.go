package combinator

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, text string) Term {
	t.Helper()
	term, err := Parse(text, Full)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return term
}

func TestParseRendering(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x", "x"},
		{"(x)", "x"},
		{"xy", "(xy)"},
		{"(xy)", "(xy)"},
		{"xyz", "(xyz)"},
		{"(xy)z", "(xyz)"},
		{"x(yz)", "(x(yz))"},
		{"/x.y", "(/x.y)"},
		{"/x.yz", "(/x.(yz))"},
		{"f/x.y", "(f(/x.y))"},
		{"/xyz.xz(yz)", "(/xyz.(xz(yz)))"},
		{"(/xyz.xz(yz))x", "((/xyz.(xz(yz)))x)"},
		{"S K I", "(SKI)"},
		{"x y # trailing comment\nz", "(xyz)"},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.in).String(); got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "empty expression"},
		{"()", "empty expression"},
		{")", "unexpected ')'"},
		{"(x", "missing 1 ')'"},
		{"((x", "missing 2 ')'"},
		{"/xy", "expected variable name"},
		{"/x", "expected variable name"},
		{"x$", "invalid character"},
		{"Q", "no combinator"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in, Full)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q) err = %v, want *ParseError", tc.in, err)
			continue
		}
		if !strings.Contains(pe.Msg, tc.want) {
			t.Errorf("Parse(%q) msg = %q, want it to mention %q", tc.in, pe.Msg, tc.want)
		}
	}
}

func TestParseNilBasisAdmitsNoCombinators(t *testing.T) {
	if _, err := Parse("S", nil); err == nil {
		t.Error("uppercase names should fail without a basis")
	}
	if _, err := Parse("x", nil); err != nil {
		t.Errorf("variables need no basis: %v", err)
	}
}

func TestParseRestrictedBasis(t *testing.T) {
	if _, err := Parse("B", SKI); err == nil {
		t.Error("B is not in the SKI basis")
	}
	if _, err := Parse("B", BCKW); err != nil {
		t.Errorf("B is in the BCKW basis: %v", err)
	}
}

func TestParsedTermsEvaluate(t *testing.T) {
	term := mustParse(t, "/xyz.xz(yz)")
	if got := term.Apply(v('a'), v('b'), v('c')).String(); got != "(ac(bc))" {
		t.Errorf("applied = %q", got)
	}

	ski := mustParse(t, "SKK").Apply(v('a'))
	if got := ski.String(); got != "a" {
		t.Errorf("SKK applied = %q", got)
	}
}

func TestParseLambdaBodyStopsAtParen(t *testing.T) {
	// The lambda body extends to the enclosing ')', so f applies to the
	// lambda and then to z.
	if got := mustParse(t, "f(/x.xy)z").String(); got != "(f(/x.(xy))z)" {
		t.Errorf("got %q", got)
	}
}
