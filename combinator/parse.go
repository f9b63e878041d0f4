package combinator

import "fmt"

// ParseError reports a syntax problem in a combinator expression.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseError(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// frame is one pending grouping on the parse stack: a parenthesis, or a
// lambda whose body is still being collected.
type frame struct {
	lambda bool
	params string
	terms  []Term
}

// Parse reads an expression in the /params.body surface syntax.
// Lowercase letters are variables and uppercase letters resolve against
// the basis; a nil basis admits no combinators. '#' starts a line
// comment. A lambda body extends to the enclosing ')' or to the end of
// the input.
func Parse(text string, basis Basis) (Term, error) {
	var stack []frame
	var terms []Term

	fromTerms := func() (Term, error) {
		switch len(terms) {
		case 0:
			return nil, parseError("syntax error: empty expression")
		case 1:
			return terms[0], nil
		}
		args := append([]Term(nil), terms[1:]...)
		if f, ok := terms[0].(App); ok {
			combined := append([]Term(nil), f.Args...)
			return App{Func: f.Func, Args: append(combined, args...)}, nil
		}
		return App{Func: terms[0], Args: args}, nil
	}
	push := func(lambda bool, params string) {
		stack = append(stack, frame{lambda: lambda, params: params, terms: terms})
		terms = nil
	}
	pop := func() error {
		item, err := fromTerms()
		if err != nil {
			return err
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.lambda {
			item = Lam{Params: top.params, Body: item}
		}
		terms = append(top.terms, item)
		return nil
	}
	drainLambdas := func() error {
		for len(stack) > 0 && stack[len(stack)-1].lambda {
			if err := pop(); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < len(text); i++ {
		switch b := text[i]; {
		case b == ' ' || b == '\n':

		case b == '#':
			for i < len(text) && text[i] != '\n' {
				i++
			}

		case b == '(':
			push(false, "")

		case b == ')':
			if err := drainLambdas(); err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				return nil, parseError("unexpected ')'")
			}
			if err := pop(); err != nil {
				return nil, err
			}

		case b == '/':
			start := i + 1
			j := start
			for j < len(text) && isLetter(text[j]) {
				j++
			}
			if j >= len(text) || text[j] != '.' {
				return nil, parseError("expected variable name(s) after '/', followed by '.'")
			}
			push(true, text[start:j])
			i = j

		case b >= 'a' && b <= 'z':
			terms = append(terms, Var{Name: b})

		case b >= 'A' && b <= 'Z':
			c, ok := basis[b]
			if !ok {
				return nil, parseError("no combinator %q", string(b))
			}
			terms = append(terms, c)

		default:
			return nil, parseError("syntax error: invalid character %q", string(b))
		}
	}

	if err := drainLambdas(); err != nil {
		return nil, err
	}
	if len(stack) > 0 {
		return nil, parseError("missing %d ')' characters", len(stack))
	}
	return fromTerms()
}
