// Package combinator implements a small combinatory logic and lambda
// calculus evaluator: variables, multi-parameter lambdas, curried
// application, named combinators with expansion bodies, and a parser
// for the /xy.body surface syntax.
package combinator

import "strings"

// Term is a lambda calculus value. Apply is curried: applying fewer
// arguments than a term's parameters builds an application node,
// applying exactly enough substitutes or expands, and surplus arguments
// are applied to the result.
type Term interface {
	Apply(args ...Term) Term
	substitute(values map[byte]Term) Term
	String() string
}

// Var is a single-letter variable.
type Var struct {
	Name byte
}

func (v Var) Apply(args ...Term) Term {
	return App{Func: v, Args: args}
}

func (v Var) substitute(values map[byte]Term) Term {
	if t, ok := values[v.Name]; ok {
		return t
	}
	return v
}

func (v Var) String() string { return string(v.Name) }

// Lam is a lambda with one or more single-letter parameters.
type Lam struct {
	Params string
	Body   Term
}

func (l Lam) Apply(args ...Term) Term {
	n := len(l.Params)
	switch {
	case len(args) < n:
		return App{Func: l, Args: args}
	case len(args) == n:
		values := make(map[byte]Term, n)
		for i := 0; i < n; i++ {
			values[l.Params[i]] = args[i]
		}
		return l.Body.substitute(values)
	default:
		result := l.Apply(args[:n]...)
		return App{Func: result, Args: args[n:]}
	}
}

// substitute drops substitutions for the lambda's own parameters before
// descending, so inner bindings shadow outer ones.
func (l Lam) substitute(values map[byte]Term) Term {
	shadowed := false
	for name := range values {
		if strings.IndexByte(l.Params, name) >= 0 {
			shadowed = true
			break
		}
	}
	if shadowed {
		kept := make(map[byte]Term)
		for name, t := range values {
			if strings.IndexByte(l.Params, name) < 0 {
				kept[name] = t
			}
		}
		values = kept
	}
	if len(values) == 0 {
		return l
	}
	return Lam{Params: l.Params, Body: l.Body.substitute(values)}
}

func (l Lam) String() string {
	return "(/" + l.Params + "." + l.Body.String() + ")"
}

// App is a function applied to one or more arguments.
type App struct {
	Func Term
	Args []Term
}

func (a App) Apply(args ...Term) Term {
	combined := make([]Term, 0, len(a.Args)+len(args))
	combined = append(combined, a.Args...)
	combined = append(combined, args...)
	return a.Func.Apply(combined...)
}

func (a App) substitute(values map[byte]Term) Term {
	args := make([]Term, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.substitute(values)
	}
	return App{Func: a.Func.substitute(values), Args: args}
}

func (a App) String() string {
	s := "(" + a.Func.String()
	for _, arg := range a.Args {
		s += arg.String()
	}
	return s + ")"
}

