package combinator

// Body is a combinator expansion tree over argument indexes: a leaf
// names the argument to insert, an inner node applies its first
// expansion to the rest.
type Body struct {
	Index int
	Nodes []Body // non-empty marks an application node
}

func arg(i int) Body       { return Body{Index: i} }
func node(bs ...Body) Body { return Body{Nodes: bs} }

// Comb is a named combinator: applying exactly Arity arguments expands
// the body against them.
type Comb struct {
	Name  byte
	Arity int
	Body  Body
}

func (c Comb) Apply(args ...Term) Term {
	switch {
	case len(args) < c.Arity:
		return App{Func: c, Args: args}
	case len(args) == c.Arity:
		return expand(c.Body, args)
	default:
		result := c.Apply(args[:c.Arity]...)
		return App{Func: result, Args: args[c.Arity:]}
	}
}

func expand(b Body, args []Term) Term {
	if len(b.Nodes) == 0 {
		return args[b.Index]
	}
	f := expand(b.Nodes[0], args)
	rest := make([]Term, len(b.Nodes)-1)
	for i, n := range b.Nodes[1:] {
		rest[i] = expand(n, args)
	}
	return f.Apply(rest...)
}

// Combinators never contain free variables.
func (c Comb) substitute(values map[byte]Term) Term { return c }

func (c Comb) String() string { return string(c.Name) }

// The standard combinators.
//
//	S x y z = x z (y z)
//	K x y   = x
//	I x     = x
//	B x y z = x (y z)
//	C x y z = x z y
//	W x y   = x y y
var (
	S = Comb{'S', 3, node(arg(0), arg(2), node(arg(1), arg(2)))}
	K = Comb{'K', 2, arg(0)}
	I = Comb{'I', 1, arg(0)}
	B = Comb{'B', 3, node(arg(0), node(arg(1), arg(2)))}
	C = Comb{'C', 3, node(arg(0), arg(2), arg(1))}
	W = Comb{'W', 2, node(arg(0), arg(1), arg(1))}
)

// Basis resolves uppercase combinator names at parse time.
type Basis map[byte]Comb

// NewBasis builds a basis from combinators, keyed by name.
func NewBasis(combs ...Comb) Basis {
	b := make(Basis, len(combs))
	for _, c := range combs {
		b[c.Name] = c
	}
	return b
}

var (
	SKI  = NewBasis(S, K, I)
	BCKW = NewBasis(B, C, K, W)
	Full = NewBasis(B, C, I, K, S, W)
)
