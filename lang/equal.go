package lang

// recordPair keys the visited set used to short-circuit cyclic
// comparisons.
type recordPair struct {
	a, b *Record
}

// Equal reports structural equality between two values.
//
// Two records are equal when their field mappings are recursively equal.
// A record pair already under comparison further up the recursion is
// assumed equal, so self-referential and mutually cyclic records compare
// without diverging. Closures are equal only to themselves (identity); a
// closure never equals a record. Both rules are deterministic.
func Equal(a, b Value) bool {
	return equalValues(a, b, nil)
}

func equalValues(a, b Value, seen map[recordPair]bool) bool {
	switch av := a.(type) {
	case *Record:
		bv, ok := b.(*Record)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		pair := recordPair{av, bv}
		if seen[pair] {
			return true
		}
		if seen == nil {
			seen = make(map[recordPair]bool)
		}
		seen[pair] = true
		for k, x := range av.Fields {
			y, ok := bv.Fields[k]
			if !ok || !equalValues(x, y, seen) {
				return false
			}
		}
		return true
	case *Closure:
		bv, ok := b.(*Closure)
		return ok && av == bv
	default:
		return false
	}
}
