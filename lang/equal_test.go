package lang

import "testing"

func TestEqualEmptyRecords(t *testing.T) {
	a := NewRecord()
	b := NewRecord()
	if !Equal(a, b) {
		t.Error("two empty records should be equal")
	}
	if !Equal(a, a) {
		t.Error("a record should equal itself")
	}
}

func TestEqualNestedRecords(t *testing.T) {
	a := NewRecord()
	a.Fields["x"] = NewRecord()
	b := NewRecord()
	b.Fields["x"] = NewRecord()
	if !Equal(a, b) {
		t.Error("records with equal nested fields should be equal")
	}

	b.Fields["x"].(*Record).Fields["deep"] = NewRecord()
	if Equal(a, b) {
		t.Error("differing nested fields should break equality")
	}
}

func TestEqualFieldSetsMustMatch(t *testing.T) {
	a := NewRecord()
	a.Fields["x"] = NewRecord()
	b := NewRecord()
	b.Fields["y"] = NewRecord()
	if Equal(a, b) {
		t.Error("same arity with different keys should not be equal")
	}

	c := NewRecord()
	if Equal(a, c) {
		t.Error("a record with fields should not equal an empty one")
	}
}

func TestEqualSelfReferentialRecords(t *testing.T) {
	a := NewRecord()
	a.Fields["self"] = a
	b := NewRecord()
	b.Fields["self"] = b

	if !Equal(a, a) {
		t.Error("a cyclic record should equal itself")
	}
	if !Equal(a, b) {
		t.Error("two structurally identical cycles should be equal")
	}
}

func TestEqualMutuallyCyclicRecords(t *testing.T) {
	a := NewRecord()
	b := NewRecord()
	a.Fields["next"] = b
	b.Fields["next"] = a

	// Unfolding either record yields the same infinite tree.
	if !Equal(a, b) {
		t.Error("mutually cyclic records should be equal")
	}

	b.Fields["tag"] = NewRecord()
	if Equal(a, b) {
		t.Error("extra field on one side should break cyclic equality")
	}
}

func TestEqualClosuresByIdentity(t *testing.T) {
	code := mustCompile(t, "")
	f := &Closure{Code: code, Vars: Vars{}}
	g := &Closure{Code: code, Vars: Vars{}}

	if !Equal(f, f) {
		t.Error("a closure should equal itself")
	}
	if Equal(f, g) {
		t.Error("distinct closures are never equal, even over the same code")
	}
}

func TestEqualClosureNeverEqualsRecord(t *testing.T) {
	f := &Closure{Code: mustCompile(t, ""), Vars: Vars{}}
	r := NewRecord()
	if Equal(f, r) || Equal(r, f) {
		t.Error("closures and records are never equal")
	}
}
