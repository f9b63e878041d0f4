package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/skein-lang/skein/lang"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "skein.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadProgram(t *testing.T) {
	s := openTemp(t)

	source := "*=a a"
	code, err := lang.Compile(source)
	if err != nil {
		t.Fatal(err)
	}

	hash, err := s.SaveProgram(source, code)
	if err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}
	if hash != HashSource(source) {
		t.Errorf("hash = %q, want the content address of the source", hash)
	}

	gotSource, gotCode, err := s.LoadProgram(hash)
	if err != nil {
		t.Fatalf("LoadProgram failed: %v", err)
	}
	if gotSource != source {
		t.Errorf("source = %q, want %q", gotSource, source)
	}

	// The loaded program still runs.
	vars, stack, _, err := (&lang.VM{}).Execute(gotCode, nil, nil, 0)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(stack) != 1 || stack[0] != vars["a"] {
		t.Errorf("stack = %v, want the record bound to a", stack)
	}
}

func TestSaveProgramIsIdempotent(t *testing.T) {
	s := openTemp(t)

	source := "*"
	code, err := lang.Compile(source)
	if err != nil {
		t.Fatal(err)
	}

	first, err := s.SaveProgram(source, code)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SaveProgram(source, code)
	if err != nil {
		t.Fatalf("re-saving failed: %v", err)
	}
	if first != second {
		t.Errorf("hashes differ: %q vs %q", first, second)
	}
}

func TestLoadProgramNotFound(t *testing.T) {
	s := openTemp(t)
	if _, _, err := s.LoadProgram("no-such-hash"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHistoryPerSession(t *testing.T) {
	s := openTemp(t)

	for _, input := range []string{"*=a", "a", "a a ?^"} {
		if err := s.AppendHistory("one", input); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AppendHistory("two", "*"); err != nil {
		t.Fatal(err)
	}

	got, err := s.History("one")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	want := []string{"*=a", "a", "a a ?^"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}

	got, err = s.History("two")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"*"}) {
		t.Errorf("history = %v", got)
	}

	if got, err := s.History("absent"); err != nil || len(got) != 0 {
		t.Errorf("absent session: history = %v, err = %v", got, err)
	}
}

func TestSessionsOldestFirst(t *testing.T) {
	s := openTemp(t)

	if err := s.AppendHistory("first", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendHistory("second", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendHistory("first", "c"); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.Sessions()
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if !reflect.DeepEqual(sessions, []string{"first", "second"}) {
		t.Errorf("sessions = %v", sessions)
	}
}
