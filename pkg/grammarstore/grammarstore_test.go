package grammarstore

import (
	"path/filepath"
	"testing"

	"github.com/parsanol/peg/pkg/grammar"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	atoms := []grammar.Atom{grammar.ReAtom(`[0-9]`), grammar.RepetitionAtom(0, 1, 0)}
	g := grammar.New(atoms, 1)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return g
}

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammars.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	g := testGrammar(t)
	key, err := s.Put(g)
	if err != nil {
		t.Fatalf("Put() = %v", err)
	}

	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if got == nil {
		t.Fatalf("Get() = nil, want the stored grammar")
	}
	if got.Root != g.Root || len(got.Atoms) != len(g.Atoms) {
		t.Errorf("Get() = %+v, want a grammar shaped like %+v", got, g)
	}
}

func TestGetMissReturnsNilNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammars.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	got, err := s.Get("deadbeef")
	if err != nil {
		t.Fatalf("Get() = %v, want nil error on miss", err)
	}
	if got != nil {
		t.Fatalf("Get() = %+v, want nil on miss", got)
	}
}

func TestKeyIsContentAddressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammars.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	g := testGrammar(t)
	k1, err := s.Put(g)
	if err != nil {
		t.Fatalf("Put() = %v", err)
	}
	k2, err := s.Put(g)
	if err != nil {
		t.Fatalf("Put() = %v", err)
	}
	if k1 != k2 {
		t.Errorf("Put() keys differ for identical grammar: %q vs %q", k1, k2)
	}
}
