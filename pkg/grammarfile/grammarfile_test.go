package grammarfile

import (
	"testing"

	"github.com/parsanol/peg/pkg/grammar"
)

func TestRoundTrip(t *testing.T) {
	atoms := []grammar.Atom{
		grammar.ReAtom(`[0-9]`),         // 0: digit
		grammar.RepetitionAtom(0, 1, 0), // 1: number
		grammar.StrAtom("+"),            // 2
		grammar.SequenceAtom(2, 1),      // 3: '+' number
		grammar.RepetitionAtom(3, 0, 0), // 4: ('+' number)*
		grammar.NamedAtom("first", 1),   // 5
		grammar.SequenceAtom(5, 4),      // 6: root
	}
	g := grammar.New(atoms, 6)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if got.Root != g.Root {
		t.Errorf("Root = %d, want %d", got.Root, g.Root)
	}
	if len(got.Atoms) != len(g.Atoms) {
		t.Fatalf("len(Atoms) = %d, want %d", len(got.Atoms), len(g.Atoms))
	}
	for i := range g.Atoms {
		want, gotA := g.Atoms[i], got.Atoms[i]
		if want.Kind != gotA.Kind {
			t.Errorf("atom %d: Kind = %v, want %v", i, gotA.Kind, want.Kind)
		}
	}
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	data := []byte("root: 0\natoms:\n  - kind: bogus\n")
	if _, err := Unmarshal(data); err == nil {
		t.Fatalf("Unmarshal() = nil, want error for unknown atom kind")
	}
}

func TestUnmarshalValidatesResult(t *testing.T) {
	// root index out of range
	data := []byte("root: 5\natoms:\n  - kind: str\n    str: a\n")
	if _, err := Unmarshal(data); err == nil {
		t.Fatalf("Unmarshal() = nil, want error for out-of-range root")
	}
}
