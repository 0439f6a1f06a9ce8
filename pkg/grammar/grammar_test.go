package grammar

import "testing"

func TestValidateAccepts(t *testing.T) {
	// number = digit+ ; digit = /[0-9]/
	atoms := []Atom{
		ReAtom(`[0-9]`),                 // 0: digit
		RepetitionAtom(0, 1, 0),         // 1: number
	}
	g := New(atoms, 1)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsOutOfRangeRoot(t *testing.T) {
	g := New([]Atom{StrAtom("a")}, 5)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for out-of-range root")
	}
}

func TestValidateRejectsEmptySequence(t *testing.T) {
	g := New([]Atom{{Kind: Sequence}}, 0)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for empty Sequence")
	}
}

func TestValidateRejectsBadRepetitionBounds(t *testing.T) {
	atoms := []Atom{StrAtom("a"), RepetitionAtom(0, 5, 2)}
	g := New(atoms, 1)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for Max < Min")
	}
}

func TestValidateRejectsOutOfRangeChild(t *testing.T) {
	g := New([]Atom{RepetitionAtom(9, 0, 0)}, 0)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for out-of-range Repetition child")
	}
}

func TestValidateRejectsBadRegexp(t *testing.T) {
	g := New([]Atom{ReAtom("(")}, 0)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for invalid regexp")
	}
}

func TestValidateRejectsUnnamedNamed(t *testing.T) {
	atoms := []Atom{StrAtom("a"), {Kind: Named, Child: 0}}
	g := New(atoms, 1)
	if err := g.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for Named with empty Name")
	}
}

func TestWalkVisitsReachableAtomsOnce(t *testing.T) {
	// 0: 'a', 1: 'b', 2: Sequence(0,0,1) -- atom 0 appears twice
	atoms := []Atom{StrAtom("a"), StrAtom("b"), SequenceAtom(0, 0, 1)}
	g := New(atoms, 2)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	visited := map[int]int{}
	err := g.Walk(g.Root, func(idx int, a Atom) error {
		visited[idx]++
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() = %v", err)
	}
	for idx, count := range visited {
		if count != 1 {
			t.Errorf("atom %d visited %d times, want 1", idx, count)
		}
	}
	if len(visited) != 3 {
		t.Errorf("visited %d distinct atoms, want 3", len(visited))
	}
}
