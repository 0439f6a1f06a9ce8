package arena

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/parsanol/peg/pkg/ast"
)

func TestInternStringDedup(t *testing.T) {
	a := New()
	i1 := a.InternString("hello")
	i2 := a.InternString("world")
	i3 := a.InternString("hello")
	if i1 != i3 {
		t.Errorf("InternString(\"hello\") = %d then %d, want equal", i1, i3)
	}
	if i1 == i2 {
		t.Errorf("InternString(\"hello\") == InternString(\"world\"): %d", i1)
	}
	if got := a.String(i1); got != "hello" {
		t.Errorf("String(%d) = %q, want %q", i1, got, "hello")
	}
}

func TestStoreArray(t *testing.T) {
	a := New()
	nodes := []ast.Node{ast.IntNode(1), ast.IntNode(2), ast.IntNode(3)}
	idx, length := a.StoreArray(nodes)
	got := a.Array(idx, length)
	if diff := cmp.Diff(nodes, got); diff != "" {
		t.Errorf("Array() mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreHash(t *testing.T) {
	a := New()
	key := a.InternString("name")
	entries := []HashEntry{{Key: key, Value: ast.IntNode(7)}}
	idx, length := a.StoreHash(entries)
	got := a.Hash(idx, length)
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("Hash() mismatch (-want +got):\n%s", diff)
	}
}

func TestScratch(t *testing.T) {
	a := New()
	mark := a.ScratchLen()
	a.PushScratch(ast.IntNode(1))
	a.PushScratch(ast.IntNode(2))
	got := a.ScratchSince(mark)
	want := []ast.Node{ast.IntNode(1), ast.IntNode(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScratchSince() mismatch (-want +got):\n%s", diff)
	}
	a.TruncateScratch(mark)
	if a.ScratchLen() != mark {
		t.Errorf("ScratchLen() = %d, want %d after truncate", a.ScratchLen(), mark)
	}
}

func TestResetClearsEverything(t *testing.T) {
	a := New()
	a.InternString("x")
	a.StoreArray([]ast.Node{ast.IntNode(1)})
	a.StoreHash([]HashEntry{{Key: 0, Value: ast.IntNode(1)}})
	a.Reset()

	if got := a.InternString("x"); got != 0 {
		t.Errorf("after Reset, InternString(\"x\") = %d, want 0 (fresh pool)", got)
	}
}

func TestResetWithOptionsKeepsStrings(t *testing.T) {
	a := New()
	idx := a.InternString("kept")
	a.ResetWithOptions(false)
	if got := a.InternString("kept"); got != idx {
		t.Errorf("after ResetWithOptions(false), InternString(\"kept\") = %d, want %d", got, idx)
	}
}
