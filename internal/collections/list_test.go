package collections

import (
	"errors"
	"testing"

	pkgerrors "github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

func collect(l *List[string]) []string {
	var out []string
	for node := l.Head(); node != nil; node = node.Next() {
		out = append(out, node.Data())
	}
	return out
}

func TestListAddAppendsInOrder(t *testing.T) {
	l := NewList[string](Equal[string]())
	if !l.IsEmpty() {
		t.Fatal("new list should be empty")
	}

	l.Add("a")
	l.Add("b")
	l.Add("c")

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	got := collect(l)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListAddFirst(t *testing.T) {
	l := NewList[string](Equal[string]())
	l.AddFirst("b")
	l.AddFirst("a")
	l.Add("c")

	got := collect(l)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListRemoveHead(t *testing.T) {
	l := NewList[string](Equal[string]())
	l.Add("a")
	l.Add("b")

	if err := l.Remove("a"); err != nil {
		t.Fatalf("Remove(a) error: %v", err)
	}
	if got := collect(l); len(got) != 1 || got[0] != "b" {
		t.Errorf("after removing head, list = %v, want [b]", got)
	}
}

func TestListRemoveTailRepointsTail(t *testing.T) {
	l := NewList[string](Equal[string]())
	l.Add("a")
	l.Add("b")

	if err := l.Remove("b"); err != nil {
		t.Fatalf("Remove(b) error: %v", err)
	}

	// The tail must now be the predecessor: a fresh Add has to land after "a".
	l.Add("c")
	got := collect(l)
	want := []string{"a", "c"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("after tail removal and append, list = %v, want %v", got, want)
	}
}

func TestListRemoveOnlyElementClearsTail(t *testing.T) {
	l := NewList[int](Equal[int]())
	l.Add(1)
	if err := l.Remove(1); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if !l.IsEmpty() || l.Len() != 0 {
		t.Error("list should be empty after removing its only element")
	}

	// Both head and tail must have been cleared for Add to work again.
	l.Add(2)
	if got := collect2(l); len(got) != 1 || got[0] != 2 {
		t.Errorf("list after re-add = %v, want [2]", got)
	}
}

func collect2(l *List[int]) []int {
	var out []int
	for node := l.Head(); node != nil; node = node.Next() {
		out = append(out, node.Data())
	}
	return out
}

func TestListRemoveMissingReturnsNotFound(t *testing.T) {
	l := NewList[string](Equal[string]())

	if err := l.Remove("ghost"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("Remove on empty list = %v, want ErrNotFound", err)
	}

	l.Add("a")
	if err := l.Remove("ghost"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("Remove of missing element = %v, want ErrNotFound", err)
	}
	if l.Len() != 1 {
		t.Errorf("failed Remove must not change size, Len() = %d", l.Len())
	}
}

func TestListContains(t *testing.T) {
	l := NewList[string](Equal[string]())
	l.Add("x")
	l.Add("y")

	if !l.Contains("y") {
		t.Error("Contains(y) = false, want true")
	}
	if l.Contains("z") {
		t.Error("Contains(z) = true, want false")
	}
}

func TestListClear(t *testing.T) {
	l := NewList[string](Equal[string]())
	l.Add("a")
	l.Add("b")
	l.Clear()

	if !l.IsEmpty() || l.Len() != 0 || l.Head() != nil {
		t.Error("Clear should leave an empty list")
	}
}
