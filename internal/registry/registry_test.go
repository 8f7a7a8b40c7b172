package registry

import "testing"

type widget struct {
	key int
	tag string
}

func TestAddGetRemove(t *testing.T) {
	tbl := New[int, widget]()

	if !tbl.Add(1, &widget{key: 1, tag: "a"}) {
		t.Fatal("expected first add to succeed")
	}
	if tbl.Add(1, &widget{key: 1, tag: "b"}) {
		t.Fatal("expected duplicate add to fail")
	}
	if got := tbl.Get(1); got == nil || got.tag != "a" {
		t.Fatalf("got %+v", got)
	}
	if !tbl.Remove(1) {
		t.Fatal("expected remove to succeed")
	}
	if tbl.Contains(1) {
		t.Fatal("expected key gone after remove")
	}
	if tbl.Remove(1) {
		t.Fatal("expected second remove to fail")
	}
}

func TestEachSkipsDeadSlots(t *testing.T) {
	tbl := New[int, widget]()
	tbl.Add(1, &widget{key: 1, tag: "a"})
	tbl.Add(2, &widget{key: 2, tag: "b"})
	tbl.Add(3, &widget{key: 3, tag: "c"})
	tbl.Remove(2)

	var seen []string
	tbl.Each(func(v *widget) { seen = append(seen, v.tag) })

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "c" {
		t.Fatalf("got %v", seen)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d", tbl.Len())
	}
}

func TestCompactRebuildsIndex(t *testing.T) {
	tbl := New[int, widget]()
	tbl.Add(1, &widget{key: 1, tag: "a"})
	tbl.Add(2, &widget{key: 2, tag: "b"})
	tbl.Remove(1)
	tbl.Compact(func(v *widget) int { return v.key })

	if tbl.Len() != 1 {
		t.Fatalf("len = %d", tbl.Len())
	}
	if got := tbl.Get(2); got == nil || got.tag != "b" {
		t.Fatalf("got %+v", got)
	}

	// Key 1 was freed by Remove; it can still be added after Compact
	// rebuilt the index.
	if !tbl.Add(1, &widget{key: 1, tag: "new"}) {
		t.Fatal("expected reuse of key 1 after compact")
	}
}
