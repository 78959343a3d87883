package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/vango-dev/hxstate/pkg/session"
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func countNotDone(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Done {
			n++
		}
	}
	return n
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"active", FilterActive},
		{"completed", FilterCompleted},
		{"", FilterAll},
		{"Active", FilterAll},
		{"bogus", FilterAll},
	}
	for _, tt := range tests {
		if got := ParseFilter(tt.in); got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTodoList_AddAppendsInOrder(t *testing.T) {
	ids := seqIDs("id")
	var l TodoList
	l, a := l.Add("a", ids)
	l, b := l.Add("b", ids)

	if a.Done || b.Done {
		t.Fatal("new items must not be done")
	}
	if len(l.Items) != 2 || l.Items[0].Label != "a" || l.Items[1].Label != "b" {
		t.Fatalf("items = %+v", l.Items)
	}
}

func TestTodoList_AddSkipsCollidingIDs(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls <= 2 {
			return "dup"
		}
		return "fresh"
	}
	l := TodoList{Items: []Item{{ID: "dup", Label: "x"}}}

	l, item := l.Add("y", gen)
	if item.ID != "fresh" {
		t.Fatalf("item.ID = %q, want %q", item.ID, "fresh")
	}
	if len(l.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(l.Items))
	}
}

func TestTodoList_IDsNeverReusedAfterDelete(t *testing.T) {
	var l TodoList
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		var it Item
		l, it = l.Add("x", session.NewID)
		if seen[it.ID] {
			t.Fatalf("id %q reused", it.ID)
		}
		seen[it.ID] = true
		if i%2 == 0 {
			l, _ = l.Delete(it.ID)
		}
	}
}

func TestTodoList_ToggleAndRename(t *testing.T) {
	ids := seqIDs("id")
	var l TodoList
	l, a := l.Add("a", ids)
	l, _ = l.Add("b", ids)

	l, toggled, err := l.Toggle(a.ID)
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if !toggled.Done || !l.Items[0].Done {
		t.Fatal("Toggle() did not mark item done")
	}

	l, renamed, err := l.Rename(a.ID, "A")
	if err != nil {
		t.Fatalf("Rename() error: %v", err)
	}
	if renamed.Label != "A" || !renamed.Done {
		t.Fatalf("Rename() = %+v, want label A and done preserved", renamed)
	}
	if l.Items[0].ID != a.ID {
		t.Fatal("Rename() moved the item")
	}
}

func TestTodoList_UnknownIDLeavesListUntouched(t *testing.T) {
	l := TodoList{Items: []Item{{ID: "1", Label: "a"}, {ID: "2", Label: "b", Done: true}}}
	before := l.clone()

	if _, _, err := l.Toggle("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("Toggle() error = %v, want ErrItemNotFound", err)
	}
	if _, _, err := l.Rename("missing", "z"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("Rename() error = %v, want ErrItemNotFound", err)
	}
	next, removed := l.Delete("missing")
	if removed {
		t.Fatal("Delete() of unknown id reported removal")
	}
	if !reflect.DeepEqual(next, before) || !reflect.DeepEqual(l, before) {
		t.Fatal("list changed after operations on an unknown id")
	}
}

func TestTodoList_TransitionsDoNotAliasInput(t *testing.T) {
	l := TodoList{Items: []Item{{ID: "1", Label: "a"}}}
	if _, _, err := l.Toggle("1"); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if l.Items[0].Done {
		t.Fatal("Toggle() mutated its receiver")
	}
}

func TestTodoList_ClearCompleted(t *testing.T) {
	l := TodoList{Items: []Item{
		{ID: "1", Label: "a"},
		{ID: "2", Label: "b", Done: true},
		{ID: "3", Label: "c"},
		{ID: "4", Label: "d", Done: true},
	}}
	next, removed := l.ClearCompleted()
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(next.Items) != 2 || next.Items[0].ID != "1" || next.Items[1].ID != "3" {
		t.Fatalf("items = %+v", next.Items)
	}
}

func TestTodoList_FilterKeepsOrderAndCountIsUnfiltered(t *testing.T) {
	l := TodoList{Items: []Item{
		{ID: "1", Label: "a"},
		{ID: "2", Label: "b", Done: true},
		{ID: "3", Label: "c"},
	}}

	active := l.Filter(FilterActive)
	if len(active) != 2 || active[0].ID != "1" || active[1].ID != "3" {
		t.Fatalf("active = %+v", active)
	}
	all := l.Filter(FilterAll)
	if len(all) != 3 || all[0].ID != "1" || all[1].ID != "2" || all[2].ID != "3" {
		t.Fatalf("all = %+v", all)
	}
	completed := l.Filter(FilterCompleted)
	if len(completed) != 1 || completed[0].ID != "2" {
		t.Fatalf("completed = %+v", completed)
	}
	if got := l.Remaining(); got != 2 {
		t.Fatalf("Remaining() = %d, want 2", got)
	}
}

func TestTodoList_RemainingMatchesAfterRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ids := seqIDs("id")
	var l TodoList

	for step := 0; step < 2000; step++ {
		switch op := rng.IntN(4); {
		case op == 0 || len(l.Items) == 0:
			l, _ = l.Add(fmt.Sprintf("item %d", step), ids)
		case op == 1:
			target := l.Items[rng.IntN(len(l.Items))].ID
			var err error
			if l, _, err = l.Toggle(target); err != nil {
				t.Fatalf("step %d: Toggle() error: %v", step, err)
			}
		case op == 2:
			l, _ = l.Delete(l.Items[rng.IntN(len(l.Items))].ID)
		default:
			l, _ = l.Delete("missing")
		}
		if got, want := l.Remaining(), countNotDone(l.Items); got != want {
			t.Fatalf("step %d: Remaining() = %d, want %d", step, got, want)
		}
	}
}

func TestTodoStore_RoundTrip(t *testing.T) {
	mem := session.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	store := NewTodoStore(mem)
	ctx := context.Background()

	got, err := store.Load(ctx, "client")
	if err != nil || got != nil {
		t.Fatalf("Load(first visit) = (%v, %v), want (nil, nil)", got, err)
	}

	empty, err := store.LoadOrEmpty(ctx, "client")
	if err != nil || len(empty.Items) != 0 {
		t.Fatalf("LoadOrEmpty() = (%+v, %v)", empty, err)
	}

	want := TodoList{Items: []Item{{ID: "1", Label: "a", Done: true}}}
	if err := store.Save(ctx, "client", want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err = store.Load(ctx, "client")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("Load() = %+v, want %+v", *got, want)
	}
}

func TestTodoStore_SaveIsDeterministic(t *testing.T) {
	mem := session.NewMemoryStore()
	t.Cleanup(func() { _ = mem.Close() })
	store := NewTodoStore(mem)
	ctx := context.Background()

	l := TodoList{Items: []Item{{ID: "1", Label: "a"}}}
	if err := store.Save(ctx, "c", l); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	first, _ := mem.Load(ctx, "c")
	if err := store.Save(ctx, "c", l); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	second, _ := mem.Load(ctx, "c")
	if !bytes.Equal(first, second) {
		t.Fatalf("encoding differs between saves: %s vs %s", first, second)
	}
}

func TestTodoStore_UnavailableIsSurfaced(t *testing.T) {
	store := NewTodoStore(failingStore{})
	ctx := context.Background()

	if _, err := store.Load(ctx, "c"); !errors.Is(err, session.ErrUnavailable) {
		t.Fatalf("Load() error = %v, want ErrUnavailable", err)
	}
	if _, err := store.LoadOrEmpty(ctx, "c"); !errors.Is(err, session.ErrUnavailable) {
		t.Fatalf("LoadOrEmpty() error = %v, want ErrUnavailable", err)
	}
	if err := store.Save(ctx, "c", TodoList{}); !errors.Is(err, session.ErrUnavailable) {
		t.Fatalf("Save() error = %v, want ErrUnavailable", err)
	}
}
