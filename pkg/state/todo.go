package state

import (
	"context"
	"fmt"

	"github.com/vango-dev/hxstate/pkg/session"
)

// Item is a single to-do entry.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// TodoList is the to-do record. Items keep insertion order.
//
// Transitions take a value receiver and return a new list, so a failed
// transition leaves the caller's copy untouched.
type TodoList struct {
	Items []Item `json:"items"`
}

// Filter selects which items a list view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a query value to a Filter. Unknown values mean FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive, FilterCompleted:
		return Filter(s)
	default:
		return FilterAll
	}
}

// Matches reports whether a view filtered by f shows it.
func (f Filter) Matches(it Item) bool {
	switch f {
	case FilterActive:
		return !it.Done
	case FilterCompleted:
		return it.Done
	default:
		return true
	}
}

func (l TodoList) clone() TodoList {
	items := make([]Item, len(l.Items))
	copy(items, l.Items)
	return TodoList{Items: items}
}

func (l TodoList) index(id string) int {
	for i, it := range l.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the item with id.
func (l TodoList) Find(id string) (Item, bool) {
	if i := l.index(id); i >= 0 {
		return l.Items[i], true
	}
	return Item{}, false
}

// Add appends a new, not-done item. newID is retried until it yields an ID
// not present in the list.
func (l TodoList) Add(label string, newID func() string) (TodoList, Item) {
	id := newID()
	for l.index(id) >= 0 {
		id = newID()
	}
	item := Item{ID: id, Label: label}
	next := l.clone()
	next.Items = append(next.Items, item)
	return next, item
}

// Toggle flips Done on the item with id.
func (l TodoList) Toggle(id string) (TodoList, Item, error) {
	i := l.index(id)
	if i < 0 {
		return l, Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	next := l.clone()
	next.Items[i].Done = !next.Items[i].Done
	return next, next.Items[i], nil
}

// Rename replaces the label of the item with id, keeping Done and position.
func (l TodoList) Rename(id, label string) (TodoList, Item, error) {
	i := l.index(id)
	if i < 0 {
		return l, Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	next := l.clone()
	next.Items[i].Label = label
	return next, next.Items[i], nil
}

// Delete removes the item with id. Deleting an unknown id is a no-op and
// reports false.
func (l TodoList) Delete(id string) (TodoList, bool) {
	i := l.index(id)
	if i < 0 {
		return l, false
	}
	next := TodoList{Items: make([]Item, 0, len(l.Items)-1)}
	next.Items = append(next.Items, l.Items[:i]...)
	next.Items = append(next.Items, l.Items[i+1:]...)
	return next, true
}

// ClearCompleted removes every done item and reports how many were removed.
func (l TodoList) ClearCompleted() (TodoList, int) {
	next := TodoList{Items: make([]Item, 0, len(l.Items))}
	for _, it := range l.Items {
		if !it.Done {
			next.Items = append(next.Items, it)
		}
	}
	return next, len(l.Items) - len(next.Items)
}

// Filter returns the items selected by f in list order.
func (l TodoList) Filter(f Filter) []Item {
	out := make([]Item, 0, len(l.Items))
	for _, it := range l.Items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Remaining counts the items not yet done, over the whole list.
func (l TodoList) Remaining() int {
	n := 0
	for _, it := range l.Items {
		if !it.Done {
			n++
		}
	}
	return n
}

// TodoStore persists to-do lists keyed directly by client identity.
type TodoStore struct {
	records session.Store
}

// NewTodoStore creates a TodoStore.
func NewTodoStore(records session.Store) *TodoStore {
	return &TodoStore{records: records}
}

// Load returns the list stored for identity, or nil on first visit.
func (s *TodoStore) Load(ctx context.Context, identity string) (*TodoList, error) {
	data, err := s.records.Load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	if env.Todos == nil {
		return &TodoList{}, nil
	}
	return env.Todos, nil
}

// LoadOrEmpty is Load with the first-visit case mapped to an empty list.
func (s *TodoStore) LoadOrEmpty(ctx context.Context, identity string) (TodoList, error) {
	l, err := s.Load(ctx, identity)
	if err != nil {
		return TodoList{}, err
	}
	if l == nil {
		return TodoList{}, nil
	}
	return *l, nil
}

// Save overwrites the list stored for identity.
func (s *TodoStore) Save(ctx context.Context, identity string, l TodoList) error {
	if l.Items == nil {
		l.Items = []Item{}
	}
	data, err := encode(envelope{Todos: &l})
	if err != nil {
		return err
	}
	return s.records.Save(ctx, identity, data)
}
