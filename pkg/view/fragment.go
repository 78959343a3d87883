package view

import (
	"fmt"

	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/vdom"
)

// Kind identifies one of the fragment variants.
type Kind uint8

const (
	KindNameForm Kind = iota + 1
	KindNameHeader
	KindCounter
	KindTodoList
	KindTodoItem
	KindEditItem
	KindItemCount
)

func (k Kind) String() string {
	switch k {
	case KindNameForm:
		return "name_form"
	case KindNameHeader:
		return "name_header"
	case KindCounter:
		return "counter"
	case KindTodoList:
		return "todo_list"
	case KindTodoItem:
		return "todo_item"
	case KindEditItem:
		return "edit_item"
	case KindItemCount:
		return "item_count"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Element ids of the singleton fragments.
const (
	IDNameForm   = "name-form"
	IDNameHeader = "name-header"
	IDCounter    = "counter"
	IDTodoList   = "todo-list"
	IDItemCount  = "item-count"
	IDNewTodo    = "new-todo"

	// IDCurrentFilter is the hidden input that carries the page's filter
	// into every to-do mutation.
	IDCurrentFilter = "current-filter"
)

// ItemElementID returns the element id of a to-do item and its edit form.
func ItemElementID(itemID string) string {
	return "todo-" + itemID
}

// Fragment is one swappable region. Only the fields its Kind reads are set;
// use the constructors below rather than filling it in by hand.
type Fragment struct {
	Kind Kind

	// OOB marks a secondary fragment.
	OOB bool

	Name      string       // KindNameHeader
	Count     uint64       // KindCounter
	Item      state.Item   // KindTodoItem, KindEditItem
	Items     []state.Item // KindTodoList
	Remaining int          // KindItemCount
}

// NameForm asks an anonymous client for a name and a starting count.
func NameForm() Fragment { return Fragment{Kind: KindNameForm} }

// NameHeader greets a named client.
func NameHeader(name string) Fragment { return Fragment{Kind: KindNameHeader, Name: name} }

// CounterFragment shows the count and the increment button.
func CounterFragment(n uint64) Fragment { return Fragment{Kind: KindCounter, Count: n} }

// TodoList lists items in the given order.
func TodoList(items []state.Item) Fragment { return Fragment{Kind: KindTodoList, Items: items} }

// TodoItem is one list entry.
func TodoItem(it state.Item) Fragment { return Fragment{Kind: KindTodoItem, Item: it} }

// EditItem is the inline rename form that temporarily replaces an entry.
func EditItem(it state.Item) Fragment { return Fragment{Kind: KindEditItem, Item: it} }

// ItemCount shows how many items are not done.
func ItemCount(remaining int) Fragment { return Fragment{Kind: KindItemCount, Remaining: remaining} }

// Secondary returns f marked for an out-of-band swap.
func (f Fragment) Secondary() Fragment {
	f.OOB = true
	return f
}

// ElementID returns the id attribute the fragment renders with.
func (f Fragment) ElementID() string {
	switch f.Kind {
	case KindNameForm:
		return IDNameForm
	case KindNameHeader:
		return IDNameHeader
	case KindCounter:
		return IDCounter
	case KindTodoList:
		return IDTodoList
	case KindTodoItem, KindEditItem:
		return ItemElementID(f.Item.ID)
	case KindItemCount:
		return IDItemCount
	default:
		return ""
	}
}

// Node builds the fragment's tree.
func (f Fragment) Node() (*vdom.VNode, error) {
	var n *vdom.VNode
	switch f.Kind {
	case KindNameForm:
		n = nameForm()
	case KindNameHeader:
		n = nameHeader(f.Name)
	case KindCounter:
		n = counter(f.Count)
	case KindTodoList:
		n = todoList(f.Items)
	case KindTodoItem:
		n = todoItem(f.Item)
	case KindEditItem:
		n = editItem(f.Item)
	case KindItemCount:
		n = itemCount(f.Remaining)
	default:
		return nil, fmt.Errorf("view: unknown fragment kind %s", f.Kind)
	}
	if f.OOB {
		n.Props["hx-swap-oob"] = vdom.HxSwapOOB().Value
	}
	return n, nil
}
