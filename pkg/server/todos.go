package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

// formFilter reads the filter the page is showing, sent along with every
// mutation from the page's hidden filter input.
func formFilter(r *http.Request) state.Filter {
	return state.ParseFilter(r.FormValue("filter"))
}

// itemFragments answers a mutation of item. The item fragment is left out
// when filter hides it, so the empty outerHTML swap drops it from the list.
func itemFragments(filter state.Filter, item state.Item, remaining int) []view.Fragment {
	frags := make([]view.Fragment, 0, 2)
	if filter.Matches(item) {
		frags = append(frags, view.TodoItem(item))
	}
	return append(frags, view.ItemCount(remaining).Secondary())
}

func (s *Server) handleTodoPage(w http.ResponseWriter, r *http.Request) {
	id := s.identity(w, r)
	filter := state.ParseFilter(r.URL.Query().Get("filter"))

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, "list", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.composer.TodoPage(w, list, filter); err != nil {
		s.fail(w, r, "list", renderError(err))
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	const action = "add"
	id := s.identity(w, r)

	label, err := parseLabel(r)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next, item := list.Add(label, s.newItemID)
	if err := s.todos.Save(r.Context(), id.ID, next); err != nil {
		s.fail(w, r, action, err)
		return
	}

	s.fragments(w, r, action, itemFragments(formFilter(r), item, next.Remaining())...)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	const action = "toggle"
	id := s.identity(w, r)

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next, item, err := list.Toggle(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	if err := s.todos.Save(r.Context(), id.ID, next); err != nil {
		s.fail(w, r, action, err)
		return
	}

	s.fragments(w, r, action, itemFragments(formFilter(r), item, next.Remaining())...)
}

// handleEditForm swaps an item for its inline edit form.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	const action = "edit"
	id := s.identity(w, r)

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	item, ok := list.Find(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, r, action, state.ErrItemNotFound)
		return
	}

	s.fragments(w, r, action, view.EditItem(item))
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	const action = "rename"
	id := s.identity(w, r)

	label, err := parseLabel(r)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next, item, err := list.Rename(chi.URLParam(r, "id"), label)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	if err := s.todos.Save(r.Context(), id.ID, next); err != nil {
		s.fail(w, r, action, err)
		return
	}

	s.fragments(w, r, action, itemFragments(formFilter(r), item, next.Remaining())...)
}

// handleDelete removes an item. Deleting an unknown id only reports the
// current count.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	const action = "delete"
	id := s.identity(w, r)

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next, removed := list.Delete(chi.URLParam(r, "id"))
	if removed {
		if err := s.todos.Save(r.Context(), id.ID, next); err != nil {
			s.fail(w, r, action, err)
			return
		}
	}

	s.fragments(w, r, action, view.ItemCount(next.Remaining()).Secondary())
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	const action = "clear_completed"
	id := s.identity(w, r)

	list, err := s.todos.LoadOrEmpty(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next, cleared := list.ClearCompleted()
	if cleared > 0 {
		if err := s.todos.Save(r.Context(), id.ID, next); err != nil {
			s.fail(w, r, action, err)
			return
		}
	}

	s.fragments(w, r, action, view.TodoList(next.Filter(formFilter(r))), view.ItemCount(next.Remaining()).Secondary())
}
