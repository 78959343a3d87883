package server

import (
	"errors"
	"net/http"

	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

// handleCounterPage renders the counter page: the name form for an
// anonymous client, the greeting and counter for a named one.
func (s *Server) handleCounterPage(w http.ResponseWriter, r *http.Request) {
	id := s.identity(w, r)

	_, rec, err := s.counter.LoadForIdentity(r.Context(), id.ID)
	if err != nil && !errors.Is(err, state.ErrNoSession) {
		s.fail(w, r, "view", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.composer.CounterPage(w, rec); err != nil {
		s.fail(w, r, "view", renderError(err))
	}
}

// handleSubmitName binds the client to a state key and stores its first
// record. The header and counter replace the name form.
func (s *Server) handleSubmitName(w http.ResponseWriter, r *http.Request) {
	const action = "submit_name"
	id := s.identity(w, r)

	form, err := parseNameForm(r)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}

	key, err := s.counter.Bind(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	rec := state.Counter{Count: form.Count, Name: form.Name}
	if err := s.counter.Save(r.Context(), key, rec); err != nil {
		s.fail(w, r, action, err)
		return
	}

	s.fragments(w, r, action, view.NameHeader(rec.Name), view.CounterFragment(rec.Count))
}

// handleIncrement raises the count by one. A client without a record gets
// ErrNoSession; no record is created.
func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	const action = "increment"
	id := s.identity(w, r)

	key, rec, err := s.counter.LoadForIdentity(r.Context(), id.ID)
	if err != nil {
		s.fail(w, r, action, err)
		return
	}
	next := rec.Increment()
	if err := s.counter.Save(r.Context(), key, next); err != nil {
		s.fail(w, r, action, err)
		return
	}

	s.fragments(w, r, action, view.CounterFragment(next.Count))
}
