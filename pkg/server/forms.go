package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

// nameForm is the body of POST /name.
type nameForm struct {
	Name  string
	Count uint64
}

func parseNameForm(r *http.Request) (nameForm, error) {
	if err := r.ParseForm(); err != nil {
		return nameForm{}, malformed("body", err.Error())
	}
	name, err := parseText("name", r.PostForm.Get("name"))
	if err != nil {
		return nameForm{}, err
	}
	count, err := parseCount(r.PostForm.Get("count"))
	if err != nil {
		return nameForm{}, err
	}
	return nameForm{Name: name, Count: count}, nil
}

// parseLabel reads the "todo" field of a to-do form.
func parseLabel(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", malformed("body", err.Error())
	}
	return parseText("todo", r.PostForm.Get("todo"))
}

// parseText trims raw and checks it is non-empty valid UTF-8 of at most
// view.MaxInputLength runes.
func parseText(field, raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", malformed(field, "invalid UTF-8")
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", malformed(field, "required")
	}
	if utf8.RuneCountInString(v) > view.MaxInputLength {
		return "", malformed(field, "too long")
	}
	return v, nil
}

// parseCount reads a base-10 unsigned integer of at most state.MaxCount.
// Empty means zero.
func parseCount(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, malformed("count", "too large")
		}
		return 0, malformed("count", "not a non-negative integer")
	}
	if n > state.MaxCount {
		return 0, malformed("count", "too large")
	}
	return n, nil
}
