package state

import (
	"context"
	"fmt"

	"github.com/vango-dev/hxstate/pkg/session"
)

// StateKey is the storage key of a counter record. It is bound to a client
// identity but never equal to it.
type StateKey string

// Counter is the counter/name record.
type Counter struct {
	Count uint64 `json:"count"`
	Name  string `json:"name"`
}

// MaxCount is the largest count a record can hold. It is the largest integer
// a browser's number input represents exactly. Increment saturates here.
const MaxCount uint64 = 1<<53 - 1

// Increment returns the record with its count raised by one. A count at or
// above MaxCount is left at MaxCount.
func (c Counter) Increment() Counter {
	if c.Count >= MaxCount {
		c.Count = MaxCount
		return c
	}
	c.Count++
	return c
}

// CounterStore persists counter records behind an identity -> StateKey binding.
type CounterStore struct {
	bindings session.Store
	records  session.Store
	newKey   func() string
}

// CounterOption configures a CounterStore.
type CounterOption func(*CounterStore)

// WithKeyGenerator replaces the StateKey generator. Intended for tests.
func WithKeyGenerator(gen func() string) CounterOption {
	return func(s *CounterStore) {
		if gen != nil {
			s.newKey = gen
		}
	}
}

// NewCounterStore creates a CounterStore. bindings and records may be the
// same backend as long as their key spaces do not overlap.
func NewCounterStore(bindings, records session.Store, opts ...CounterOption) *CounterStore {
	s := &CounterStore{
		bindings: bindings,
		records:  records,
		newKey:   session.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the StateKey bound to identity, if any.
func (s *CounterStore) Lookup(ctx context.Context, identity string) (StateKey, bool, error) {
	data, err := s.bindings.Load(ctx, identity)
	if err != nil {
		return "", false, err
	}
	if data == nil {
		return "", false, nil
	}
	key, err := decodeBinding(data)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// Bind returns the StateKey bound to identity, allocating one atomically if
// none exists. Concurrent first calls for the same identity agree on a
// single key.
func (s *CounterStore) Bind(ctx context.Context, identity string) (StateKey, error) {
	if key, ok, err := s.Lookup(ctx, identity); err != nil || ok {
		return key, err
	}

	candidate, err := encode(envelope{StateKey: s.newKey()})
	if err != nil {
		return "", err
	}
	current, _, err := s.bindings.SaveIfAbsent(ctx, identity, candidate)
	if err != nil {
		return "", err
	}
	return decodeBinding(current)
}

// Load returns the record stored under key, or nil if none exists.
func (s *CounterStore) Load(ctx context.Context, key StateKey) (*Counter, error) {
	data, err := s.records.Load(ctx, string(key))
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
	if env.Counter == nil {
		return nil, fmt.Errorf("state: record %s has no counter payload", key)
	}
	return env.Counter, nil
}

// Save overwrites the record stored under key.
func (s *CounterStore) Save(ctx context.Context, key StateKey, c Counter) error {
	data, err := encode(envelope{Counter: &c})
	if err != nil {
		return err
	}
	return s.records.Save(ctx, string(key), data)
}

// LoadForIdentity resolves the binding and loads the record in one step.
// It returns ErrNoSession when identity has no binding or the bound record
// is missing.
func (s *CounterStore) LoadForIdentity(ctx context.Context, identity string) (StateKey, *Counter, error) {
	key, ok, err := s.Lookup(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrNoSession
	}
	rec, err := s.Load(ctx, key)
	if err != nil {
		return "", nil, err
	}
	if rec == nil {
		return key, nil, ErrNoSession
	}
	return key, rec, nil
}

func decodeBinding(data []byte) (StateKey, error) {
	env, err := decode(data)
	if err != nil {
		return "", err
	}
	if env.StateKey == "" {
		return "", fmt.Errorf("state: binding has no state key")
	}
	return StateKey(env.StateKey), nil
}
