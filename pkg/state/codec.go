package state

import (
	"encoding/json"
	"fmt"
)

// CurrentSerializationVersion is the current version of the record envelope.
// Increment when making breaking changes to the format.
const CurrentSerializationVersion = 1

// envelope is the JSON-serializable wrapper around every stored record.
type envelope struct {
	Version  int       `json:"version"`
	StateKey string    `json:"state_key,omitempty"`
	Counter  *Counter  `json:"counter,omitempty"`
	Todos    *TodoList `json:"todos,omitempty"`
}

func encode(env envelope) ([]byte, error) {
	env.Version = CurrentSerializationVersion
	return json.Marshal(env)
}

func decode(data []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("state: decode record: %w", err)
	}
	if env.Version > CurrentSerializationVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return &env, nil
}
