package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is an insertion-ordered map from branch name to branch output.
// Fan-in operations return it so callers see keys in composition order
// regardless of which branch finished first. JSON marshaling follows the
// same order.
type Result struct {
	keys   []string
	values map[string]any
}

func NewResult() *Result {
	return &Result{values: make(map[string]any)}
}

// Set inserts or updates a key. First insertion fixes the key's position.
func (r *Result) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Result) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Result) Len() int {
	return len(r.keys)
}

// Keys returns the key order as a copy.
func (r *Result) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// AsMap returns a shallow copy of the underlying map.
func (r *Result) AsMap() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// Clone returns a shallow copy: new key slice and map, shared values.
func (r *Result) Clone() *Result {
	clone := &Result{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(clone.keys, r.keys)
	for k, v := range r.values {
		clone.values[k] = v
	}
	return clone
}

func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result key %q: %w", key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valueBytes, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result value for %q: %w", key, err)
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
