package models

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was present in a request body. A present key with a
// null value has Set true and Value nil.
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only called for keys present in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// NewField returns a set field holding v.
func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// NullField returns a set field holding an explicit null.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}
