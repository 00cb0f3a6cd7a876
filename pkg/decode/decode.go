// Package decode converts loosely typed data into typed values.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrBody indicates a request body that could not be decoded.
var ErrBody = errors.New("invalid request body")

// FromMap converts a generic map, such as a TOML table, into T by way of
// its JSON representation.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}

// JSON decodes a single JSON document from r into T, rejecting unknown
// fields and trailing data. Failures wrap ErrBody.
func JSON[T any](r io.Reader) (T, error) {
	var result T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrBody, err)
	}
	if dec.More() {
		return result, fmt.Errorf("%w: trailing data", ErrBody)
	}
	return result, nil
}
