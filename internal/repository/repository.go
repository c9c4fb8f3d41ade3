// Package repository persists learner profiles and round history.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

var (
	// ErrNotFound is returned when no row matches the lookup key
	ErrNotFound = errors.New("not found")
	// ErrConcurrentUpdate is returned when a profile changed since it was read
	ErrConcurrentUpdate = errors.New("profile was modified concurrently")
)

// builder emits ? placeholders; database.DB rewrites them per dialect
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func encodeJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	return string(data), nil
}

func decodeJSON(column, data string, v interface{}) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	return nil
}
