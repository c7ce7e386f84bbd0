package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInFlight is returned when a save or delete for the same draft is still running
	ErrInFlight = errors.New("a save is already in progress")

	// ErrValidation is returned when required fields are missing
	ErrValidation = errors.New("validation failed")

	// ErrRowNotFound is returned for an unknown row key
	ErrRowNotFound = errors.New("row not found")

	// ErrMissingID is returned when a create call answers without an id
	ErrMissingID = errors.New("created row has no id")
)

// ValidationError lists the offending fields by their JSON names
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
