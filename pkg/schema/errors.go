package schema

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when a registry is modified after Freeze.
var ErrFrozen = errors.New("schema registry is frozen")

// DuplicateTypeError is returned when an item name is registered twice.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("schema item %q is already registered", e.Name)
}

// UnknownTypeError reports a reference to an item that was never registered.
type UnknownTypeError struct {
	Name string // Missing item
	By   string // Item whose descriptor holds the reference, if any
}

func (e *UnknownTypeError) Error() string {
	if e.By == "" {
		return fmt.Sprintf("schema item %q is not registered", e.Name)
	}
	return fmt.Sprintf("schema item %q references unregistered item %q", e.By, e.Name)
}

// AggregateError represents multiple registry failures found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d schema errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
