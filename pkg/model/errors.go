package model

import (
	"errors"
	"fmt"

	"github.com/kadavr95/spoiler/pkg/schema"
)

// ErrDetached is returned when an operation needs a node or position that is not
// part of any tree.
var ErrDetached = errors.New("node is detached")

// PathError reports an offset path that does not resolve to a position.
type PathError struct {
	Path   []int
	Depth  int
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %v at depth %d: %s", e.Path, e.Depth, e.Reason)
}

// SchemaViolationError is returned by Change when the tree would not satisfy the
// schema at commit. The transaction has been rolled back.
type SchemaViolationError struct {
	Context schema.Context // Parent chain of the offending node
	Child   string         // Offending node, or the element whose invariant failed
	Reason  string
	Cause   error
}

func (e *SchemaViolationError) Error() string {
	msg := fmt.Sprintf("schema violation: %s in %q: %s", e.Child, e.Context.String(), e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// NotAllowedError is returned when a node cannot be placed at or above a position.
type NotAllowedError struct {
	Name     string
	Position Position
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("%s is not allowed at %s (%s)", e.Name, e.Position, e.Position.Context())
}
