package model

import (
	"errors"
	"fmt"
)

// Conversion errors. Callers detect them with errors.Is; every one of them
// aborts the whole conversion of the affected document.
var (
	// ErrMalformedDocument is returned when the document does not have the
	// content/Nodes/Node shape or a node lacks its identity.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingField is returned when a node selected for conversion lacks a
	// field its rule requires.
	ErrMissingField = errors.New("missing field")

	// ErrUnsupportedPlugin is returned when a node matches a rule but its
	// configuration shape is not one the rule can rebuild.
	ErrUnsupportedPlugin = errors.New("unsupported plugin")
)

// NodeError attaches node coordinates to a conversion error
type NodeError struct {
	Index  int
	ToolID string
	Rule   string
	Err    error
}

func (e *NodeError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("node[%d] (ToolID: %v): %v", e.Index, e.ToolID, e.Err)
	}
	return fmt.Sprintf("node[%d] (ToolID: %v, rule: %v): %v", e.Index, e.ToolID, e.Rule, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrMalformedDocument, fmt.Sprintf(format, args...))
}
