package xsl

import (
	"errors"
	"fmt"
)

// ErrNotFound is reported by a Sources implementation that does not
// know the requested reference.
var ErrNotFound = errors.New("not found")

// ResourceError reports a stylesheet or document that could not be
// read from its location.
type ResourceError struct {
	Location string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: resource can not be read: %s", e.Location, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// CompileError reports a stylesheet rejected by the engine. Summary
// carries every diagnostic collected while compiling.
type CompileError struct {
	Engine  string
	Summary string
	Err     error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: stylesheet can not be compiled: %s", e.Engine, e.Err)
	if e.Summary != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.Summary)
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ExecuteError reports a transformation that failed while running a
// compiled stylesheet against a document.
type ExecuteError struct {
	Engine  string
	Summary string
	Err     error
}

func (e *ExecuteError) Error() string {
	msg := fmt.Sprintf("%s: document can not be transformed: %s", e.Engine, e.Err)
	if e.Summary != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.Summary)
	}
	return msg
}

func (e *ExecuteError) Unwrap() error {
	return e.Err
}
