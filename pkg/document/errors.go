package document

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument  = errors.New("document has no blocks")
	ErrExpectedArray  = errors.New("expected JSON array")
	ErrExpectedObject = errors.New("expected JSON object")
	ErrInvalidText    = errors.New("text must be a string")
	ErrInvalidType    = errors.New("type must be a string")
	ErrLeafAtRoot     = errors.New("text leaf at document root")
	ErrMissingText    = errors.New("leaf missing text")
)

// Error is a decoding error with the location of the offending node.
type Error struct {
	Op   string // "decode", "node", "leaf"
	Path string // e.g. "[3].children[1].text"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("document %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("document %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// ValidationError describes a broken structural invariant.
type ValidationError struct {
	Path    Path
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
