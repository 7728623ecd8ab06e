package gw2dat

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by this package. Use errors.Is to match them.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFormat       = errors.New("format error")
	ErrIO           = errors.New("io error")
	ErrIndex        = errors.New("index out of range")
)

// Error describes a failed archive operation.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gw2dat: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("gw2dat: %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind == target }

func ioErr(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrIO, Op: op, Err: errors.WithStack(err)}
}

func formatErr(op string, format string, args ...interface{}) error {
	return &Error{Kind: ErrFormat, Op: op, Err: errors.Errorf(format, args...)}
}

func indexErr(op string, format string, args ...interface{}) error {
	return &Error{Kind: ErrIndex, Op: op, Err: errors.Errorf(format, args...)}
}

func invalidInputErr(op string, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Err: errors.Errorf(format, args...)}
}
