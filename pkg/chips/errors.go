package chips

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an identifier lookup or status-report
	// scan turns up nothing.
	ErrNotFound = errors.New("not found")

	// ErrLabelCount is returned when a relabel sequence does not match
	// the number of legend entries.
	ErrLabelCount = errors.New("number of labels does not match the number of curves")
)

// PreconditionError reports a host state the operation cannot work
// with, such as more than one window being open.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}
