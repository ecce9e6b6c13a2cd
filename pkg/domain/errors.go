package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrReservedDigit is returned when digit 0 is used as a menu key.
	ErrReservedDigit = errors.New("digit 0 is reserved for resetting the soundboard")

	// ErrInvalidNode is returned when a node value is neither text nor an object.
	ErrInvalidNode = errors.New("not a string or object")

	// ErrUnknownKey is returned for keys a soundboard object does not accept.
	ErrUnknownKey = errors.New("unrecognized key")

	// ErrDuplicateKey is returned when a mapping assigns the same key twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotObject is returned when a soundboard document is not a mapping.
	ErrNotObject = errors.New("soundboard is not an object")

	// ErrCommandTooLong is returned when a generated command exceeds the console's length ceiling.
	ErrCommandTooLong = errors.New("exceeds max command length")

	// ErrTooManyNodes is returned when a source expands to more entries than the loader accepts.
	ErrTooManyNodes = errors.New("too many menu entries")

	// ErrLineCount is returned when a message does not wrap to its asserted number of lines.
	ErrLineCount = errors.New("line count assertion failed")

	// ErrArtifactNotFound is returned when a compiled artifact is missing from a store.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ErrorKind classifies compile failures.
type ErrorKind string

const (
	// KindStructural covers malformed trees: reserved digits, bad values, unknown keys.
	KindStructural ErrorKind = "structural"
	// KindCapacity covers output that does not fit the console's limits, and
	// sources too large to load.
	KindCapacity ErrorKind = "capacity"
)

// CompileError ties a failure to the path of the node that caused it.
type CompileError struct {
	Path   Path
	Line   int // source line, when known
	Err    error
	Detail string
}

func (e *CompileError) Error() string {
	loc := "soundboard"
	if len(e.Path) > 0 {
		loc += "." + e.Path.Dotted()
	}
	if e.Line > 0 {
		loc += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", loc, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", loc, e.Err, e.Detail)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Kind reports whether the error is structural or a capacity overflow.
func (e *CompileError) Kind() ErrorKind {
	if errors.Is(e.Err, ErrCommandTooLong) || errors.Is(e.Err, ErrTooManyNodes) {
		return KindCapacity
	}
	return KindStructural
}

// NewCompileError builds a CompileError for path. The path is copied.
func NewCompileError(path Path, err error, detail string) *CompileError {
	return &CompileError{Path: append(Path(nil), path...), Err: err, Detail: detail}
}

// AggregateError collects every problem found in a soundboard.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d problems:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Problems returns the collected errors if err is an AggregateError,
// err itself if it is any other error, and nil otherwise.
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}
