package session

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly matches any write attempted on a read-only session.
	ErrReadOnly = errors.New("read only database")

	// ErrEmptyQuery is returned when there is no statement to run.
	ErrEmptyQuery = errors.New("empty query")

	// ErrNotRead is returned when column names are asked of a statement that
	// is not a read.
	ErrNotRead = errors.New("statement does not return rows")
)

// StartupError reports that a database could not be opened.
// It is the only error that ends the program.
type StartupError struct {
	Path    string
	Message string
	Err     error
}

func (e *StartupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// ReadOnlyError reports a write statement rejected by a read-only session.
type ReadOnlyError struct {
	Operation string
}

func (e *ReadOnlyError) Error() string {
	if e.Operation == "" {
		return "attempted a write operation on a read only database"
	}
	return fmt.Sprintf("attempted a write operation (%s) on a read only database", e.Operation)
}

// Is lets errors.Is(err, ErrReadOnly) match.
func (e *ReadOnlyError) Is(target error) bool {
	return target == ErrReadOnly
}

// QueryError wraps a failure reported by the database engine. The message
// is the engine's own.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
