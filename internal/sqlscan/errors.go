package sqlscan

import "errors"

var (
	// ErrNoFromClause is returned when a select has no top-level FROM to count from.
	ErrNoFromClause = errors.New("query has no top-level FROM clause")

	// ErrUnpageable is returned when a user LIMIT or OFFSET is not an integer literal.
	ErrUnpageable = errors.New("query has a non-literal LIMIT or OFFSET")

	// ErrMultipleStatements is returned when one line holds more than one statement.
	ErrMultipleStatements = errors.New("multiple statements are not supported")
)
