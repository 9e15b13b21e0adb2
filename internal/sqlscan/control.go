package sqlscan

import "github.com/leapstack-labs/rivet/pkg/token"

// Transaction control keywords.
var (
	BEGIN    = token.Register("BEGIN")
	COMMIT   = token.Register("COMMIT")
	END      = token.Register("END")
	ROLLBACK = token.Register("ROLLBACK")
	TO       = token.Register("TO")
)

// Control identifies statements that start or finish a transaction.
type Control int

const (
	ControlNone Control = iota
	ControlBegin
	ControlCommit
	ControlRollback
)

// TransactionControl reports whether query is a BEGIN, COMMIT/END or
// ROLLBACK statement. ROLLBACK TO a savepoint is not transaction control.
func TransactionControl(query string) Control {
	l := NewLexer(query)
	first := l.NextToken()
	switch first.Type {
	case BEGIN:
		return ControlBegin
	case COMMIT, END:
		return ControlCommit
	case ROLLBACK:
		for {
			tok := l.NextToken()
			switch tok.Type {
			case TO:
				return ControlNone
			case token.EOF, token.SEMICOLON:
				return ControlRollback
			}
		}
	}
	return ControlNone
}

// Verb returns the first keyword of query in upper case, or "" when the
// query is empty. It names the operation in error messages.
func Verb(query string) string {
	first := NewLexer(query).NextToken()
	if first.Type == token.EOF {
		return ""
	}
	if token.IsKeyword(first.Type) {
		return first.Type.String()
	}
	return first.Literal
}
