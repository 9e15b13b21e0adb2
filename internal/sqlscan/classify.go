package sqlscan

import "github.com/leapstack-labs/rivet/pkg/token"

// Kind is the coarse classification of a statement.
type Kind int

const (
	// KindEmpty is input with nothing but whitespace and comments.
	KindEmpty Kind = iota
	// KindRead is a statement that returns rows: SELECT, VALUES, or WITH ... SELECT.
	KindRead
	// KindWrite is everything else, including DDL and PRAGMA.
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Classify reports whether query is a read or a write.
func Classify(query string) Kind {
	l := NewLexer(query)
	first := l.NextToken()
	for first.Type == token.SEMICOLON {
		first = l.NextToken()
	}

	switch first.Type {
	case token.EOF:
		return KindEmpty
	case token.SELECT, token.VALUES:
		return KindRead
	case token.WITH:
		return classifyWith(l)
	default:
		return KindWrite
	}
}

// classifyWith looks past the common table expressions for the first
// top-level statement keyword.
func classifyWith(l *Lexer) Kind {
	depth := 0
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.EOF:
			return KindWrite
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		case token.SELECT, token.VALUES:
			if depth == 0 {
				return KindRead
			}
		case INSERT, UPDATE, DELETE, REPLACE:
			if depth == 0 {
				return KindWrite
			}
		}
	}
}

// Keywords that decide where a statement ends.
var (
	CASE    = token.Register("CASE")
	CREATE  = token.Register("CREATE")
	TRIGGER = token.Register("TRIGGER")
)

// MultipleStatements reports whether query holds more than one statement.
// Empty statements between semicolons do not count, and the semicolons inside
// a CREATE TRIGGER body do not end the statement.
func MultipleStatements(query string) bool {
	toks := Tokenize(query)
	i := 0
	for toks[i].Type == token.SEMICOLON {
		i++
	}
	trigger := isCreateTrigger(toks[i:])

	block := 0
	for ; i < len(toks); i++ {
		switch toks[i].Type {
		case token.EOF:
			return false
		case BEGIN, CASE:
			if trigger {
				block++
			}
		case END:
			if trigger && block > 0 {
				block--
			}
		case token.SEMICOLON:
			if block > 0 {
				continue
			}
			for _, rest := range toks[i+1:] {
				switch rest.Type {
				case token.SEMICOLON:
				case token.EOF:
					return false
				default:
					return true
				}
			}
		}
	}
	return false
}

// isCreateTrigger matches CREATE [TEMP|TEMPORARY] TRIGGER.
func isCreateTrigger(toks []token.Token) bool {
	if len(toks) < 2 || toks[0].Type != CREATE {
		return false
	}
	if toks[1].Type == TRIGGER {
		return true
	}
	return len(toks) > 2 && toks[2].Type == TRIGGER
}
