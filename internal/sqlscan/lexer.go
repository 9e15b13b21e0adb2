// Package sqlscan provides a minimal quote-aware SQL scanner for SQLite
// statements, plus the statement classification and select analysis built on
// top of it. It does not parse SQL; it only finds keywords that sit outside
// strings, quoted identifiers, comments and parentheses.
package sqlscan

import (
	"strings"

	"github.com/leapstack-labs/rivet/pkg/token"
)

// Statement keywords used for classification only.
var (
	INSERT  = token.Register("INSERT")
	UPDATE  = token.Register("UPDATE")
	DELETE  = token.Register("DELETE")
	REPLACE = token.Register("REPLACE")
)

// Lexer tokenizes SQLite input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next significant token. Whitespace and comments are
// skipped. At the end of input it returns an EOF token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos, End: pos}
	}

	typ := l.scan()
	end := l.currentPos()
	return token.Token{
		Type:    typ,
		Literal: l.input[pos.Offset:end.Offset],
		Pos:     pos,
		End:     end,
	}
}

// scan consumes one token starting at the current char and returns its type.
func (l *Lexer) scan() token.TokenType {
	ch := l.ch
	switch ch {
	case '+':
		return l.single(token.PLUS)
	case '-':
		return l.single(token.MINUS)
	case '*':
		return l.single(token.STAR)
	case '/':
		return l.single(token.SLASH)
	case '%':
		return l.single(token.PERCENT)
	case ',':
		return l.single(token.COMMA)
	case '(':
		return l.single(token.LPAREN)
	case ')':
		return l.single(token.RPAREN)
	case ';':
		return l.single(token.SEMICOLON)
	case '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
		}
		return token.EQ
	case '<':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			return token.LE
		case '>':
			l.readChar()
			return token.NE
		}
		return token.LT
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.GE
		}
		return token.GT
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.NE
		}
		return token.ILLEGAL
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return token.DPIPE
		}
		return token.ILLEGAL
	case '.':
		if isDigit(l.peekChar()) {
			l.readNumber()
			return token.NUMBER
		}
		return l.single(token.DOT)
	case '\'':
		l.readQuoted('\'')
		return token.STRING
	case '"', '`':
		l.readQuoted(ch)
		return token.IDENT
	case '[':
		l.readBracketed()
		return token.IDENT
	case '?':
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		return token.PARAM
	case ':', '@', '$':
		if !isIdentChar(l.peekChar()) {
			return l.single(token.ILLEGAL)
		}
		l.readChar()
		for isIdentChar(l.ch) {
			l.readChar()
		}
		return token.PARAM
	}

	switch {
	case (ch == 'x' || ch == 'X') && l.peekChar() == '\'':
		l.readChar()
		l.readQuoted('\'')
		return token.BLOB
	case isIdentStart(ch):
		start := l.pos
		for isIdentChar(l.ch) {
			l.readChar()
		}
		return token.LookupIdent(strings.ToLower(l.input[start:l.pos]))
	case isDigit(ch):
		l.readNumber()
		return token.NUMBER
	}
	return l.single(token.ILLEGAL)
}

func (l *Lexer) single(t token.TokenType) token.TokenType {
	l.readChar()
	return t
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		// Line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			continue
		}

		// Block comment (/* ... */), unterminated runs to end of input
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

// readQuoted consumes a quoted run where a doubled quote is an escape.
// An unterminated run extends to the end of input.
func (l *Lexer) readQuoted(quote byte) {
	l.readChar() // skip opening quote
	for !l.atEOF() {
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readBracketed() {
	l.readChar() // skip [
	for !l.atEOF() && l.ch != ']' {
		l.readChar()
	}
	if !l.atEOF() {
		l.readChar()
	}
}

// readNumber reads an integer, decimal, scientific or hex literal.
func (l *Lexer) readNumber() {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
}

// Bytes >= 0x80 belong to multi-byte UTF-8 sequences, which SQLite accepts
// in unquoted identifiers.
func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// Tokenize returns all significant tokens from the input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
