// Package token defines the token types produced by the SQL scanner.
//
// Clause keywords the scanner reasons about are constants (IDs 0-999) so they
// can be used in switches. Statement keywords that only matter for
// classification are registered dynamically via Register().
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier, including "quoted", `quoted` and [quoted] forms
	NUMBER // 123, 45.67, 1e10, 0x1F
	STRING // 'hello'
	BLOB   // x'0A0B'
	PARAM  // ?, ?1, :name, @name, $name

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // = or ==
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;

	// Clause keywords (alphabetical)
	ALL
	AS
	BY
	DISTINCT
	EXCEPT
	FROM
	GROUP
	HAVING
	INTERSECT
	LIMIT
	OFFSET
	ORDER
	RECURSIVE
	SELECT
	UNION
	VALUES
	WHERE
	WINDOW
	WITH

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	BLOB:   "BLOB",
	PARAM:  "PARAM",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",

	ALL:       "ALL",
	AS:        "AS",
	BY:        "BY",
	DISTINCT:  "DISTINCT",
	EXCEPT:    "EXCEPT",
	FROM:      "FROM",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	INTERSECT: "INTERSECT",
	LIMIT:     "LIMIT",
	OFFSET:    "OFFSET",
	ORDER:     "ORDER",
	RECURSIVE: "RECURSIVE",
	SELECT:    "SELECT",
	UNION:     "UNION",
	VALUES:    "VALUES",
	WHERE:     "WHERE",
	WINDOW:    "WINDOW",
	WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"as":        AS,
	"by":        BY,
	"distinct":  DISTINCT,
	"except":    EXCEPT,
	"from":      FROM,
	"group":     GROUP,
	"having":    HAVING,
	"intersect": INTERSECT,
	"limit":     LIMIT,
	"offset":    OFFSET,
	"order":     ORDER,
	"recursive": RECURSIVE,
	"select":    SELECT,
	"union":     UNION,
	"values":    VALUES,
	"where":     WHERE,
	"window":    WINDOW,
	"with":      WITH,
}

// LookupIdent returns the token type for a lowercase identifier.
// Builtin keywords win over dynamically registered ones; anything else is IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if tok, ok := LookupDynamicKeyword(ident); ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a builtin or registered keyword.
func IsKeyword(t TokenType) bool {
	return (t >= ALL && t <= WITH) || IsDynamic(t)
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= SEMICOLON
}

// Token is a lexical token with its source span.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first byte of the token
	End     Position // one past the last byte of the token
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}
