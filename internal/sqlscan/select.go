package sqlscan

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/rivet/pkg/token"
)

// aggregates are the builtin aggregate functions. A top-level call to one of
// them collapses the result to a single row, so the row count cannot be taken
// by swapping the select list.
var aggregates = map[string]struct{}{
	"avg":          {},
	"count":        {},
	"group_concat": {},
	"max":          {},
	"min":          {},
	"string_agg":   {},
	"sum":          {},
	"total":        {},
}

// SelectInfo describes the top-level structure of a read statement.
// Offsets index into Text and are -1 when the clause is absent.
type SelectInfo struct {
	// Text is the statement with surrounding whitespace, trailing semicolons
	// and trailing comments removed.
	Text string

	From  int // first top-level FROM
	Order int // first top-level ORDER
	Limit int // last top-level LIMIT

	// orderCut and limitCut are where the text before ORDER and LIMIT ends,
	// past the preceding token, so comments between the two are dropped.
	orderCut int
	limitCut int

	// UserLimit is the row cap the statement itself asks for, -1 for none.
	UserLimit int64
	// UserOffset is the number of rows the statement itself skips.
	UserOffset int64
	// Literal is false when a LIMIT is present but its bounds are not integer
	// literals.
	Literal bool

	Compound  bool // UNION, INTERSECT or EXCEPT at top level
	Grouped   bool // GROUP BY, HAVING or WINDOW at top level
	Distinct  bool // DISTINCT at top level
	Aggregate bool // top-level call to an aggregate function
	With      bool // leading WITH clause
	Values    bool // bare VALUES statement
}

// NeedsWrap reports whether the row count must be taken over the whole
// statement as a subquery rather than by substituting the select list.
func (s SelectInfo) NeedsWrap() bool {
	return s.Compound || s.Grouped || s.Distinct || s.Aggregate || s.With || s.Values
}

// Base returns the statement text before the user's LIMIT clause, or the
// whole text when there is none.
func (s SelectInfo) Base() string {
	if s.Limit < 0 {
		return s.Text
	}
	return s.Text[:s.limitCut]
}

// Body returns the text from the top-level FROM up to the first ORDER or
// LIMIT, whichever comes first. It is empty when there is no FROM.
func (s SelectInfo) Body() string {
	if s.From < 0 {
		return ""
	}
	end := len(s.Text)
	if s.Order > s.From && s.orderCut < end {
		end = s.orderCut
	}
	if s.Limit > s.From && s.limitCut < end {
		end = s.limitCut
	}
	return s.Text[s.From:end]
}

// AnalyzeSelect scans a read statement and records the positions and shape
// flags needed to count and page it.
func AnalyzeSelect(query string) SelectInfo {
	info := SelectInfo{
		From:      -1,
		Order:     -1,
		Limit:     -1,
		UserLimit: -1,
		Literal:   true,
	}

	toks := significant(Tokenize(query))
	if len(toks) == 0 {
		return info
	}

	start := toks[0].Pos.Offset
	info.Text = query[start:toks[len(toks)-1].End.Offset]
	info.With = toks[0].Type == token.WITH
	info.Values = toks[0].Type == token.VALUES

	limitIdx := -1
	depth := 0
	for i, tok := range toks {
		switch tok.Type {
		case token.LPAREN:
			depth++
			continue
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 {
			continue
		}

		switch tok.Type {
		case token.FROM:
			if info.From < 0 {
				info.From = tok.Pos.Offset - start
			}
		case token.ORDER:
			if info.Order < 0 {
				info.Order = tok.Pos.Offset - start
				info.orderCut = cutBefore(toks, i, start)
			}
		case token.LIMIT:
			info.Limit = tok.Pos.Offset - start
			info.limitCut = cutBefore(toks, i, start)
			limitIdx = i
		case token.UNION, token.INTERSECT, token.EXCEPT:
			info.Compound = true
		case token.GROUP, token.HAVING, token.WINDOW:
			info.Grouped = true
		case token.DISTINCT:
			info.Distinct = true
		case token.IDENT:
			if i+1 < len(toks) && toks[i+1].Type == token.LPAREN {
				if _, ok := aggregates[strings.ToLower(tok.Literal)]; ok {
					info.Aggregate = true
				}
			}
		}
	}

	if limitIdx >= 0 {
		limit, offset, ok := parseLimit(toks[limitIdx+1:])
		if ok {
			info.UserLimit = limit
			info.UserOffset = offset
		} else {
			info.Literal = false
		}
	}
	return info
}

// cutBefore returns the offset, relative to start, just past the token
// preceding toks[i].
func cutBefore(toks []token.Token, i, start int) int {
	if i == 0 {
		return 0
	}
	return toks[i-1].End.Offset - start
}

// significant drops the EOF token and any trailing semicolons.
func significant(toks []token.Token) []token.Token {
	end := len(toks)
	for end > 0 {
		switch toks[end-1].Type {
		case token.EOF, token.SEMICOLON:
			end--
			continue
		}
		break
	}
	return toks[:end]
}

// parseLimit reads the tokens following LIMIT. Accepted forms are
// "n", "n OFFSET m" and "m, n". A negative limit means no limit and a
// negative offset counts as zero, matching SQLite.
func parseLimit(toks []token.Token) (limit, offset int64, ok bool) {
	first, rest, ok := parseInt(toks)
	if !ok {
		return 0, 0, false
	}
	if len(rest) == 0 {
		return normalizeLimit(first), 0, true
	}

	sep := rest[0].Type
	if sep != token.OFFSET && sep != token.COMMA {
		return 0, 0, false
	}
	second, rest, ok := parseInt(rest[1:])
	if !ok || len(rest) != 0 {
		return 0, 0, false
	}

	if sep == token.COMMA {
		first, second = second, first
	}
	return normalizeLimit(first), max(second, 0), true
}

func normalizeLimit(n int64) int64 {
	if n < 0 {
		return -1
	}
	return n
}

// parseInt reads an optionally signed integer literal from the front of toks.
func parseInt(toks []token.Token) (int64, []token.Token, bool) {
	neg := false
	if len(toks) > 0 && (toks[0].Type == token.MINUS || toks[0].Type == token.PLUS) {
		neg = toks[0].Type == token.MINUS
		toks = toks[1:]
	}
	if len(toks) == 0 || toks[0].Type != token.NUMBER {
		return 0, nil, false
	}

	lit := toks[0].Literal
	var (
		n   int64
		err error
	)
	if len(lit) > 2 && (lit[:2] == "0x" || lit[:2] == "0X") {
		n, err = strconv.ParseInt(lit[2:], 16, 64)
	} else {
		n, err = strconv.ParseInt(lit, 10, 64)
	}
	if err != nil {
		return 0, nil, false
	}
	if neg {
		n = -n
	}
	return n, toks[1:], true
}
