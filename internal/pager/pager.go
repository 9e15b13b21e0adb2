// Package pager splits the result of a read statement into fixed-size pages
// by rewriting its LIMIT and OFFSET. It composes with any LIMIT or OFFSET the
// statement already carries.
package pager

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/sqlscan"
)

// DefaultPageSize is the number of rows fetched per page.
const DefaultPageSize = 500

// ErrPageOutOfRange is returned when a page past the last is requested.
var ErrPageOutOfRange = errors.New("page out of range")

// Querier runs read statements. *session.Session satisfies it.
type Querier interface {
	Select(ctx context.Context, query string) ([][]string, error)
}

// Selection is a paged view over one read statement.
// The row count is taken once, when the Selection is created.
type Selection struct {
	q        Querier
	query    string
	info     sqlscan.SelectInfo
	size     int64
	pageSize int
	index    int
}

// NewSelection analyses query and counts the rows it yields.
//
// It fails with a *session.QueryError wrapping sqlscan.ErrNoFromClause when a
// plain select has nothing to count from, and with sqlscan.ErrUnpageable when
// the statement's own LIMIT or OFFSET is not an integer literal. Callers fall
// back to an unpaged read in both cases.
func NewSelection(ctx context.Context, q Querier, query string, pageSize int) (*Selection, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	info := sqlscan.AnalyzeSelect(query)
	if !info.Literal {
		return nil, sqlscan.ErrUnpageable
	}

	total, err := count(ctx, q, info)
	if err != nil {
		return nil, err
	}

	size := max(total-info.UserOffset, 0)
	if info.UserLimit >= 0 {
		size = min(size, info.UserLimit)
	}

	return &Selection{
		q:        q,
		query:    query,
		info:     info,
		size:     size,
		pageSize: pageSize,
	}, nil
}

// count returns the number of rows the statement yields before its own
// LIMIT and OFFSET. A plain select is counted by substituting COUNT(*) for its
// select list; anything that would change the row count under substitution is
// wrapped as a subquery instead. If the substituted form is rejected, for
// example because WHERE refers to a select-list alias, the wrapped form is
// tried before giving up.
func count(ctx context.Context, q Querier, info sqlscan.SelectInfo) (int64, error) {
	wrapped := "SELECT COUNT(*) FROM (" + info.Base() + ")"
	if info.NeedsWrap() {
		return runCount(ctx, q, wrapped)
	}

	body := info.Body()
	if body == "" {
		return 0, &session.QueryError{Query: info.Text, Err: sqlscan.ErrNoFromClause}
	}
	n, err := runCount(ctx, q, "SELECT COUNT(*) "+body)
	if err == nil {
		return n, nil
	}
	if n, werr := runCount(ctx, q, wrapped); werr == nil {
		return n, nil
	}
	return 0, err
}

func runCount(ctx context.Context, q Querier, query string) (int64, error) {
	rows, err := q.Select(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 || len(rows[0]) != 1 {
		return 0, &session.QueryError{Query: query, Err: fmt.Errorf("count query returned %d rows", len(rows))}
	}
	n, err := strconv.ParseInt(rows[0][0], 10, 64)
	if err != nil {
		return 0, &session.QueryError{Query: query, Err: fmt.Errorf("count query returned %q: %w", rows[0][0], err)}
	}
	return n, nil
}

// PageCount returns the number of pages, zero when there are no rows.
func (s *Selection) PageCount() int {
	return int((s.size + int64(s.pageSize) - 1) / int64(s.pageSize))
}

// PageQuery returns the statement that fetches page n, or "" when page n
// holds no rows.
func (s *Selection) PageQuery(n int) (string, error) {
	limit, err := s.pageLimit(n)
	if err != nil || limit == 0 {
		return "", err
	}
	offset := s.info.UserOffset + int64(s.pageSize)*int64(n)
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", s.info.Base(), limit, offset), nil
}

func (s *Selection) pageLimit(n int) (int64, error) {
	pages := s.PageCount()
	if n < 0 || n > pages {
		return 0, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, n, pages)
	}
	if n >= pages {
		return 0, nil
	}
	if n == pages-1 {
		return s.size - int64(pages-1)*int64(s.pageSize), nil
	}
	return int64(s.pageSize), nil
}

// Page fetches page n (zero-based) and makes it current. A page at the end
// returns no rows without querying.
func (s *Selection) Page(ctx context.Context, n int) ([][]string, error) {
	query, err := s.PageQuery(n)
	if err != nil {
		return nil, err
	}
	s.index = n
	if query == "" {
		return nil, nil
	}
	return s.q.Select(ctx, query)
}

// Query returns the statement the selection pages over.
func (s *Selection) Query() string { return s.query }

// Size returns the number of rows across all pages.
func (s *Selection) Size() int64 { return s.size }

// PageIndex returns the current page.
func (s *Selection) PageIndex() int { return s.index }

// PageSize returns the number of rows per full page.
func (s *Selection) PageSize() int { return s.pageSize }
