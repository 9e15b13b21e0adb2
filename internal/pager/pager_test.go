package pager

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/sqlscan"
	"github.com/leapstack-labs/rivet/internal/testutil"
)

// fakeQuerier answers every count query with total and records what it ran.
type fakeQuerier struct {
	total   int64
	fail    map[string]error
	queries []string
}

func (f *fakeQuerier) Select(_ context.Context, query string) ([][]string, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.fail[query]; ok {
		return nil, err
	}
	return [][]string{{strconv.FormatInt(f.total, 10)}}, nil
}

func numsSession(t *testing.T, n int) *session.Session {
	t.Helper()
	path := testutil.NewSQLiteFile(t, testutil.SeqSchema(n)...)
	s, err := session.Open(context.Background(), path, true, session.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background(), session.ExitRollback) })
	return s
}

func TestNewSelection_CountQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain", "SELECT * FROM t", "SELECT COUNT(*) FROM t"},
		{"where order", "SELECT a FROM t WHERE a > 1 ORDER BY a;", "SELECT COUNT(*) FROM t WHERE a > 1"},
		{"user limit", "SELECT a FROM t LIMIT 10 OFFSET 2", "SELECT COUNT(*) FROM t"},
		{"trailing comment", "SELECT a FROM t -- note", "SELECT COUNT(*) FROM t"},
		{"grouped", "SELECT a, count(*) FROM t GROUP BY a LIMIT 3", "SELECT COUNT(*) FROM (SELECT a, count(*) FROM t GROUP BY a)"},
		{"distinct", "SELECT DISTINCT a FROM t", "SELECT COUNT(*) FROM (SELECT DISTINCT a FROM t)"},
		{"compound", "SELECT a FROM t UNION SELECT b FROM u ORDER BY 1", "SELECT COUNT(*) FROM (SELECT a FROM t UNION SELECT b FROM u ORDER BY 1)"},
		{"with", "WITH x AS (SELECT 1) SELECT * FROM x", "SELECT COUNT(*) FROM (WITH x AS (SELECT 1) SELECT * FROM x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{total: 5}
			_, err := NewSelection(context.Background(), q, tt.query, 2)
			require.NoError(t, err)
			require.NotEmpty(t, q.queries)
			assert.Equal(t, tt.want, q.queries[0])
		})
	}
}

func TestNewSelection_Unpageable(t *testing.T) {
	q := &fakeQuerier{total: 5}

	_, err := NewSelection(context.Background(), q, "SELECT 1", 10)
	require.ErrorIs(t, err, sqlscan.ErrNoFromClause)
	var qe *session.QueryError
	assert.ErrorAs(t, err, &qe)

	_, err = NewSelection(context.Background(), q, "SELECT * FROM t LIMIT :n", 10)
	assert.ErrorIs(t, err, sqlscan.ErrUnpageable)
	assert.Empty(t, q.queries)
}

func TestNewSelection_FallsBackToWrappedCount(t *testing.T) {
	substituted := "SELECT COUNT(*) FROM t WHERE z > 1"
	q := &fakeQuerier{total: 4, fail: map[string]error{substituted: errors.New("no such column: z")}}

	sel, err := NewSelection(context.Background(), q, "SELECT a AS z FROM t WHERE z > 1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sel.Size())
	assert.Equal(t, []string{substituted, "SELECT COUNT(*) FROM (SELECT a AS z FROM t WHERE z > 1)"}, q.queries)
}

func TestSelection_SizeComposesWithUserBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		total int64
		want  int64
	}{
		{"no bounds", "SELECT * FROM t", 1234, 1234},
		{"limit", "SELECT * FROM t LIMIT 100", 1234, 100},
		{"limit above total", "SELECT * FROM t LIMIT 5000", 1234, 1234},
		{"offset", "SELECT * FROM t LIMIT -1 OFFSET 1000", 1234, 234},
		{"offset past end", "SELECT * FROM t LIMIT 10 OFFSET 2000", 1234, 0},
		{"comma form", "SELECT * FROM t LIMIT 1230, 10", 1234, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelection(context.Background(), &fakeQuerier{total: tt.total}, tt.query, 500)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Size())
		})
	}
}

func TestSelection_PageQueries(t *testing.T) {
	sel, err := NewSelection(context.Background(), &fakeQuerier{total: 1234}, "SELECT * FROM t ORDER BY n;", 500)
	require.NoError(t, err)
	assert.Equal(t, 3, sel.PageCount())
	assert.Equal(t, 500, sel.PageSize())

	tests := []struct {
		page int
		want string
	}{
		{0, "SELECT * FROM t ORDER BY n LIMIT 500 OFFSET 0"},
		{1, "SELECT * FROM t ORDER BY n LIMIT 500 OFFSET 500"},
		{2, "SELECT * FROM t ORDER BY n LIMIT 234 OFFSET 1000"},
		{3, ""},
	}
	for _, tt := range tests {
		got, err := sel.PageQuery(tt.page)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "page %d", tt.page)
	}

	_, err = sel.PageQuery(4)
	require.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Contains(t, err.Error(), "page 4 of 3")

	_, err = sel.PageQuery(-1)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestSelection_PageQueryRespectsUserOffset(t *testing.T) {
	sel, err := NewSelection(context.Background(), &fakeQuerier{total: 100}, "SELECT * FROM t LIMIT 30 OFFSET 10", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(30), sel.Size())
	assert.Equal(t, 2, sel.PageCount())

	got, err := sel.PageQuery(0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t LIMIT 20 OFFSET 10", got)

	got, err = sel.PageQuery(1)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t LIMIT 10 OFFSET 30", got)
}

func TestSelection_EmptyResult(t *testing.T) {
	q := &fakeQuerier{total: 0}
	sel, err := NewSelection(context.Background(), q, "SELECT * FROM t", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, sel.PageSize())
	assert.Equal(t, 0, sel.PageCount())

	rows, err := sel.Page(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Len(t, q.queries, 1, "no round trip for an empty page")
}

func TestSelection_RealDatabase(t *testing.T) {
	s := numsSession(t, 1234)
	ctx := context.Background()

	sel, err := NewSelection(ctx, s, "SELECT n FROM nums ORDER BY n", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), sel.Size())

	rows, err := sel.Page(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 234)
	assert.Equal(t, "1001", rows[0][0])
	assert.Equal(t, "1234", rows[233][0])
	assert.Equal(t, 2, sel.PageIndex())

	rows, err = sel.Page(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelection_RealDatabaseShapes(t *testing.T) {
	s := numsSession(t, 1234)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		size  int64
	}{
		{"user limit offset", "SELECT n FROM nums LIMIT 100 OFFSET 10", 100},
		{"group by", "SELECT parity, count(*) FROM nums GROUP BY parity", 2},
		{"aggregate", "SELECT max(n) FROM nums", 1},
		{"distinct", "SELECT DISTINCT parity FROM nums", 2},
		{"compound", "SELECT n FROM nums WHERE n < 10 UNION ALL SELECT n FROM nums WHERE n > 1230", 13},
		{"cte", "WITH big AS (SELECT n FROM nums WHERE n > 1000) SELECT * FROM big", 234},
		{"values", "VALUES (1), (2), (3)", 3},
		{"string mentions from", "SELECT 'from limit' FROM nums WHERE n <= 3", 3},
		{"alias in where", "SELECT n * 2 AS d FROM nums WHERE d > 2460", 4},
		{"comment before limit", "SELECT n FROM nums -- trailing\n LIMIT 4;", 4},
		{"comment before order", "SELECT n FROM nums WHERE n <= 8 /* small */ ORDER BY n DESC -- newest\nLIMIT 5 OFFSET 1", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelection(ctx, s, tt.query, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.size, sel.Size())

			var paged [][]string
			for n := range sel.PageCount() {
				rows, err := sel.Page(ctx, n)
				require.NoError(t, err)
				paged = append(paged, rows...)
			}
			full, err := s.Select(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, paged, int(tt.size))
			assert.Equal(t, full, paged)
		})
	}
}
