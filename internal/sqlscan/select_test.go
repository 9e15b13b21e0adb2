package sqlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSelect_Plain(t *testing.T) {
	info := AnalyzeSelect("  SELECT a, b FROM t WHERE a > 1 ORDER BY b;  ")

	assert.Equal(t, "SELECT a, b FROM t WHERE a > 1 ORDER BY b", info.Text)
	assert.Equal(t, 12, info.From)
	assert.Equal(t, 31, info.Order)
	assert.Equal(t, -1, info.Limit)
	assert.Equal(t, int64(-1), info.UserLimit)
	assert.Equal(t, int64(0), info.UserOffset)
	assert.True(t, info.Literal)
	assert.False(t, info.NeedsWrap())
	assert.Equal(t, "FROM t WHERE a > 1", info.Body())
	assert.Equal(t, info.Text, info.Base())
}

func TestAnalyzeSelect_TrailingComment(t *testing.T) {
	info := AnalyzeSelect("SELECT * FROM t -- all rows\n")

	assert.Equal(t, "SELECT * FROM t", info.Text)
	assert.Equal(t, "FROM t", info.Body())
}

func TestAnalyzeSelect_CommentBeforeClause(t *testing.T) {
	info := AnalyzeSelect("SELECT n FROM nums -- trailing\n LIMIT 4;")
	assert.Equal(t, int64(4), info.UserLimit)
	assert.Equal(t, "SELECT n FROM nums", info.Base())
	assert.Equal(t, "FROM nums", info.Body())

	info = AnalyzeSelect("SELECT n FROM nums /* sorted */ ORDER BY n -- last\nLIMIT 2 OFFSET 1")
	assert.Equal(t, "SELECT n FROM nums /* sorted */ ORDER BY n", info.Base())
	assert.Equal(t, "FROM nums", info.Body())
}

func TestAnalyzeSelect_Limits(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		limit   int64
		offset  int64
		literal bool
		base    string
		body    string
	}{
		{"limit", "SELECT * FROM t LIMIT 10", 10, 0, true, "SELECT * FROM t", "FROM t"},
		{"limit offset", "SELECT * FROM t LIMIT 10 OFFSET 5", 10, 5, true, "SELECT * FROM t", "FROM t"},
		{"comma form", "SELECT * FROM t LIMIT 5, 10", 10, 5, true, "SELECT * FROM t", "FROM t"},
		{"negative limit", "SELECT * FROM t LIMIT -1 OFFSET 3", -1, 3, true, "SELECT * FROM t", "FROM t"},
		{"negative offset", "SELECT * FROM t LIMIT 4 OFFSET -3", 4, 0, true, "SELECT * FROM t", "FROM t"},
		{"hex", "SELECT * FROM t LIMIT 0x10", 16, 0, true, "SELECT * FROM t", "FROM t"},
		{"expression", "SELECT * FROM t LIMIT 2 + 3", -1, 0, false, "SELECT * FROM t", "FROM t"},
		{"parameter", "SELECT * FROM t LIMIT ?", -1, 0, false, "SELECT * FROM t", "FROM t"},
		{"subquery limit ignored", "SELECT * FROM (SELECT * FROM u LIMIT 3)", -1, 0, true, "SELECT * FROM (SELECT * FROM u LIMIT 3)", "FROM (SELECT * FROM u LIMIT 3)"},
		{"limit in string", "SELECT 'limit 3' FROM t", -1, 0, true, "SELECT 'limit 3' FROM t", "FROM t"},
		{"order then limit", "SELECT * FROM t ORDER BY a LIMIT 2", 2, 0, true, "SELECT * FROM t ORDER BY a", "FROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := AnalyzeSelect(tt.query)
			assert.Equal(t, tt.limit, info.UserLimit)
			assert.Equal(t, tt.offset, info.UserOffset)
			assert.Equal(t, tt.literal, info.Literal)
			assert.Equal(t, tt.base, info.Base())
			assert.Equal(t, tt.body, info.Body())
		})
	}
}

func TestAnalyzeSelect_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, info SelectInfo)
	}{
		{"compound", "SELECT a FROM t UNION SELECT a FROM u", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.Compound)
		}},
		{"group by", "SELECT a, count(*) FROM t GROUP BY a", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.Grouped)
			assert.True(t, info.Aggregate)
		}},
		{"distinct", "SELECT DISTINCT a FROM t", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.Distinct)
		}},
		{"aggregate", "SELECT MAX(a) FROM t", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.Aggregate)
		}},
		{"aggregate in subquery", "SELECT a FROM t WHERE a IN (SELECT max(a) FROM t)", func(t *testing.T, info SelectInfo) {
			assert.False(t, info.Aggregate)
			assert.False(t, info.NeedsWrap())
		}},
		{"column named count", "SELECT count FROM t", func(t *testing.T, info SelectInfo) {
			assert.False(t, info.Aggregate)
		}},
		{"with", "WITH x AS (SELECT 1) SELECT * FROM x", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.With)
			assert.True(t, info.NeedsWrap())
		}},
		{"values", "VALUES (1), (2)", func(t *testing.T, info SelectInfo) {
			assert.True(t, info.Values)
			assert.Equal(t, -1, info.From)
		}},
		{"no from", "SELECT 1", func(t *testing.T, info SelectInfo) {
			assert.Equal(t, -1, info.From)
			assert.Equal(t, "", info.Body())
			assert.False(t, info.NeedsWrap())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, AnalyzeSelect(tt.query))
		})
	}
}

func TestAnalyzeSelect_Empty(t *testing.T) {
	info := AnalyzeSelect("  ;; ")
	assert.Equal(t, "", info.Text)
	assert.Equal(t, -1, info.From)
}
