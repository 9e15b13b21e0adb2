package pipeline

import "unicode/utf8"

// TableResult is a rectangular block of display strings.
type TableResult struct {
	Columns []string
	Rows    [][]string
	// MaxLengths holds the widest value per column, in characters, header
	// included.
	MaxLengths []int
}

// NewTableResult builds a result from column names and rows. When a row is
// wider than the header, the missing column names are added as "".
func NewTableResult(columns []string, rows [][]string) *TableResult {
	width := len(columns)
	for _, row := range rows {
		width = max(width, len(row))
	}

	cols := make([]string, width)
	copy(cols, columns)

	lengths := make([]int, width)
	for i, c := range cols {
		lengths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range rows {
		for i, v := range row {
			lengths[i] = max(lengths[i], utf8.RuneCountInString(v))
		}
	}

	return &TableResult{Columns: cols, Rows: rows, MaxLengths: lengths}
}

// Cell returns the value at row r, column c, or "" when the row is short.
func (t *TableResult) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}
