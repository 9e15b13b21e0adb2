package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/leapstack-labs/rivet/internal/pager"
	"github.com/leapstack-labs/rivet/internal/pipeline"
)

// screen is one of terminalScreen, resultsScreen, helpScreen or exitingScreen.
type screen interface {
	name() string
}

// terminalScreen is the prompt with its scroll-back log. There is one per
// model; the other screens return to it.
type terminalScreen struct {
	lines []string
	limit int
}

func (*terminalScreen) name() string { return "terminal" }

// add appends a log line, dropping the oldest past the limit.
func (s *terminalScreen) add(line string) {
	s.lines = append(s.lines, line)
	if over := len(s.lines) - s.limit; over > 0 {
		s.lines = append(s.lines[:0:0], s.lines[over:]...)
	}
}

// resultsScreen shows one page of a read.
type resultsScreen struct {
	table  table.Model
	result *pipeline.TableResult
	sel    *pager.Selection // nil when the rows were not paged
}

func (*resultsScreen) name() string { return "results" }

func (s *resultsScreen) hasNext() bool {
	return s.sel != nil && s.sel.PageIndex()+1 < s.sel.PageCount()
}

func (s *resultsScreen) hasPrev() bool {
	return s.sel != nil && s.sel.PageIndex() > 0
}

// helpScreen lists key bindings over the screen it was opened from.
type helpScreen struct {
	prev screen
}

func (*helpScreen) name() string { return "help" }

// exitingScreen asks for confirmation before quitting.
type exitingScreen struct {
	prev screen
}

func (*exitingScreen) name() string { return "exiting" }

// maxColumnWidth caps a results column so one long value cannot push the
// rest off screen.
const maxColumnWidth = 40

func tableColumns(res *pipeline.TableResult) []table.Column {
	cols := make([]table.Column, len(res.Columns))
	for i, title := range res.Columns {
		cols[i] = table.Column{Title: title, Width: min(max(res.MaxLengths[i], 1), maxColumnWidth)}
	}
	return cols
}

func tableRows(res *pipeline.TableResult) []table.Row {
	rows := make([]table.Row, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = table.Row(r)
	}
	return rows
}
