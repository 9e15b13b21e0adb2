// Package pipeline turns a submitted command line into an Outcome. It owns
// the prompt's line editor and history and routes each line to a
// meta-command, a paged read or a write on the session.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/rivet/internal/history"
	"github.com/leapstack-labs/rivet/internal/lineedit"
	"github.com/leapstack-labs/rivet/internal/pager"
	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/sqlscan"
)

const (
	msgNoRows   = "Query returned 0 rows"
	msgSaved    = "Changes to database saved successfully."
	msgReverted = "Staged changes successfully reverted."
)

// Pipeline is the command pipeline for one session. It is driven from a
// single goroutine.
type Pipeline struct {
	sess    *session.Session
	editor  *lineedit.Buffer
	history *history.History
	logger  *slog.Logger

	pageSize     int
	inputLimit   int
	historyLimit int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPageSize sets the number of rows per page.
func WithPageSize(n int) Option {
	return func(p *Pipeline) { p.pageSize = n }
}

// WithInputLimit sets the maximum length of the command line in characters.
func WithInputLimit(n int) Option {
	return func(p *Pipeline) { p.inputLimit = n }
}

// WithHistoryLimit sets how many submitted lines are remembered.
func WithHistoryLimit(n int) Option {
	return func(p *Pipeline) { p.historyLimit = n }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over sess.
func New(sess *session.Session, opts ...Option) *Pipeline {
	p := &Pipeline{
		sess:         sess,
		pageSize:     pager.DefaultPageSize,
		inputLimit:   lineedit.DefaultLimit,
		historyLimit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.editor = lineedit.NewBuffer(p.inputLimit)
	p.history = history.New(p.historyLimit)
	return p
}

// Session returns the underlying session.
func (p *Pipeline) Session() *session.Session { return p.sess }

// Editor returns the prompt's line buffer.
func (p *Pipeline) Editor() *lineedit.Buffer { return p.editor }

// History returns the command history.
func (p *Pipeline) History() *history.History { return p.history }

// HistoryBack replaces the prompt with the previous history entry.
func (p *Pipeline) HistoryBack() bool {
	text, ok := p.history.Back(p.editor.String())
	if ok {
		p.editor.SetText(text)
	}
	return ok
}

// HistoryForward replaces the prompt with the next history entry or the draft.
func (p *Pipeline) HistoryForward() bool {
	text, ok := p.history.Forward(p.editor.String())
	if ok {
		p.editor.SetText(text)
	}
	return ok
}

// Submit runs the current prompt line, records it in history and clears the
// prompt.
func (p *Pipeline) Submit(ctx context.Context) Outcome {
	line := p.editor.String()
	p.editor.Reset()
	return p.SubmitLine(ctx, line)
}

// SubmitLine records line in history and runs it. A line that history
// rejects as a repeat of the newest entry still runs.
func (p *Pipeline) SubmitLine(ctx context.Context, line string) Outcome {
	trimmed, recorded := p.history.Submit(line)
	p.logger.Debug("submit", "line", trimmed, "recorded", recorded)
	return p.Run(ctx, trimmed)
}

// Run executes one command line without touching history.
func (p *Pipeline) Run(ctx context.Context, line string) Outcome {
	line = strings.TrimSpace(line)
	if line == "" {
		return Outcome{}
	}
	if strings.HasPrefix(line, ".") {
		return p.runMeta(ctx, line)
	}

	if sqlscan.MultipleStatements(line) {
		return errorOutcome(&session.QueryError{Query: line, Err: sqlscan.ErrMultipleStatements})
	}

	switch sqlscan.Classify(line) {
	case sqlscan.KindEmpty:
		return Outcome{}
	case sqlscan.KindRead:
		return p.read(ctx, line)
	default:
		return p.write(ctx, line)
	}
}

func (p *Pipeline) read(ctx context.Context, query string) Outcome {
	var (
		cols []string
		rows [][]string
	)
	sel, err := pager.NewSelection(ctx, p.sess, query, p.pageSize)
	switch {
	case err == nil:
		cols = p.columnNames(ctx, query)
		rows, err = sel.Page(ctx, 0)
	case errors.Is(err, sqlscan.ErrNoFromClause), errors.Is(err, sqlscan.ErrUnpageable):
		p.logger.Debug("reading without pages", "reason", err)
		sel = nil
		cols, rows, err = p.sess.Query(ctx, query)
	}
	if err != nil {
		p.logger.Info("query failed", "query", query, "error", err)
		return errorOutcome(err)
	}

	if len(rows) == 0 {
		return infoOutcome(msgNoRows)
	}
	return Outcome{Kind: KindRows, Result: NewTableResult(cols, rows), Selection: sel}
}

// columnNames is best effort; a failure leaves the header empty and the
// page fetch reports the error.
func (p *Pipeline) columnNames(ctx context.Context, query string) []string {
	cols, err := p.sess.ColumnNames(ctx, query)
	if err != nil {
		p.logger.Debug("column names unavailable", "error", err)
		return nil
	}
	return cols
}

func (p *Pipeline) write(ctx context.Context, query string) Outcome {
	n, err := p.sess.Execute(ctx, query)
	if err != nil {
		p.logger.Info("statement failed", "query", query, "error", err)
		return errorOutcome(err)
	}
	return Outcome{Kind: KindRowsChanged, Count: n}
}

// Page fetches page n of sel for display under columns.
func (p *Pipeline) Page(ctx context.Context, sel *pager.Selection, columns []string, n int) Outcome {
	if sel == nil {
		return errorOutcome(pager.ErrPageOutOfRange)
	}
	rows, err := sel.Page(ctx, n)
	if err != nil {
		return errorOutcome(err)
	}
	return Outcome{Kind: KindRows, Result: NewTableResult(columns, rows), Selection: sel}
}

// Save commits staged changes.
func (p *Pipeline) Save(ctx context.Context) Outcome {
	if err := p.sess.Commit(ctx); err != nil {
		return errorOutcome(err)
	}
	return infoOutcome(msgSaved)
}

// Revert rolls back staged changes.
func (p *Pipeline) Revert(ctx context.Context) Outcome {
	if err := p.sess.Rollback(ctx); err != nil {
		return errorOutcome(err)
	}
	return infoOutcome(msgReverted)
}
