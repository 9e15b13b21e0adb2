package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/rivet/internal/pipeline"
	"github.com/leapstack-labs/rivet/internal/session"
)

const (
	prompt         = "rivet> "
	maxScannedLine = 1 << 20
)

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// scanReader reads piped input, where prompts and line editing would only
// pollute the output.
type scanReader struct {
	sc *bufio.Scanner
}

func newScanReader(r io.Reader) *scanReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxScannedLine)
	return &scanReader{sc: sc}
}

func (s *scanReader) Readline() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanReader) Close() error { return nil }

func newReadline(ctx context.Context, sess *session.Session, out, errOut io.Writer) (lineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    newCompleter(ctx, sess),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          out,
		Stderr:          errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	return rl, nil
}

// newCompleter completes table and view names and dot-commands.
func newCompleter(ctx context.Context, sess *session.Session) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	rows, err := sess.Select(ctx, `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	// Completion is best-effort.
	if err == nil {
		for _, row := range rows {
			items = append(items, readline.PcItem(row[0]))
		}
	}

	for _, c := range pipeline.MetaCommands {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}

// repl feeds lines from r through p until EOF or a quit command.
func repl(ctx context.Context, p *pipeline.Pipeline, r lineReader, format string, out, errOut io.Writer) error {
	for {
		line, err := r.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if pipeline.IsQuit(line) {
			return nil
		}

		o := p.SubmitLine(ctx, line)
		if err := show(ctx, p, o, format, out); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}

// show prints an outcome. Paged results are fetched to the last page.
func show(ctx context.Context, p *pipeline.Pipeline, o pipeline.Outcome, format string, out io.Writer) error {
	switch o.Kind {
	case pipeline.KindNone:
		return nil
	case pipeline.KindError:
		return errors.New(o.Message)
	case pipeline.KindRows:
		res, err := collect(ctx, p, o)
		if err != nil {
			return err
		}
		return renderResult(out, format, res)
	default:
		_, err := fmt.Fprintln(out, o.Text())
		return err
	}
}

// collect joins every page of a paged outcome into one result.
func collect(ctx context.Context, p *pipeline.Pipeline, o pipeline.Outcome) (*pipeline.TableResult, error) {
	if o.Selection == nil {
		return o.Result, nil
	}
	rows := o.Result.Rows
	for n := 1; n < o.Selection.PageCount(); n++ {
		next := p.Page(ctx, o.Selection, o.Result.Columns, n)
		if next.Kind == pipeline.KindError {
			return nil, errors.New(next.Message)
		}
		rows = append(rows, next.Result.Rows...)
	}
	return pipeline.NewTableResult(o.Result.Columns, rows), nil
}
