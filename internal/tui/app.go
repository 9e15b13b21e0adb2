// Package tui is the full-screen terminal front end. It renders the
// pipeline's outcomes and maps keys to pipeline calls; it holds no database
// logic of its own.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/rivet/internal/pipeline"
	"github.com/leapstack-labs/rivet/internal/session"
)

// AppName is shown in the title bar and the quit prompt.
const AppName = "rivet"

// DefaultLogLines is the scroll-back kept on the terminal screen.
const DefaultLogLines = 1000

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configure the interface.
type Options struct {
	Theme         string
	NotifyTimeout time.Duration
	LogLines      int
	OnExit        session.ExitPolicy
	Logger        *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	// ctx is the program context; pipeline calls made from Update use it.
	ctx    context.Context
	pipe   *pipeline.Pipeline
	opts   Options
	logger *slog.Logger

	term   *terminalScreen
	screen screen

	keys   keyMap
	help   help.Model
	styles styles
	toasts toasts

	width, height int
}

// New builds the model over p.
func New(ctx context.Context, p *pipeline.Pipeline, opts Options) *Model {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if opts.LogLines <= 0 {
		opts.LogLines = DefaultLogLines
	}
	palette, ok := LookupTheme(opts.Theme)
	if !ok {
		palette, _ = LookupTheme(DefaultTheme)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	term := &terminalScreen{limit: opts.LogLines}
	m := &Model{
		ctx:    ctx,
		pipe:   p,
		opts:   opts,
		logger: logger,
		term:   term,
		screen: term,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(palette),
		toasts: toasts{timeout: opts.NotifyTimeout},
		width:  defaultWidth,
		height: defaultHeight,
	}
	return m
}

// Run starts the interface on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, p *pipeline.Pipeline, opts Options) error {
	m := New(ctx, p, opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("terminal interface: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if rs, ok := m.screen.(*resultsScreen); ok {
			rs.table.SetHeight(m.tableHeight())
		}
		return m, nil
	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s, ok := m.screen.(*exitingScreen); ok {
		return m.updateExiting(s, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.screen = &exitingScreen{prev: m.screen}
		return nil
	case key.Matches(msg, m.keys.Help):
		if s, ok := m.screen.(*helpScreen); ok {
			m.screen = s.prev
		} else {
			m.screen = &helpScreen{prev: m.screen}
		}
		return nil
	case key.Matches(msg, m.keys.Save):
		return m.notify("Save", m.pipe.Save(m.ctx))
	case key.Matches(msg, m.keys.Rollback):
		return m.notify("Rollback", m.pipe.Revert(m.ctx))
	}

	switch s := m.screen.(type) {
	case *terminalScreen:
		return m.updateTerminal(msg)
	case *resultsScreen:
		return m.updateResults(s, msg)
	case *helpScreen:
		if key.Matches(msg, m.keys.Back) {
			m.screen = s.prev
		}
	}
	return nil
}

func (m *Model) updateTerminal(msg tea.KeyMsg) tea.Cmd {
	ed := m.pipe.Editor()

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.HistoryBack):
		m.pipe.HistoryBack()
	case key.Matches(msg, m.keys.HistoryFwd):
		m.pipe.HistoryForward()
	case key.Matches(msg, m.keys.Left):
		ed.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		ed.MoveRight()
	case key.Matches(msg, m.keys.Home):
		ed.Home()
	case key.Matches(msg, m.keys.End):
		ed.End()
	case key.Matches(msg, m.keys.Backspace):
		ed.DeleteBefore()
	case key.Matches(msg, m.keys.Delete):
		ed.DeleteAt()
	case msg.Type == tea.KeySpace:
		ed.Insert(' ')
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if !ed.Insert(r) {
				break
			}
		}
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	line := strings.TrimSpace(m.pipe.Editor().String())
	if pipeline.IsQuit(line) {
		m.pipe.Editor().Reset()
		m.screen = &exitingScreen{prev: m.term}
		return nil
	}
	if line != "" {
		m.term.add("> " + line)
	}

	out := m.pipe.Submit(m.ctx)
	m.logger.Debug("outcome", "kind", out.Kind.String())

	switch out.Kind {
	case pipeline.KindNone:
	case pipeline.KindError:
		m.term.add("Error: " + out.Message)
	case pipeline.KindRows:
		m.term.add(out.Text())
		m.screen = m.newResults(out)
	default:
		for _, l := range strings.Split(out.Text(), "\n") {
			m.term.add(l)
		}
	}
	return nil
}

func (m *Model) newResults(out pipeline.Outcome) *resultsScreen {
	t := table.New(
		table.WithColumns(tableColumns(out.Result)),
		table.WithRows(tableRows(out.Result)),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
		table.WithStyles(m.styles.table),
	)
	return &resultsScreen{table: t, result: out.Result, sel: out.Selection}
}

func (m *Model) updateResults(s *resultsScreen, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = m.term
		return nil
	case key.Matches(msg, m.keys.NextPage):
		if s.hasNext() {
			return m.turnPage(s, s.sel.PageIndex()+1)
		}
		return nil
	case key.Matches(msg, m.keys.PrevPage):
		if s.hasPrev() {
			return m.turnPage(s, s.sel.PageIndex()-1)
		}
		return nil
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (m *Model) turnPage(s *resultsScreen, n int) tea.Cmd {
	out := m.pipe.Page(m.ctx, s.sel, s.result.Columns, n)
	if out.Kind != pipeline.KindRows {
		return m.notify("Page", out)
	}
	m.screen = m.newResults(out)
	return nil
}

func (m *Model) updateExiting(s *exitingScreen, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.screen = s.prev
	}
	return nil
}

// notify shows out as a toast and returns the command that expires it.
func (m *Model) notify(title string, out pipeline.Outcome) tea.Cmd {
	if out.Kind == pipeline.KindNone {
		return nil
	}
	isErr := out.Kind == pipeline.KindError
	if isErr {
		title = "Error"
	}
	return m.toasts.push(title, out.Text(), isErr)
}

// tableHeight leaves room for the title, the frame and the status line.
func (m *Model) tableHeight() int {
	return max(m.height-6, 3)
}
