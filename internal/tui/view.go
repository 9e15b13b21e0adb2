package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/rivet/internal/pipeline"
	"github.com/leapstack-labs/rivet/internal/session"
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch s := m.screen.(type) {
	case *terminalScreen:
		body = m.viewTerminal()
	case *resultsScreen:
		body = m.viewResults(s)
	case *helpScreen:
		body = m.viewPopup(m.helpText())
	case *exitingScreen:
		body = m.viewPopup(m.quitText())
	}

	parts := []string{m.viewTitle()}
	if t := m.viewToasts(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, body, m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewTitle() string {
	sess := m.pipe.Session()
	mode := "rw"
	if sess.ReadOnly() {
		mode = "ro"
	}
	status := fmt.Sprintf(" %s [%s]", sess.Path(), mode)
	if sess.TransactionActive() {
		status += fmt.Sprintf(" %d staged", sess.Pending())
	}
	return m.styles.title.Render(AppName) + m.styles.status.Render(status)
}

func (m *Model) viewTerminal() string {
	inner := max(m.width-2, 10)

	// title, input box, help line and frame take the rest
	logHeight := max(m.height-7, 1)
	lines := m.term.lines
	if len(lines) > logHeight {
		lines = lines[len(lines)-logHeight:]
	}
	log := m.styles.log.Width(inner).Height(logHeight).Render(strings.Join(lines, "\n"))

	input := m.styles.input.Width(inner - 2).Render(m.viewPrompt(inner - 4))
	return lipgloss.JoinVertical(lipgloss.Left, log, input)
}

// viewPrompt renders the command line scrolled so the cursor stays visible
// within width characters.
func (m *Model) viewPrompt(width int) string {
	ed := m.pipe.Editor()
	before, after := ed.Split()
	b, a := []rune(before), []rune(after)

	const prompt = "> "
	avail := max(width-len(prompt)-1, 1)
	if len(b) > avail {
		b = b[len(b)-avail:]
	}
	if rest := avail - len(b); len(a) > rest {
		a = a[:max(rest, 0)]
	}

	cursor := " "
	if len(a) > 0 {
		cursor = string(a[0])
		a = a[1:]
	}
	return m.styles.prompt.Render(prompt) + string(b) +
		lipgloss.NewStyle().Reverse(true).Render(cursor) + string(a)
}

func (m *Model) viewResults(s *resultsScreen) string {
	page := fmt.Sprintf("%d rows", len(s.result.Rows))
	if s.sel != nil {
		page = fmt.Sprintf("page %d of %d, %d rows", s.sel.PageIndex()+1, max(s.sel.PageCount(), 1), s.sel.Size())
	}
	frame := m.styles.frame.Width(max(m.width-2, 10))
	return lipgloss.JoinVertical(lipgloss.Left,
		frame.Render(s.table.View()),
		m.styles.status.Render(page),
	)
}

func (m *Model) viewPopup(content string) string {
	box := m.styles.popup.Render(content)
	return lipgloss.Place(m.width, max(m.height-3, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) helpText() string {
	var sb strings.Builder
	sb.WriteString(m.styles.title.Render("Keys"))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.title.Render("Commands"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(pipeline.MetaCommands, "  "))
	return sb.String()
}

func (m *Model) quitText() string {
	text := fmt.Sprintf("Quit %s Session? y/n", AppName)
	if n := m.pipe.Session().Pending(); n > 0 {
		verb := "rolled back"
		if m.opts.OnExit == session.ExitCommit {
			verb = "committed"
		}
		text += fmt.Sprintf("\n\n%d staged changes will be %s.", n, verb)
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func (m *Model) viewToasts() string {
	if len(m.toasts.list) == 0 {
		return ""
	}
	width := min(max(m.width/3, 30), m.width)
	boxes := make([]string, 0, len(m.toasts.list))
	for _, t := range m.toasts.list {
		style := m.styles.toast
		if t.isError {
			style = m.styles.toastErr
		}
		boxes = append(boxes, style.Width(width-2).Render(m.styles.title.Render(t.title)+"\n"+t.message))
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Left, boxes...))
}
