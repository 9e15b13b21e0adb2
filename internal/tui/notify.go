package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultNotifyTimeout is how long a toast stays on screen.
const DefaultNotifyTimeout = 5 * time.Second

type toast struct {
	id      int
	title   string
	message string
	isError bool
}

// toastExpiredMsg removes the toast with the given id.
type toastExpiredMsg struct {
	id int
}

type toasts struct {
	list    []toast
	nextID  int
	timeout time.Duration
}

// push adds a toast and returns the command that expires it.
func (t *toasts) push(title, message string, isError bool) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.list = append(t.list, toast{id: id, title: title, message: message, isError: isError})
	return tea.Tick(t.timeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *toasts) expire(id int) {
	for i, n := range t.list {
		if n.id == id {
			t.list = append(t.list[:i], t.list[i+1:]...)
			return
		}
	}
}
