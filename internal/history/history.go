// Package history keeps the bounded list of submitted commands and the
// navigation state used to browse it from the prompt.
package history

import "strings"

// DefaultLimit is the number of entries kept before the oldest is evicted.
const DefaultLimit = 100

// History is a bounded, de-duplicated command history.
//
// Navigation moves an index over entries plus one extra position, the draft,
// which holds whatever was typed before browsing began. Editing a browsed
// entry is recorded in an overlay and never rewrites the stored entry; the
// overlay and draft are discarded by the next Submit.
type History struct {
	entries []string
	limit   int

	index int // in [0, len(entries)]; len(entries) is the draft
	draft string
	edits map[int]string
}

// New returns an empty history holding at most limit entries.
// A non-positive limit selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit, edits: make(map[int]string)}
}

// Back moves to the next older entry. current is the line as it stands in
// the editor and is preserved for when navigation returns to this position.
// It returns false when already at the oldest entry.
func (h *History) Back(current string) (string, bool) {
	if h.index == 0 {
		return "", false
	}
	h.leave(current)
	h.index--
	return h.arrive(), true
}

// Forward moves to the next newer entry, ending at the draft.
// It returns false when already at the draft.
func (h *History) Forward(current string) (string, bool) {
	if h.index >= len(h.entries) {
		return "", false
	}
	h.leave(current)
	h.index++
	return h.arrive(), true
}

func (h *History) leave(current string) {
	if h.index == len(h.entries) {
		h.draft = current
		return
	}
	if current == h.entries[h.index] {
		delete(h.edits, h.index)
		return
	}
	h.edits[h.index] = current
}

func (h *History) arrive() string {
	if h.index == len(h.entries) {
		return h.draft
	}
	if edit, ok := h.edits[h.index]; ok {
		return edit
	}
	return h.entries[h.index]
}

// Submit records line and resets navigation. The returned string is line with
// trailing whitespace removed; the bool reports whether it was appended, which
// it is not when empty or equal to the newest entry.
func (h *History) Submit(line string) (string, bool) {
	trimmed := strings.TrimRightFunc(line, isSpace)

	h.draft = ""
	clear(h.edits)

	accepted := trimmed != "" &&
		(len(h.entries) == 0 || h.entries[len(h.entries)-1] != trimmed)
	if accepted {
		h.entries = append(h.entries, trimmed)
		if over := len(h.entries) - h.limit; over > 0 {
			h.entries = append(h.entries[:0:0], h.entries[over:]...)
		}
	}
	h.index = len(h.entries)
	return trimmed, accepted
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// Entries returns a copy of the stored entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the navigation position; Len() means the draft.
func (h *History) Index() int { return h.index }

// Browsing reports whether navigation is away from the draft.
func (h *History) Browsing() bool { return h.index < len(h.entries) }
