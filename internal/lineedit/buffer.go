// Package lineedit implements the single-line command buffer behind the
// terminal prompt. Positions are counted in characters, never bytes.
package lineedit

import "unicode/utf8"

// DefaultLimit is the maximum number of characters a buffer accepts.
const DefaultLimit = 2048

// Buffer is an editable line of text with a cursor.
// The cursor always satisfies 0 <= cursor <= Len().
type Buffer struct {
	runes  []rune
	cursor int
	limit  int
}

// NewBuffer returns an empty buffer holding at most limit characters.
// A non-positive limit selects DefaultLimit.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Buffer{limit: limit}
}

// Insert places r at the cursor and advances the cursor. It returns false and
// leaves the buffer untouched when r is not a valid character or the buffer
// is full.
func (b *Buffer) Insert(r rune) bool {
	if !utf8.ValidRune(r) || len(b.runes) >= b.limit {
		return false
	}
	b.runes = append(b.runes, 0)
	copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
	b.runes[b.cursor] = r
	b.cursor++
	return true
}

// InsertString inserts each character of s until the buffer is full and
// reports how many were inserted.
func (b *Buffer) InsertString(s string) int {
	n := 0
	for _, r := range s {
		if !b.Insert(r) {
			break
		}
		n++
	}
	return n
}

// DeleteBefore removes the character left of the cursor (backspace).
func (b *Buffer) DeleteBefore() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteAt removes the character under the cursor (delete).
func (b *Buffer) DeleteAt() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	return true
}

// MoveLeft moves the cursor one character left, stopping at the start.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor one character right, stopping at the end.
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// Home moves the cursor to the start of the line.
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor past the last character.
func (b *Buffer) End() { b.cursor = len(b.runes) }

// SetText replaces the contents, truncated to the limit, and moves the cursor
// to the end.
func (b *Buffer) SetText(s string) {
	runes := []rune(s)
	if len(runes) > b.limit {
		runes = runes[:b.limit]
	}
	b.runes = runes
	b.cursor = len(runes)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.runes = b.runes[:0]
	b.cursor = 0
}

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.runes) }

// Cursor returns the cursor position in characters.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int { return len(b.runes) }

// Limit returns the maximum number of characters the buffer accepts.
func (b *Buffer) Limit() int { return b.limit }

// Split returns the text before and after the cursor, for rendering.
func (b *Buffer) Split() (before, after string) {
	return string(b.runes[:b.cursor]), string(b.runes[b.cursor:])
}
