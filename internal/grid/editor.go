package grid

import "unicode"

// Editor is a single-line text buffer with a cursor counted in runes.
type Editor struct {
	buf    []rune
	cursor int
}

// Reset loads text and places the cursor after its last rune.
func (e *Editor) Reset(text string) {
	e.buf = []rune(text)
	e.cursor = len(e.buf)
}

// Clear empties the buffer.
func (e *Editor) Clear() {
	e.buf = nil
	e.cursor = 0
}

// Value returns the buffer contents.
func (e *Editor) Value() string {
	return string(e.buf)
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	return e.cursor
}

// Len returns the buffer length in runes.
func (e *Editor) Len() int {
	return len(e.buf)
}

// Insert adds r at the cursor and advances past it.
func (e *Editor) Insert(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = r
	e.cursor++
}

// InsertString inserts pasted text. Control runes such as newlines and
// tabs are dropped; the buffer is a single line.
func (e *Editor) InsertString(s string) {
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		e.Insert(r)
	}
}

// Backspace removes the rune left of the cursor.
func (e *Editor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

// Left moves the cursor one rune left.
func (e *Editor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Right moves the cursor one rune right.
func (e *Editor) Right() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

// Split returns the text before and after the cursor.
func (e *Editor) Split() (string, string) {
	return string(e.buf[:e.cursor]), string(e.buf[e.cursor:])
}
