// Package suggest implements the @-mention autocomplete engine: query
// extraction, prefix filtering over the user directory, and the small
// keyboard-driven state machine behind the suggestion box.
package suggest

import (
	"strings"

	"github.com/Mimouss56/wwsnb/internal/types"
)

// State is the suggestion box lifecycle: Closed until a query opens it,
// Navigating once the user moves the selection, Closed again on dismissal
// or commit. Re-querying while open updates contents in place.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateNavigating
)

// Box is the suggestion box state machine. It is driven synchronously
// from input events and only ever reads the directory cache; it never
// blocks a keystroke.
type Box struct {
	state    State
	query    Query
	matches  []types.User
	selected int
}

// NewBox returns a closed suggestion box.
func NewBox() *Box {
	return &Box{}
}

// FilterPrefix returns the users whose name starts with the query,
// case-insensitively, in directory order. An empty query matches all.
func FilterPrefix(users []types.User, query string) []types.User {
	q := strings.ToLower(query)
	var matches []types.User
	for _, u := range users {
		if strings.HasPrefix(strings.ToLower(u.Name), q) {
			matches = append(matches, u)
		}
	}
	return matches
}

// Update re-evaluates the box against the current input text, caret and
// directory. No mention query, or a query with no matches, closes the box.
// A re-query while open keeps the selection when it is still in range.
func (b *Box) Update(text string, caret int, users []types.User) {
	q, ok := ExtractQuery(text, caret)
	if !ok {
		b.Close()
		return
	}

	matches := FilterPrefix(users, q.Text)
	if len(matches) == 0 {
		b.Close()
		return
	}

	wasOpen := b.state != StateClosed
	b.query = q
	b.matches = matches
	if !wasOpen || b.selected >= len(matches) {
		b.selected = 0
	}
	if !wasOpen {
		b.state = StateOpen
	}
}

// Open reports whether the box is visible.
func (b *Box) Open() bool { return b.state != StateClosed }

// State returns the current lifecycle state.
func (b *Box) State() State { return b.state }

// Matches returns the current candidate list in directory order.
func (b *Box) Matches() []types.User { return b.matches }

// Selected returns the index of the highlighted candidate.
func (b *Box) Selected() int { return b.selected }

// Next moves the selection down, wrapping past the end.
func (b *Box) Next() { b.move(1) }

// Prev moves the selection up, wrapping past the start.
func (b *Box) Prev() { b.move(-1) }

func (b *Box) move(delta int) {
	if b.state == StateClosed || len(b.matches) == 0 {
		return
	}
	b.selected = (b.selected + delta + len(b.matches)) % len(b.matches)
	b.state = StateNavigating
}

// Select highlights the candidate under the pointer.
func (b *Box) Select(index int) {
	if b.state == StateClosed || index < 0 || index >= len(b.matches) {
		return
	}
	b.selected = index
	b.state = StateNavigating
}

// Commit inserts the highlighted candidate into the input and closes the
// box. It returns the edited text and the new caret position; ok is false
// when the box is closed or empty, in which case the input is untouched.
func (b *Box) Commit(text string, caret int) (newText string, newCaret int, ok bool) {
	if b.state == StateClosed || len(b.matches) == 0 {
		return text, caret, false
	}
	name := b.matches[b.selected].Name
	newText, newCaret = Commit(text, caret, b.query.AtIndex, name)
	b.Close()
	return newText, newCaret, true
}

// Close dismisses the box and clears its contents.
func (b *Box) Close() {
	b.state = StateClosed
	b.matches = nil
	b.selected = 0
	b.query = Query{}
}
