package suggest

import (
	"testing"

	"github.com/Mimouss56/wwsnb/internal/types"
)

func directory(names ...string) []types.User {
	users := make([]types.User, len(names))
	for i, n := range names {
		users[i] = types.User{Name: n}
	}
	return users
}

func TestFilterPrefix(t *testing.T) {
	users := directory("Théo Martin", "Théa Dubois", "Marc Léo")

	got := FilterPrefix(users, "th")
	if len(got) != 2 || got[0].Name != "Théo Martin" || got[1].Name != "Théa Dubois" {
		t.Errorf("FilterPrefix(th) = %v, want [Théo Martin, Théa Dubois]", got)
	}

	all := FilterPrefix(users, "")
	if len(all) != 3 {
		t.Errorf("FilterPrefix(empty) returned %d users, want full directory", len(all))
	}
	for i, u := range all {
		if u.Name != users[i].Name {
			t.Errorf("FilterPrefix(empty)[%d] = %q, want directory order preserved", i, u.Name)
		}
	}

	// Prefix, not substring: "Marc Léo" contains "c L" but no name starts
	// with it.
	if got := FilterPrefix(users, "c l"); len(got) != 0 {
		t.Errorf("FilterPrefix matched substring %v, want prefix-only", got)
	}
}

func TestBoxOpensWithFirstMatchSelected(t *testing.T) {
	b := NewBox()
	b.Update("hello @th", 9, directory("Théo Martin", "Théa Dubois", "Marc Léo"))

	if !b.Open() || b.State() != StateOpen {
		t.Fatalf("box state = %v, want open", b.State())
	}
	if len(b.Matches()) != 2 {
		t.Fatalf("matches = %v, want 2", b.Matches())
	}
	if b.Selected() != 0 {
		t.Errorf("selected = %d, want first match preselected", b.Selected())
	}
}

func TestBoxClosesWithoutQuery(t *testing.T) {
	users := directory("Alice")
	b := NewBox()

	b.Update("hello @a", 8, users)
	if !b.Open() {
		t.Fatal("box should open on @a")
	}

	// Typing a space after the query dismisses the box.
	b.Update("hello @a ", 9, users)
	if b.Open() {
		t.Error("box should close once the query contains a space")
	}

	b.Update("no mention here", 15, users)
	if b.Open() {
		t.Error("box should stay closed without an @")
	}
}

func TestBoxClosesOnEmptyMatches(t *testing.T) {
	b := NewBox()
	b.Update("@zz", 3, directory("Alice", "Bob"))
	if b.Open() {
		t.Error("box should close when nothing matches")
	}
}

func TestNavigationWrapsCircularly(t *testing.T) {
	b := NewBox()
	b.Update("@", 1, directory("Alice", "Bob", "Carol"))

	b.Prev()
	if b.Selected() != 2 {
		t.Errorf("up from 0 selects %d, want wrap to 2", b.Selected())
	}
	if b.State() != StateNavigating {
		t.Errorf("state after navigation = %v, want StateNavigating", b.State())
	}

	b.Next()
	if b.Selected() != 0 {
		t.Errorf("down from 2 selects %d, want wrap to 0", b.Selected())
	}
}

func TestReQueryPreservesSelectionWhenInRange(t *testing.T) {
	users := directory("Théo Martin", "Théa Dubois")
	b := NewBox()

	b.Update("@t", 2, users)
	b.Next()
	if b.Selected() != 1 {
		t.Fatalf("selected = %d after Next, want 1", b.Selected())
	}

	// Narrowing the query keeps the selection while it stays in range.
	b.Update("@th", 3, users)
	if b.Selected() != 1 {
		t.Errorf("selected = %d after re-query, want 1 preserved", b.Selected())
	}

	// Shrinking below the selection resets it.
	b.Update("@théo", 6, users)
	if b.Selected() != 0 {
		t.Errorf("selected = %d after narrowing, want reset to 0", b.Selected())
	}
}

func TestCommitInsertsMentionAndCloses(t *testing.T) {
	b := NewBox()
	b.Update("hello @th", 9, directory("Théo Martin", "Théa Dubois"))
	b.Next()

	text, caret, ok := b.Commit("hello @th", 9)
	if !ok {
		t.Fatal("Commit returned ok=false on open box")
	}
	if text != "hello @Théa Dubois " {
		t.Errorf("Commit text = %q, want %q", text, "hello @Théa Dubois ")
	}
	if caret != len("hello @Théa Dubois ") {
		t.Errorf("Commit caret = %d, want %d", caret, len("hello @Théa Dubois "))
	}
	if b.Open() {
		t.Error("box should close after commit")
	}
}

func TestCommitOnClosedBoxIsNoop(t *testing.T) {
	b := NewBox()
	text, caret, ok := b.Commit("hello", 5)
	if ok || text != "hello" || caret != 5 {
		t.Errorf("Commit on closed box = (%q, %d, %v), want untouched input", text, caret, ok)
	}
}

func TestSelectHighlightsPointerTarget(t *testing.T) {
	b := NewBox()
	b.Update("@", 1, directory("Alice", "Bob", "Carol"))

	b.Select(2)
	if b.Selected() != 2 {
		t.Errorf("Select(2) left selection at %d", b.Selected())
	}
	b.Select(99)
	if b.Selected() != 2 {
		t.Errorf("out-of-range Select moved selection to %d", b.Selected())
	}
}
