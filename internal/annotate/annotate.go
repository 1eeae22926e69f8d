// Package annotate holds the stateless message classifiers behind the
// question/mention/moderator annotations. They decide flags over parsed
// messages; applying classes to the host page stays with the adapter.
package annotate

import (
	"strings"
	"sync"

	"github.com/Mimouss56/wwsnb/internal/types"
)

// QuestionTag marks a message as a question for the audience.
const QuestionTag = "@question"

// Annotation is the set of passive flags for one message.
type Annotation struct {
	Question  bool
	Mention   bool
	Moderator bool
}

// Classify derives the annotation flags for a message. An empty
// currentUser means no user was detected on the page, which leaves
// mention highlighting inactive rather than failing.
func Classify(msg types.Message, currentUser string) Annotation {
	return Annotation{
		Question:  strings.Contains(msg.Body, QuestionTag),
		Mention:   currentUser != "" && strings.Contains(msg.Body, "@"+currentUser),
		Moderator: msg.Moderator,
	}
}

// Marker tracks which message identities have already been processed so
// repeated change notifications never re-annotate (or re-initialize) the
// same message.
type Marker struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMarker returns an empty marker.
func NewMarker() *Marker {
	return &Marker{seen: make(map[string]bool)}
}

// FirstSeen records id and reports whether this was its first appearance.
func (m *Marker) FirstSeen(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return false
	}
	m.seen[id] = true
	return true
}

// Forget drops ids no longer present in the document so the marker does
// not grow without bound.
func (m *Marker) Forget(live map[string]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.seen {
		if !live[id] {
			delete(m.seen, id)
		}
	}
}
