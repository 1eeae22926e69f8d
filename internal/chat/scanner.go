package chat

import (
	"sync"

	"github.com/Mimouss56/wwsnb/internal/core"
	"github.com/Mimouss56/wwsnb/internal/types"
)

// rosterScanner plays the host page's directory-scan collaborator: it
// assembles the directory from the attendee roster plus every author seen
// in the message history, deduplicated by cleaned name.
type rosterScanner struct {
	mu      sync.Mutex
	roster  []string
	authors []string
}

func newRosterScanner(roster []string) *rosterScanner {
	return &rosterScanner{roster: roster}
}

func (s *rosterScanner) observeAuthor(name string) {
	s.mu.Lock()
	s.authors = append(s.authors, name)
	s.mu.Unlock()
}

func (s *rosterScanner) Scan() ([]types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var users []types.User
	for _, raw := range append(append([]string(nil), s.roster...), s.authors...) {
		u := core.NewUser(raw)
		if u.Name == "" || u.Name == "System Message" || seen[u.Name] {
			continue
		}
		seen[u.Name] = true
		users = append(users, u)
	}
	return users, nil
}
