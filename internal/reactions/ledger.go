// Package reactions implements the per-message emoji-reaction ledger and
// the persistence/broadcast engine that keeps sibling tabs in sync.
package reactions

import (
	"sync"

	"github.com/Mimouss56/wwsnb/internal/types"
)

// Ledger is the in-memory mapping of message identity to emoji votes for
// one page session. An emoji key never exists with an empty voter set, and
// a user appears at most once per emoji per message.
type Ledger struct {
	mu    sync.RWMutex
	votes types.ReactionSet
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{votes: make(types.ReactionSet)}
}

// Toggle flips user's vote for emoji on msgID and reports whether the vote
// is now on. Removing the last voter deletes the emoji key; removing the
// last emoji deletes the message entry.
func (l *Ledger) Toggle(msgID, emoji, user string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	voters := l.votes[msgID][emoji]
	for i, v := range voters {
		if v != user {
			continue
		}
		voters = append(voters[:i], voters[i+1:]...)
		if len(voters) == 0 {
			delete(l.votes[msgID], emoji)
			if len(l.votes[msgID]) == 0 {
				delete(l.votes, msgID)
			}
		} else {
			l.votes[msgID][emoji] = voters
		}
		return false
	}

	if l.votes[msgID] == nil {
		l.votes[msgID] = make(types.Reactions)
	}
	l.votes[msgID][emoji] = append(voters, user)
	return true
}

// Get returns a copy of the reactions for one message.
func (l *Ledger) Get(msgID string) types.Reactions {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyReactions(l.votes[msgID])
}

// Snapshot returns a deep copy of the whole ledger.
func (l *Ledger) Snapshot() types.ReactionSet {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(types.ReactionSet, len(l.votes))
	for msgID, reactions := range l.votes {
		out[msgID] = copyReactions(reactions)
	}
	return out
}

// Replace swaps the entire ledger for the given state, normalizing away
// empty voter sets and duplicate voters so inbound broadcasts cannot break
// the invariants.
func (l *Ledger) Replace(votes types.ReactionSet) {
	next := make(types.ReactionSet, len(votes))
	for msgID, reactions := range votes {
		clean := make(types.Reactions, len(reactions))
		for emoji, voters := range reactions {
			deduped := dedupe(voters)
			if len(deduped) > 0 {
				clean[emoji] = deduped
			}
		}
		if len(clean) > 0 {
			next[msgID] = clean
		}
	}

	l.mu.Lock()
	l.votes = next
	l.mu.Unlock()
}

// Prune drops entries for message identities absent from live and returns
// how many were removed.
func (l *Ledger) Prune(live map[string]bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for msgID := range l.votes {
		if !live[msgID] {
			delete(l.votes, msgID)
			removed++
		}
	}
	return removed
}

// Len returns the number of messages with at least one reaction.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.votes)
}

func copyReactions(reactions types.Reactions) types.Reactions {
	if reactions == nil {
		return nil
	}
	out := make(types.Reactions, len(reactions))
	for emoji, voters := range reactions {
		out[emoji] = append([]string(nil), voters...)
	}
	return out
}

func dedupe(voters []string) []string {
	seen := make(map[string]bool, len(voters))
	out := voters[:0:0]
	for _, v := range voters {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
