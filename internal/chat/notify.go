package chat

import "github.com/gen2brain/beeep"

// notifyMention raises a desktop notification for an inbound message that
// mentions the current user. Failures are ignored: notifications are a
// convenience, not a feature the session depends on.
func notifyMention(author, body string) {
	_ = beeep.Notify("wwsnb: you were mentioned", author+": "+body, "")
}
