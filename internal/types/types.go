package types

// User represents a directory entry. Identity is the cleaned display name;
// Initials and Color are derived from it and are never set independently.
type User struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// Message is a parsed chat message as reported by the host page.
type Message struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	Moderator bool   `json:"moderator,omitempty"`
}

// Reactions maps emoji to the users who voted it on a single message.
type Reactions map[string][]string

// ReactionSet maps message identity to its reactions.
type ReactionSet map[string]Reactions

// Palette is the fixed set of selectable reaction emoji.
var Palette = []string{
	"👍", "❤️", "😂", "😮", "😢", "😡",
	"🎉", "🤔", "👀", "🔥", "✨", "👎",
}
