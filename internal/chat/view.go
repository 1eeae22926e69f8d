package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	mentionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	modBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("88")).Padding(0, 1)
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	pillStyle     = lipgloss.NewStyle().Background(lipgloss.Color("236")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m *Model) View() string {
	var b strings.Builder

	for i, mv := range m.visibleMessages() {
		b.WriteString(m.renderMessage(mv, m.listFocus && i == m.cursorInWindow()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.box.Open() {
		b.WriteString(m.renderSuggestions())
	}

	b.WriteString(helpStyle.Render("tab: focus list · 1-9/0/-/=: react · enter: send/select · esc: close/quit"))
	b.WriteString("\n")
	return b.String()
}

// visibleMessages returns the tail of the history that fits on screen.
func (m *Model) visibleMessages() []messageView {
	max := m.height - 8
	if max < 1 {
		max = 10
	}
	if len(m.messages) <= max {
		return m.messages
	}
	return m.messages[len(m.messages)-max:]
}

func (m *Model) cursorInWindow() int {
	offset := len(m.messages) - len(m.visibleMessages())
	return m.cursor - offset
}

func (m *Model) renderMessage(mv messageView, selected bool) string {
	byline := lipgloss.NewStyle().Foreground(colorForUser(mv.msg.Author)).Bold(true).Render("@" + mv.msg.Author)
	if mv.ann.Moderator {
		byline += " " + modBadgeStyle.Render("MOD")
	}

	body := mv.msg.Body
	switch {
	case mv.ann.Question:
		body = questionStyle.Render(body)
	case mv.ann.Mention:
		body = mentionStyle.Render(body)
	}

	line := fmt.Sprintf("%s %s %s", timeStyle.Render(mv.msg.Timestamp), byline, body)
	if selected {
		line = cursorStyle.Render("▌") + line
	} else {
		line = " " + line
	}

	if pills := m.renderReactions(mv.id); pills != "" {
		line += "\n   " + pills
	}
	return line
}

// renderReactions draws the per-message reaction pills from the live
// ledger, sorted for a stable layout.
func (m *Model) renderReactions(msgID string) string {
	if msgID == "" {
		return ""
	}
	votes := m.engine.Ledger().Get(msgID)
	if len(votes) == 0 {
		return ""
	}

	emojis := make([]string, 0, len(votes))
	for emoji := range votes {
		emojis = append(emojis, emoji)
	}
	sort.Strings(emojis)

	pills := make([]string, 0, len(emojis))
	for _, emoji := range emojis {
		pills = append(pills, pillStyle.Render(fmt.Sprintf("%s %d", emoji, len(votes[emoji]))))
	}
	return strings.Join(pills, " ")
}

func (m *Model) renderSuggestions() string {
	var b strings.Builder
	for i, u := range m.box.Matches() {
		avatar := lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(colorForUser(u.Name)).
			Render(" " + u.Initials + " ")
		entry := fmt.Sprintf("%s %s", avatar, u.Name)
		if i == m.box.Selected() {
			entry = selectedStyle.Render(entry)
		}
		b.WriteString("  " + entry + "\n")
	}
	return b.String()
}
