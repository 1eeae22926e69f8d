package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mimouss56/wwsnb/internal/types"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type simTickMsg time.Time

// simScript is the synthetic traffic the demo session replays.
var simScript = []types.Message{
	{Author: "Théo Martin", Body: "hello everyone 👋"},
	{Author: "Théa Dubois", Body: "@question will the slides be shared?"},
	{Author: "Marc Léo", Body: "welcome to the session", Moderator: true},
	{Author: "Théo Martin", Body: "ping @%s did you see the doc?"},
	{Author: "Théa Dubois", Body: "the demo starts in five minutes"},
	{Author: "Marc Léo", Body: "@question anyone missing audio?", Moderator: true},
}

func simTick() tea.Cmd {
	return tea.Tick(4*time.Second, func(t time.Time) tea.Msg {
		return simTickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, simTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		// Engine state changed underneath (broadcast or load); the view
		// re-reads the ledger on render.
		return m, nil

	case attachMsg:
		m.attachPass()
		return m, nil

	case simTickMsg:
		m.deliverSimMessage()
		return m, simTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m *Model) deliverSimMessage() {
	if m.simIndex >= len(simScript) {
		return
	}
	msg := simScript[m.simIndex]
	m.simIndex++
	if strings.Contains(msg.Body, "%s") {
		msg.Body = fmt.Sprintf(msg.Body, m.opts.CurrentUser)
	}
	msg.Timestamp = time.Now().Format("15:04")
	m.appendMessage(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.listFocus = !m.listFocus
		m.box.Close()
		if m.listFocus {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil

	case "esc":
		if m.box.Open() {
			m.box.Close()
			return m, nil
		}
		return m, tea.Quit

	case "up":
		if m.box.Open() {
			m.box.Prev()
			return m, nil
		}
		if m.listFocus && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down":
		if m.box.Open() {
			m.box.Next()
			return m, nil
		}
		if m.listFocus && m.cursor < len(m.messages)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.box.Open() {
			m.commitSuggestion()
			return m, nil
		}
		if !m.listFocus {
			m.submitInput()
		}
		return m, nil
	}

	if m.listFocus {
		if emoji, ok := paletteKey(msg.String()); ok {
			m.toggleReaction(emoji)
		}
		return m, nil
	}
	return m.updateInput(msg)
}

// paletteKeys maps the list-mode reaction hotkeys onto the fixed palette.
var paletteKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="}

func paletteKey(key string) (string, bool) {
	for i, k := range paletteKeys {
		if k == key && i < len(types.Palette) {
			return types.Palette[i], true
		}
	}
	return "", false
}

func (m *Model) toggleReaction(emoji string) {
	if m.opts.CurrentUser == "" {
		// No detected user: voting stays inactive, not an error.
		return
	}
	if m.cursor < 0 || m.cursor >= len(m.messages) {
		return
	}
	mv := m.messages[m.cursor]
	if mv.id == "" {
		return
	}
	if err := m.engine.Toggle(mv.id, emoji, m.opts.CurrentUser); err != nil {
		m.log.Warn("reaction save failed", zap.Error(err))
	}
}

func (m *Model) commitSuggestion() {
	text, caret, ok := m.box.Commit(m.input.Value(), caretBytes(m.input))
	if !ok {
		return
	}
	m.input.SetValue(text)
	m.input.SetCursor(runeIndex(text, caret))
}

func (m *Model) submitInput() {
	body := m.input.Value()
	if body == "" {
		return
	}
	m.input.SetValue("")
	m.appendMessage(types.Message{
		Author:    m.opts.CurrentUser,
		Body:      body,
		Timestamp: time.Now().Format("15:04"),
	})
}

// updateInput routes a message to the text input and re-evaluates the
// suggestion box against the new text and caret. The box reads the cached
// directory synchronously; a stale entry keeps the previous candidates on
// screen rather than flashing blank.
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, isKey := msg.(tea.KeyMsg); isKey {
		m.box.Update(m.input.Value(), caretBytes(m.input), m.cache.Users())
	}
	return m, cmd
}
