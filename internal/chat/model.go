// Package chat is a terminal front end over the augmentation engines: a
// synthetic chat session with live mention suggestions, per-message
// reactions and cross-process reaction sync. It stands in for the browser
// adapter the engines normally serve.
package chat

import (
	"sync"
	"time"

	"github.com/Mimouss56/wwsnb/internal/annotate"
	"github.com/Mimouss56/wwsnb/internal/directory"
	"github.com/Mimouss56/wwsnb/internal/observe"
	"github.com/Mimouss56/wwsnb/internal/reactions"
	"github.com/Mimouss56/wwsnb/internal/suggest"
	"github.com/Mimouss56/wwsnb/internal/types"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options configures a chat session.
type Options struct {
	Session     string
	CurrentUser string
	Roster      []string
	Store       reactions.Store
	Channel     reactions.Channel
	Freshness   time.Duration
	Debounce    time.Duration
	Sweep       time.Duration
	Log         *zap.Logger
}

type messageView struct {
	msg types.Message
	id  string
	ann annotate.Annotation
}

// docView is the engine's window onto the rendered messages. Only the
// most recent retainWindow messages stay live; reactions for older ones
// get pruned on save, like a virtualized view dropping rows.
type docView struct {
	mu  sync.Mutex
	ids []string
}

const retainWindow = 50

func (d *docView) set(ids []string) {
	d.mu.Lock()
	d.ids = ids
	d.mu.Unlock()
}

func (d *docView) LiveMessageIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ids...)
}

// tuiDisplay forwards engine refreshes into the bubbletea loop.
type tuiDisplay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

type refreshMsg struct{}

// attachMsg asks the program loop to run an attach pass. The debouncer
// fires on timer goroutines; the pass itself must run where the message
// list is owned.
type attachMsg struct{}

func (d *tuiDisplay) attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	d.mu.Unlock()
}

func (d *tuiDisplay) post(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (d *tuiDisplay) RefreshMessage(string) { d.post(refreshMsg{}) }
func (d *tuiDisplay) RefreshAll()           { d.post(refreshMsg{}) }

// Model is the bubbletea model for the session.
type Model struct {
	opts    Options
	log     *zap.Logger
	input   textinput.Model
	box     *suggest.Box
	cache   *directory.Cache
	scanner *rosterScanner
	engine  *reactions.Engine
	doc     *docView
	display *tuiDisplay
	hub     *observe.Hub
	sched   *observe.Debouncer

	messages  []messageView
	cursor    int
	listFocus bool
	width     int
	height    int
	simIndex  int
}

func newModel(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "message (@ to mention)"
	input.Focus()
	input.CharLimit = 500

	scanner := newRosterScanner(opts.Roster)
	doc := &docView{}
	display := &tuiDisplay{}
	m := &Model{
		opts:    opts,
		log:     opts.Log,
		input:   input,
		box:     suggest.NewBox(),
		cache:   directory.NewCache(scanner, opts.Freshness, opts.Log),
		scanner: scanner,
		doc:     doc,
		display: display,
		hub:     observe.NewHub(),
	}
	m.engine = reactions.NewEngine(opts.Session, opts.Store, opts.Channel, doc, display, opts.Log)
	m.engine.Load()

	// Change notifications from the simulated host drive the idempotent
	// attach pass, debounced with an interval sweep as backstop. The pass
	// is posted into the program loop rather than run on the timer
	// goroutine.
	m.sched = observe.NewDebouncer(opts.Debounce, opts.Sweep, func() {
		display.post(attachMsg{})
	})
	m.hub.Subscribe(m.sched.Trigger)
	m.sched.Start()
	return m
}

// attachPass scans the rendered messages and initializes any not yet seen.
// Safe to run from either timer: attach is idempotent.
func (m *Model) attachPass() {
	for i := range m.messages {
		if m.messages[i].id != "" {
			continue
		}
		mv := &m.messages[i]
		id, first := m.engine.Attach(mv.msg.Author, mv.msg.Body, mv.msg.Timestamp)
		mv.id = id
		if first {
			mv.ann = annotate.Classify(mv.msg, m.opts.CurrentUser)
		}
	}
	m.syncDoc()
}

func (m *Model) syncDoc() {
	start := 0
	if len(m.messages) > retainWindow {
		start = len(m.messages) - retainWindow
	}
	ids := make([]string, 0, len(m.messages)-start)
	for _, mv := range m.messages[start:] {
		if mv.id != "" {
			ids = append(ids, mv.id)
		}
	}
	m.doc.set(ids)
}

func (m *Model) appendMessage(msg types.Message) {
	m.scanner.observeAuthor(msg.Author)
	mv := messageView{msg: msg}
	mv.id, _ = m.engine.Attach(msg.Author, msg.Body, msg.Timestamp)
	mv.ann = annotate.Classify(msg, m.opts.CurrentUser)
	m.messages = append(m.messages, mv)
	m.syncDoc()

	if mv.ann.Mention && msg.Author != m.opts.CurrentUser {
		notifyMention(msg.Author, msg.Body)
	}
	m.hub.Notify()
}

// Run starts the session and blocks until the user quits.
func Run(opts Options) error {
	m := newModel(opts)
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.display.attach(p.Send)
	_, err := p.Run()
	return err
}

func (m *Model) shutdown() {
	m.sched.Stop()
	if err := m.engine.Close(); err != nil {
		m.log.Warn("engine close", zap.Error(err))
	}
}
