package reactions

import (
	"encoding/json"
	"fmt"

	"github.com/Mimouss56/wwsnb/internal/annotate"
	"github.com/Mimouss56/wwsnb/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document reports which message identities are currently present in the
// visible render tree. Saving prunes the ledger against it: reactions for
// messages that left the tree are deliberately dropped, not retained.
type Document interface {
	LiveMessageIDs() []string
}

// Display receives refresh requests after ledger changes. Implementations
// are the host-page adapter (or a TUI view); they must be cheap.
type Display interface {
	RefreshMessage(msgID string)
	RefreshAll()
}

// Engine owns one session's ledger, its durable storage and its broadcast
// channel. Session scope is fixed at construction: re-scoping means
// closing this engine and building a new one, never mutating shared state.
type Engine struct {
	session string
	peer    string
	store   Store
	channel Channel
	doc     Document
	display Display
	log     *zap.Logger

	ledger   *Ledger
	attached *annotate.Marker
}

// NewEngine wires an engine for the given session token. The store and
// channel are owned by the caller except for the channel subscription,
// which the engine tears down on Close.
func NewEngine(session string, store Store, channel Channel, doc Document, display Display, log *zap.Logger) *Engine {
	if session == "" {
		session = core.DefaultSession
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		session:  session,
		peer:     uuid.NewString(),
		store:    store,
		channel:  channel,
		doc:      doc,
		display:  display,
		log:      log.With(zap.String("session", session)),
		ledger:   NewLedger(),
		attached: annotate.NewMarker(),
	}
	channel.Subscribe(e.handleBroadcast)
	return e
}

// ScopeName derives the storage key and channel name for a session token,
// so distinct sessions never cross-contaminate state.
func ScopeName(session string) string {
	return "wwsnb_reactions_" + session
}

// Ledger exposes the engine's ledger for reads.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Attach registers a newly-seen message and reports its identity plus
// whether this was its first appearance. Already-attached messages are
// never reprocessed, however often the change stream reports them.
func (e *Engine) Attach(author, body, timestamp string) (msgID string, first bool) {
	msgID = core.DeriveMessageID(author, body, timestamp)
	return msgID, e.attached.FirstSeen(msgID)
}

// Toggle flips a vote and runs the two ordered side effects: the local
// display refresh first (instant feedback), then the durable save and
// broadcast.
func (e *Engine) Toggle(msgID, emoji, user string) error {
	e.ledger.Toggle(msgID, emoji, user)
	e.display.RefreshMessage(msgID)
	return e.Save()
}

// Save prunes the ledger to the live document, persists it under the
// session key and broadcasts the same payload to sibling contexts.
func (e *Engine) Save() error {
	live := make(map[string]bool)
	for _, id := range e.doc.LiveMessageIDs() {
		live[id] = true
	}
	if removed := e.ledger.Prune(live); removed > 0 {
		e.log.Debug("pruned reactions for departed messages", zap.Int("removed", removed))
	}
	e.attached.Forget(live)

	serialized, err := marshalLedger(e.ledger.Snapshot())
	if err != nil {
		return fmt.Errorf("serialize ledger: %w", err)
	}
	if err := e.store.Save(ScopeName(e.session), serialized); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	env, err := marshalEnvelope(e.peer, serialized)
	if err != nil {
		return fmt.Errorf("frame broadcast: %w", err)
	}
	if err := e.channel.Publish(env); err != nil {
		return fmt.Errorf("broadcast ledger: %w", err)
	}
	return nil
}

// Load seeds the ledger from storage. Absence and garbled payloads both
// reset to empty; the failure is logged and absorbed, never returned.
func (e *Engine) Load() {
	defer e.display.RefreshAll()

	data, err := e.store.Load(ScopeName(e.session))
	if err != nil {
		e.log.Warn("ledger load failed, starting empty", zap.Error(err))
		e.ledger.Replace(nil)
		return
	}
	if data == nil {
		e.ledger.Replace(nil)
		return
	}

	votes, err := unmarshalLedger(data)
	if err != nil {
		e.log.Warn("stored ledger unreadable, starting empty", zap.Error(err))
		e.ledger.Replace(nil)
		return
	}
	e.ledger.Replace(votes)
}

// handleBroadcast applies an inbound channel message: a recognized update
// replaces the whole ledger (last write wins, no merge) and refreshes
// every visible message. Anything malformed is dropped with a log line.
func (e *Engine) handleBroadcast(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		e.log.Warn("dropping malformed broadcast", zap.Error(err))
		return
	}
	if env.Kind != KindUpdateReactions {
		e.log.Debug("ignoring broadcast of unknown kind", zap.String("kind", env.Kind))
		return
	}
	if env.Sender == e.peer {
		return
	}

	votes, err := unmarshalLedger(env.Reactions)
	if err != nil {
		e.log.Warn("dropping undecodable broadcast", zap.Error(err))
		return
	}
	e.ledger.Replace(votes)
	e.display.RefreshAll()
}

// Close releases the broadcast channel. The ledger simply stops being
// referenced; there is nothing else to tear down.
func (e *Engine) Close() error {
	return e.channel.Close()
}
