package reactions

import "sync"

// Channel propagates ledger broadcasts to sibling execution contexts. A
// channel may deliver a tab's own publishes back to it; the engine filters
// those by sender ID. Close tears down the subscription so a session
// re-init holds at most one live channel at a time.
type Channel interface {
	Publish(payload []byte) error
	Subscribe(fn func(payload []byte))
	Close() error
}

// MemoryBus fans published payloads out to every channel opened on the
// same name within the process. It backs tests and single-process use.
type MemoryBus struct {
	mu     sync.Mutex
	topics map[string][]*memoryChannel
}

// NewMemoryBus returns an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{topics: make(map[string][]*memoryChannel)}
}

// Open joins the named topic.
func (b *MemoryBus) Open(name string) Channel {
	ch := &memoryChannel{bus: b, name: name}
	b.mu.Lock()
	b.topics[name] = append(b.topics[name], ch)
	b.mu.Unlock()
	return ch
}

func (b *MemoryBus) publish(name string, from *memoryChannel, payload []byte) {
	b.mu.Lock()
	peers := append([]*memoryChannel(nil), b.topics[name]...)
	b.mu.Unlock()

	for _, peer := range peers {
		if peer == from {
			continue
		}
		peer.deliver(payload)
	}
}

func (b *MemoryBus) drop(name string, ch *memoryChannel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	peers := b.topics[name]
	for i, peer := range peers {
		if peer == ch {
			b.topics[name] = append(peers[:i], peers[i+1:]...)
			return
		}
	}
}

type memoryChannel struct {
	bus  *MemoryBus
	name string

	mu     sync.Mutex
	fns    []func([]byte)
	closed bool
}

func (c *memoryChannel) Publish(payload []byte) error {
	c.bus.publish(c.name, c, payload)
	return nil
}

func (c *memoryChannel) Subscribe(fn func([]byte)) {
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

func (c *memoryChannel) deliver(payload []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fns := append(([]func([]byte))(nil), c.fns...)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

func (c *memoryChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.fns = nil
	c.mu.Unlock()
	c.bus.drop(c.name, c)
	return nil
}
