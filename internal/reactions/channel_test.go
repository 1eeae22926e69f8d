package reactions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type capture struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capture) fn(payload []byte) {
	c.mu.Lock()
	c.payloads = append(c.payloads, append([]byte(nil), payload...))
	c.mu.Unlock()
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func (c *capture) last() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.payloads) == 0 {
		return nil
	}
	return c.payloads[len(c.payloads)-1]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestMemoryBusSkipsPublisher(t *testing.T) {
	bus := NewMemoryBus()
	a := bus.Open("topic")
	b := bus.Open("topic")
	defer a.Close()
	defer b.Close()

	var ca, cb capture
	a.Subscribe(ca.fn)
	b.Subscribe(cb.fn)

	if err := a.Publish([]byte("hello")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if ca.count() != 0 {
		t.Error("publisher received its own payload")
	}
	if cb.count() != 1 || string(cb.last()) != "hello" {
		t.Errorf("sibling received %d payloads, want [hello]", cb.count())
	}
}

func TestMemoryBusClosedChannelStopsReceiving(t *testing.T) {
	bus := NewMemoryBus()
	a := bus.Open("topic")
	b := bus.Open("topic")
	defer a.Close()

	var cb capture
	b.Subscribe(cb.fn)
	_ = b.Close()

	_ = a.Publish([]byte("after close"))
	if cb.count() != 0 {
		t.Error("closed channel still received a payload")
	}
}

func TestFileChannelDeliversToSiblings(t *testing.T) {
	dir := t.TempDir()

	a, err := OpenFileChannel(dir, "wwsnb_reactions_s1", nil)
	if err != nil {
		t.Fatalf("OpenFileChannel a: %v", err)
	}
	defer a.Close()
	b, err := OpenFileChannel(dir, "wwsnb_reactions_s1", nil)
	if err != nil {
		t.Fatalf("OpenFileChannel b: %v", err)
	}
	defer b.Close()

	var ca, cb capture
	a.Subscribe(ca.fn)
	b.Subscribe(cb.fn)

	if err := a.Publish([]byte(`{"kind":"update_reactions"}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return cb.count() > 0 }) {
		t.Fatal("sibling never received the spool write")
	}
	if string(cb.last()) != `{"kind":"update_reactions"}` {
		t.Errorf("sibling received %q", cb.last())
	}

	time.Sleep(50 * time.Millisecond)
	if ca.count() != 0 {
		t.Error("publisher received its own spool file")
	}
}

func TestFileChannelIgnoresOtherSessions(t *testing.T) {
	dir := t.TempDir()

	a, err := OpenFileChannel(dir, "wwsnb_reactions_s1", nil)
	if err != nil {
		t.Fatalf("OpenFileChannel: %v", err)
	}
	defer a.Close()
	other, err := OpenFileChannel(dir, "wwsnb_reactions_s2", nil)
	if err != nil {
		t.Fatalf("OpenFileChannel other: %v", err)
	}
	defer other.Close()

	var ca capture
	a.Subscribe(ca.fn)

	if err := other.Publish([]byte("foreign session")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if ca.count() != 0 {
		t.Error("channel received a payload scoped to another session")
	}
}

func TestRedisChannelRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	ctx := context.Background()
	a, err := OpenRedisChannel(ctx, client, "wwsnb_reactions_s1", nil)
	if err != nil {
		t.Fatalf("OpenRedisChannel a: %v", err)
	}
	defer a.Close()
	b, err := OpenRedisChannel(ctx, client, "wwsnb_reactions_s1", nil)
	if err != nil {
		t.Fatalf("OpenRedisChannel b: %v", err)
	}
	defer b.Close()

	var cb capture
	b.Subscribe(cb.fn)

	if err := a.Publish([]byte("over the broker")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return cb.count() > 0 }) {
		t.Fatal("subscriber never received the published payload")
	}
	if string(cb.last()) != "over the broker" {
		t.Errorf("received %q, want %q", cb.last(), "over the broker")
	}
}

func TestEnginesSyncOverRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	ctx := context.Background()
	chA, err := OpenRedisChannel(ctx, client, ScopeName("s1"), nil)
	if err != nil {
		t.Fatalf("OpenRedisChannel: %v", err)
	}
	chB, err := OpenRedisChannel(ctx, client, ScopeName("s1"), nil)
	if err != nil {
		t.Fatalf("OpenRedisChannel: %v", err)
	}

	doc := &fakeDoc{}
	doc.set("msg-1")
	tabA := NewEngine("s1", NewMemoryStore(), chA, doc, &fakeDisplay{}, nil)
	defer tabA.Close()
	tabB := NewEngine("s1", NewMemoryStore(), chB, doc, &fakeDisplay{}, nil)
	defer tabB.Close()

	tabB.Ledger().Toggle("msg-1", "❤️", "Bob")
	if err := tabB.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok := waitFor(t, 2*time.Second, func() bool {
		got := tabA.Ledger().Get("msg-1")
		return len(got["❤️"]) == 1 && got["❤️"][0] == "Bob"
	})
	if !ok {
		t.Errorf("tab A never converged over redis: %v", tabA.Ledger().Snapshot())
	}
}
