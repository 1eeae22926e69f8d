package reactions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileChannel broadcasts through a watched spool directory: each publish
// rewrites this peer's spool file and siblings pick the write up via
// fsnotify. Own files are filtered by peer ID, so a tab never hears its
// own broadcast. Files are overwritten in place; only the latest payload
// per peer survives, which matches the last-write-wins model.
type FileChannel struct {
	dir     string
	name    string
	peer    string
	watcher *fsnotify.Watcher
	log     *zap.Logger

	mu     sync.Mutex
	fns    []func([]byte)
	closed bool
	done   sync.WaitGroup
}

// OpenFileChannel joins the named channel spooled under dir, creating the
// directory if needed.
func OpenFileChannel(dir, name string, log *zap.Logger) (*FileChannel, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start spool watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch spool dir: %w", err)
	}

	ch := &FileChannel{
		dir:     dir,
		name:    name,
		peer:    uuid.NewString(),
		watcher: watcher,
		log:     log,
	}
	ch.done.Add(1)
	go ch.watchLoop()
	return ch, nil
}

// Peer returns this channel's peer ID.
func (c *FileChannel) Peer() string { return c.peer }

// Publish atomically rewrites this peer's spool file with payload.
func (c *FileChannel) Publish(payload []byte) error {
	final := filepath.Join(c.dir, c.spoolFile(c.peer))
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write spool file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish spool file: %w", err)
	}
	return nil
}

// Subscribe registers fn for payloads published by sibling peers.
func (c *FileChannel) Subscribe(fn func([]byte)) {
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

func (c *FileChannel) watchLoop() {
	defer c.done.Done()
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				c.handleSpoolEvent(event.Name)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.Debug("spool watcher error", zap.Error(err))
		}
	}
}

func (c *FileChannel) handleSpoolEvent(path string) {
	base := filepath.Base(path)
	prefix := c.name + "__"
	if !strings.HasPrefix(base, prefix) || strings.HasSuffix(base, ".tmp") {
		return
	}
	if base == c.spoolFile(c.peer) {
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		// The writer may still be renaming; the next event retries.
		c.log.Debug("spool read failed", zap.String("file", base), zap.Error(err))
		return
	}

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

func (c *FileChannel) spoolFile(peer string) string {
	return fmt.Sprintf("%s__%s.json", c.name, peer)
}

// Close stops watching and removes this peer's spool file.
func (c *FileChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := c.watcher.Close()
	c.done.Wait()
	_ = os.Remove(filepath.Join(c.dir, c.spoolFile(c.peer)))
	return err
}
