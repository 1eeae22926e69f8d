// Package directory caches the host page's user directory behind a
// freshness window so suggestion lookups never trigger a scan storm.
package directory

import (
	"sync"
	"time"

	"github.com/Mimouss56/wwsnb/internal/types"
	"go.uber.org/zap"
)

// DefaultFreshness is how long a scan result stays usable before the next
// lookup forces a rescan.
const DefaultFreshness = 3 * time.Second

// Scanner produces the current user directory. Implementations live with
// the host-page adapter; the cache never sees raw markup.
type Scanner interface {
	Scan() ([]types.User, error)
}

// ScanFunc adapts a function to the Scanner interface.
type ScanFunc func() ([]types.User, error)

func (f ScanFunc) Scan() ([]types.User, error) { return f() }

// Cache holds the most recent directory scan. A cached value older than
// the freshness window is treated as absent and refreshed on lookup; the
// entry is overwritten wholesale, never merged.
type Cache struct {
	scanner   Scanner
	freshness time.Duration
	log       *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	users     []types.User
	fetchedAt time.Time
}

// NewCache builds a cache over the given scanner. A zero freshness falls
// back to DefaultFreshness.
func NewCache(scanner Scanner, freshness time.Duration, log *zap.Logger) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		scanner:   scanner,
		freshness: freshness,
		log:       log,
		now:       time.Now,
	}
}

// Users returns the cached directory, rescanning first when the entry is
// missing or stale. A failed scan degrades to the previous value: absence
// of users means the mention feature goes inactive, never that the caller
// sees an error.
func (c *Cache) Users() []types.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) <= c.freshness {
		return c.users
	}

	users, err := c.scanner.Scan()
	if err != nil {
		c.log.Warn("directory scan failed, keeping previous entry", zap.Error(err))
		return c.users
	}
	c.users = users
	c.fetchedAt = now
	c.log.Debug("directory refreshed", zap.Int("users", len(users)))
	return c.users
}

// Invalidate drops the cached entry so the next lookup rescans.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = nil
	c.fetchedAt = time.Time{}
}
