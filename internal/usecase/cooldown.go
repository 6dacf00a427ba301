package usecase

import (
	"sync"
	"time"
)

// How long a page stays gated after the source signals throttling. Fixed
// constant, no exponential growth, no jitter.
const rateLimitBackoff = 65 * time.Second

// CooldownRegistry tracks per-page cooldown windows. Shared by every
// concurrent sync run in the process; state is process-lifetime only, not
// persisted. A page in cooldown is skipped entirely instead of blocking
// the run with an inline sleep.
type CooldownRegistry struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewCooldownRegistry() *CooldownRegistry {
	return &CooldownRegistry{
		until: make(map[string]time.Time),
		now:   time.Now,
	}
}

// MarkLimited opens the cooldown window for a page and returns when it
// closes again.
func (c *CooldownRegistry) MarkLimited(pageID string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	until := c.now().Add(rateLimitBackoff)
	c.until[pageID] = until
	return until
}

// Cooling reports whether pageID is still inside its cooldown window.
// Expired entries are cleared on read.
func (c *CooldownRegistry) Cooling(pageID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.until[pageID]
	if !ok {
		return false
	}
	if c.now().Before(until) {
		return true
	}
	delete(c.until, pageID)
	return false
}
