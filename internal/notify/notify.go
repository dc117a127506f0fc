package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TTL matches the auto-dismiss timing of the storefront toasts.
const TTL = 3 * time.Second

type Notice struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Center collects the transient notices of one session. Errors of the
// non-fatal kind end up here instead of propagating.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

func (c *Center) Push(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.notices = append(c.notices, Notice{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	})
}

// Active returns the not-yet-dismissed notices and drops expired ones.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.notices[:0]
	for _, n := range c.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}
