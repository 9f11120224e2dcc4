// Package notify keeps the transient success/error banners a screen shows
// after a mutation. Notices expire after a TTL measured on an injectable clock.
package notify

import (
	"sync"
	"time"
)

const (
	DefaultTTL = 3 * time.Second
	DoctorTTL  = 5 * time.Second
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notice struct {
	Kind      Kind
	Message   string
	PostedAt  time.Time
	ExpiresAt time.Time
}

// Center holds at most one success and one error notice.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	success *Notice
	failure *Notice
}

func NewCenter(ttl time.Duration, now func() time.Time) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Center{ttl: ttl, now: now}
}

func (c *Center) Success(msg string) { c.post(KindSuccess, msg) }

func (c *Center) Error(msg string) { c.post(KindError, msg) }

func (c *Center) post(kind Kind, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now()
	n := &Notice{Kind: kind, Message: msg, PostedAt: at, ExpiresAt: at.Add(c.ttl)}
	if kind == KindSuccess {
		c.success = n
	} else {
		c.failure = n
	}
}

func (c *Center) live(n *Notice) (Notice, bool) {
	if n == nil || !c.now().Before(n.ExpiresAt) {
		return Notice{}, false
	}
	return *n, true
}

// SuccessMessage returns the live success message, or "".
func (c *Center) SuccessMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.live(c.success)
	return n.Message
}

// ErrorMessage returns the live error message, or "".
func (c *Center) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := c.live(c.failure)
	return n.Message
}

// Active returns the live notices, success first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Notice
	for _, n := range []*Notice{c.success, c.failure} {
		if live, ok := c.live(n); ok {
			out = append(out, live)
		}
	}
	return out
}

// Clear dismisses every notice.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success, c.failure = nil, nil
}
