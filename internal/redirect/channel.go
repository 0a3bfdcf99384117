package redirect

import (
	"context"
	"sync"

	"walletlink/internal/domain"
)

// Channel is an in-process redirect source. The initial URL models an app
// launched by a redirect; Publish models redirects arriving while running.
type Channel struct {
	mu      sync.Mutex
	initial string
	next    int
	subs    map[int]func(string)
}

// NewChannel returns an empty Channel.
func NewChannel() *Channel {
	return &Channel{subs: make(map[int]func(string))}
}

// SetInitial records the URL the process was started with.
func (c *Channel) SetInitial(rawURL string) {
	c.mu.Lock()
	c.initial = rawURL
	c.mu.Unlock()
}

// InitialURL returns the launch URL, if any. It is not consumed; repeated
// calls return the same URL, as a platform launch URL would.
func (c *Channel) InitialURL(context.Context) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initial, c.initial != ""
}

// Subscribe registers fn for published URLs.
func (c *Channel) Subscribe(fn func(rawURL string)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Publish hands rawURL to every current subscriber and reports how many
// received it. Subscribers run on the caller's goroutine.
func (c *Channel) Publish(rawURL string) int {
	c.mu.Lock()
	fns := make([]func(string), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(rawURL)
	}
	return len(fns)
}

// Subscribers returns the number of live subscriptions.
func (c *Channel) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

var _ domain.RedirectSource = (*Channel)(nil)
