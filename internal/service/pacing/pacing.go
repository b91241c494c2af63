// Package pacing computes the human-like delays that stagger fragment
// emission so a turn reads like someone typing, not like a burst.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	preResponseMin    = 1000 * time.Millisecond
	preResponseSpread = 2000 * time.Millisecond

	fragmentBase    = 500 * time.Millisecond
	fragmentPerRune = 50 * time.Millisecond
	fragmentJitter  = 300 * time.Millisecond
	fragmentFloor   = 300 * time.Millisecond
)

// Controller produces and waits out conversational delays.
type Controller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewController seeds a controller from the wall clock.
func NewController() *Controller {
	return &Controller{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// PreResponseDelay is the pause before the first fragment of a turn,
// uniformly random in [1000ms, 3000ms).
func (c *Controller) PreResponseDelay() time.Duration {
	return preResponseMin + c.random(preResponseSpread)
}

// FragmentDelay sizes the pause before fragment i (i >= 1) to the fragment
// text: max(300ms, 500ms + 50ms per code point + uniform(-300ms, +300ms)).
// Counting code points instead of bytes keeps multi-byte glyphs from
// undercounting.
func (c *Controller) FragmentDelay(fragment string) time.Duration {
	runes := utf8.RuneCountInString(fragment)
	jitter := c.random(2*fragmentJitter) - fragmentJitter

	delay := fragmentBase + time.Duration(runes)*fragmentPerRune + jitter
	if delay < fragmentFloor {
		delay = fragmentFloor
	}
	return delay
}

// BeforeResponse waits out the pre-response delay.
func (c *Controller) BeforeResponse(ctx context.Context) error {
	return wait(ctx, c.PreResponseDelay())
}

// BetweenFragments waits out the inter-fragment delay for fragment.
func (c *Controller) BetweenFragments(ctx context.Context, fragment string) error {
	return wait(ctx, c.FragmentDelay(fragment))
}

func (c *Controller) random(spread time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.rng.Int63n(int64(spread)))
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
