package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"trijoshh/internal/core"
)

// Debouncer coalesces a stream of description edits into at most one
// provider call per quiet period. Each Await supersedes the previous one:
// a generation counter is checked both before and after the provider call,
// so a result that arrives after a newer edit is discarded instead of being
// applied to stale state. Cancellation is cooperative; an in-flight provider
// call is never aborted, only ignored.
type Debouncer struct {
	client    *Client
	quiet     time.Duration
	minLength int

	mu         sync.Mutex
	gen        uint64
	superseded chan struct{}
}

// NewDebouncer wraps client with a quiet period and a minimum description
// length. Descriptions shorter than minLength (after trimming) never reach
// the provider.
func NewDebouncer(client *Client, quiet time.Duration, minLength int) *Debouncer {
	return &Debouncer{client: client, quiet: quiet, minLength: minLength}
}

// Await registers description as the latest edit, waits out the quiet
// period, and returns the suggestion. It reports ok=false when a newer edit
// supersedes this one, the description is too short, ctx is done, or the
// provider has no valid suggestion.
func (d *Debouncer) Await(ctx context.Context, description string) (core.Category, bool) {
	gen, superseded := d.bump()

	if len(strings.TrimSpace(description)) < d.minLength {
		return "", false
	}

	timer := time.NewTimer(d.quiet)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", false
	case <-superseded:
		return "", false
	case <-timer.C:
	}

	cat, ok := d.client.Suggest(ctx, description)

	// The provider may have taken long enough for a newer edit to arrive;
	// its result must not be delivered for the stale description.
	if !d.current(gen) || !ok {
		return "", false
	}
	return cat, true
}

// bump starts a new generation, waking any waiter from the previous one.
func (d *Debouncer) bump() (uint64, chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.superseded != nil {
		close(d.superseded)
	}
	d.superseded = make(chan struct{})
	return d.gen, d.superseded
}

func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen
}
