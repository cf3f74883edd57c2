package call

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexthop-io/transport/internal/events"
)

// Call tracks the single lifecycle from §4.G: CallStart -> ... -> (CallEnd |
// CallFailed), with an independent at-most-once Canceled event that may
// land at any point after creation.
type Call struct {
	ID   string
	Tags Tags

	mu        sync.Mutex
	bus       *events.Bus
	started   bool
	finished  bool
	canceled  bool
}

// New creates a call bound to bus, id'd the way the rest of the pack
// stamps new resource identifiers: a time-ordered UUIDv7, falling back to a
// random v4 if entropy is unavailable.
func New(bus *events.Bus) *Call {
	id, err := uuid.NewV7()
	var idStr string
	if err != nil {
		idStr = uuid.New().String()
	} else {
		idStr = id.String()
	}
	return &Call{ID: idStr, bus: bus}
}

// IsCanceled reports whether Cancel has been invoked.
func (c *Call) IsCanceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// Cancel requests cancellation. Safe to call multiple times and from any
// point in the call's life, including before Start; the Canceled event is
// emitted at most once.
func (c *Call) Cancel() {
	c.mu.Lock()
	if c.canceled {
		c.mu.Unlock()
		return
	}
	c.canceled = true
	c.mu.Unlock()
	c.bus.Emit(events.Event{Kind: events.Canceled, At: time.Now(), CallID: c.ID})
}

// Start emits CallStart; must be called at most once per call.
func (c *Call) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()
	c.bus.Emit(events.Event{Kind: events.CallStart, At: time.Now(), CallID: c.ID})
}

// End emits CallEnd, terminating the success path.
func (c *Call) End() {
	c.finish(events.Event{Kind: events.CallEnd, At: time.Now(), CallID: c.ID})
}

// Fail emits CallFailed, terminating the failure path.
func (c *Call) Fail(err error) {
	c.finish(events.Event{Kind: events.CallFailed, At: time.Now(), CallID: c.ID, Err: err})
}

func (c *Call) finish(e events.Event) {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.finished = true
	c.mu.Unlock()
	c.bus.Emit(e)
}
