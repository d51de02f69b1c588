package state

import "sync"

// Container holds the one authoritative Snapshot for a running application.
// Dispatch is the single writer; any number of readers observe via Current
// or Subscribe. The reducer itself has no locking, so all writes funnel
// through here.
type Container struct {
	mu   sync.RWMutex
	snap Snapshot
	subs []func(Snapshot)
}

// NewContainer returns a container holding the empty start-of-process
// snapshot.
func NewContainer() *Container {
	return &Container{}
}

// Dispatch applies one action and returns the resulting snapshot.
// Subscribers are notified outside the lock, in registration order, with
// the value the dispatch produced.
func (c *Container) Dispatch(a Action) Snapshot {
	c.mu.Lock()
	c.snap = Reduce(c.snap, a)
	next := c.snap
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Current returns the snapshot as of the last completed dispatch.
func (c *Container) Current() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Subscribe registers an observer called after every dispatch.
// Observers receive snapshot values, never shared pointers, so they cannot
// corrupt the container's copy.
func (c *Container) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
