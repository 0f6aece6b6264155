package extract

import (
	"context"
	"time"
)

// gate bounds concurrent extractions. A slot must be acquired before any
// model work starts; requests that cannot get one within maxWait are
// rejected so the HTTP layer can answer 429 instead of queueing forever.
type gate struct {
	slots   chan struct{}
	maxWait time.Duration
}

func newGate(n int, maxWait time.Duration) *gate {
	return &gate{slots: make(chan struct{}, n), maxWait: maxWait}
}

// acquire reserves a slot. Returns a release func to be deferred.
func (g *gate) acquire(ctx context.Context) (func(), error) {
	timer := time.NewTimer(g.maxWait)
	defer timer.Stop()
	select {
	case g.slots <- struct{}{}:
		return func() { <-g.slots }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{}
	}
}

// inflight reports how many slots are currently held.
func (g *gate) inflight() int { return len(g.slots) }

// capacity reports the configured slot count.
func (g *gate) capacity() int { return cap(g.slots) }
