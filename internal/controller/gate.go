// Package controller implements the admission monitor that guards
// concurrent access to a cube: which operations may run together, which
// must exclude each other, and how blocked callers are woken and ordered.
package controller

import "context"

// gate is a counting semaphore used for the per-group and per-plane wait
// queues. It behaves like a classic counting semaphore (acquire blocks
// until a permit is available; release(n) adds n permits and hands them to
// queued waiters in arrival order) with one refinement: if a context is
// cancelled at the exact moment a permit is being handed to its waiter, the
// gate still completes the handoff internally rather than losing the permit
// or leaking the handing-off goroutine. The caller is still told the wait
// was cancelled; callers that need to know whether a permit was silently
// consumed on their behalf track that themselves via coarser bookkeeping
// (see Controller.enterGroup) rather than trusting the gate's own notion
// of who "won".
type gate struct {
	mu      chan struct{} // binary mutex guarding permits/waiters, 1 token
	permits int
	waiters []chan struct{}
}

func newGate(initial int) *gate {
	g := &gate{mu: make(chan struct{}, 1), permits: initial}
	g.mu <- struct{}{}
	return g
}

func (g *gate) lock()   { <-g.mu }
func (g *gate) unlock() { g.mu <- struct{}{} }

// acquire blocks until a permit is available or ctx is done. On cancellation
// it returns ctx.Err(); the permit either was never granted (still available
// to other waiters) or was transparently absorbed by the gate itself.
func (g *gate) acquire(ctx context.Context) error {
	g.lock()
	if g.permits > 0 {
		g.permits--
		g.unlock()
		return nil
	}
	ch := make(chan struct{})
	g.waiters = append(g.waiters, ch)
	g.unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		g.lock()
		found := -1
		for i, w := range g.waiters {
			if w == ch {
				found = i
				break
			}
		}
		if found >= 0 {
			g.waiters = append(g.waiters[:found], g.waiters[found+1:]...)
			g.unlock()
			return ctx.Err()
		}
		g.unlock()
		// Already popped by a concurrent release: a permit is in flight to
		// us. Absorb it so release doesn't block forever and the permit
		// isn't lost, then still report the cancellation.
		<-ch
		return ctx.Err()
	}
}

// release adds n permits, handing them off to queued waiters first in
// arrival order and banking any excess.
func (g *gate) release(n int) {
	g.lock()
	for n > 0 && len(g.waiters) > 0 {
		w := g.waiters[0]
		g.waiters = g.waiters[1:]
		n--
		g.unlock()
		w <- struct{}{}
		g.lock()
	}
	g.permits += n
	g.unlock()
}
