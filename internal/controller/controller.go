package controller

import (
	"context"
	"sync"
)

// numGroups is fixed: three rotation directions plus one snapshot group.
const numGroups = 4

// SnapshotGroup is the conflict group snapshots are admitted under. Rotation
// directions occupy groups 0..2 (see geom.Direction); snapshots form their
// own, fourth group, so a snapshot and a rotation exclude each other the
// same way two different rotation directions do.
const SnapshotGroup = 3

// noGroup marks that no group currently owns the cube.
const noGroup = -1

// Observer receives admission events as they happen. Implementations must
// be safe for concurrent use. The default observer drops every event, and
// SetObserver(nil) restores it.
type Observer interface {
	Admitted(group int)
	Blocked(group int)
	Cancelled(group int)
}

type noopObserver struct{}

func (noopObserver) Admitted(int)  {}
func (noopObserver) Blocked(int)   {}
func (noopObserver) Cancelled(int) {}

// Controller is the admission monitor for an N-plane cube: it decides which
// of the four conflict groups (three rotation directions, one snapshot) may
// run concurrently, excludes operations on the same plane from each other,
// and wakes blocked callers in bounded-bypass round-robin order once the
// cube frees up.
//
// The zero value is not usable; construct with New.
type Controller struct {
	bigMutex   *fifoMutex
	smallMutex sync.Mutex

	working      int
	activeGroup  int
	nextPriority int
	waiting      [numGroups]int
	pending      int

	groupGate [numGroups]*gate
	planeGate []*gate
	observer  Observer
}

// New returns a Controller admitting rotations over `planes` distinct
// plane ids (0..planes-1) plus the snapshot group.
func New(planes int) *Controller {
	c := &Controller{
		bigMutex:    newFifoMutex(),
		activeGroup: noGroup,
		planeGate:   make([]*gate, planes),
		observer:    noopObserver{},
	}
	for g := range c.groupGate {
		c.groupGate[g] = newGate(0)
	}
	for p := range c.planeGate {
		c.planeGate[p] = newGate(1)
	}
	return c
}

// SetObserver installs obs as the controller's admission observer,
// replacing any previous one. Passing nil restores the no-op default.
func (c *Controller) SetObserver(obs Observer) {
	if obs == nil {
		obs = noopObserver{}
	}
	c.observer = obs
}

// noWaiters reports whether no group currently has queued callers. A
// newcomer must queue behind them even if its own group would otherwise be
// free to admit it immediately — otherwise a steady stream of admissible
// newcomers could barge ahead of an already-waiting group forever.
func (c *Controller) noWaiters() bool {
	for _, w := range c.waiting {
		if w > 0 {
			return false
		}
	}
	return true
}

// canSkipWaiting reports whether a caller requesting `group` may join
// immediately without queuing: no group has anyone waiting, and either
// nobody currently holds the cube, or the caller's group is the one
// currently active and every member of the last wake-up pulse for it has
// already resumed (pending == 0).
func (c *Controller) canSkipWaiting(group int) bool {
	return c.noWaiters() && (c.working == 0 || (c.activeGroup == group && c.pending == 0))
}

// tryWakeNextGroup scans groups starting at nextPriority for the first with
// waiting callers, wakes every one of them at once, and advances
// nextPriority past the group it chose. Must be called with smallMutex held
// and with working == 0.
func (c *Controller) tryWakeNextGroup() bool {
	for i := 0; i < numGroups; i++ {
		g := (c.nextPriority + i) % numGroups
		if c.waiting[g] > 0 {
			c.activeGroup = g
			c.pending = c.waiting[g]
			c.nextPriority = (g + 1) % numGroups
			c.groupGate[g].release(c.pending)
			return true
		}
	}
	c.activeGroup = noGroup
	return false
}

// enterGroup blocks the caller until it is admitted into `group`, honoring
// bounded-bypass ordering against other groups. ctx cancellation while
// queued returns ctx.Err() and leaves all bookkeeping consistent, including
// the big-mutex hand-off to whichever cohort member, if any, is still owed
// one.
func (c *Controller) enterGroup(ctx context.Context, group int) error {
	c.bigMutex.Lock()
	c.smallMutex.Lock()

	if c.canSkipWaiting(group) {
		if c.working == 0 {
			// the cube was idle: this caller is the one who determines which
			// group is now active, the same way a wake-up pulse would.
			c.activeGroup = group
		}
		c.working++
		c.smallMutex.Unlock()
		c.bigMutex.Unlock()
		c.observer.Admitted(group)
		return nil
	}

	c.waiting[group]++
	c.smallMutex.Unlock()
	c.bigMutex.Unlock()
	c.observer.Blocked(group)

	err := c.groupGate[group].acquire(ctx)

	c.smallMutex.Lock()
	defer c.smallMutex.Unlock()

	if err == nil {
		c.waiting[group]--
		c.pending--
		c.working++
		if c.pending == 0 {
			c.bigMutex.Unlock()
		}
		c.observer.Admitted(group)
		return nil
	}

	c.waiting[group]--
	if c.pending > 0 && c.activeGroup == group {
		// The wake-up pulse counted this caller and released a permit for
		// it. If the caller had already left the gate's queue, that permit
		// was banked rather than absorbed: drain it so no later caller of
		// this group can take it outside a wake-up pulse.
		gg := c.groupGate[group]
		gg.lock()
		if gg.permits > 0 {
			gg.permits--
		}
		gg.unlock()
		c.pending--
		if c.pending == 0 {
			if c.working > 0 || !c.tryWakeNextGroup() {
				c.bigMutex.Unlock()
			}
		}
	}
	c.observer.Cancelled(group)
	return err
}

// exitGroup releases the caller's membership in `group`, waking the next
// eligible group if this was the last active member and someone is
// waiting.
func (c *Controller) exitGroup(group int) {
	c.bigMutex.Lock()
	c.working--
	c.smallMutex.Lock()
	if c.working > 0 || !c.tryWakeNextGroup() {
		c.bigMutex.Unlock()
	}
	c.smallMutex.Unlock()
}

// EnterRotate admits the caller to rotate within `direction`, then excludes
// it against any other in-flight rotation of the same `plane`. On
// cancellation after the direction group was already joined but before the
// plane was acquired, it backs the group membership out before returning.
func (c *Controller) EnterRotate(ctx context.Context, direction, plane int) error {
	if err := c.enterGroup(ctx, direction); err != nil {
		return err
	}
	if err := c.planeGate[plane].acquire(ctx); err != nil {
		c.exitGroup(direction)
		return err
	}
	return nil
}

// ExitRotate releases the plane exclusion and the direction group, in that
// order, mirroring the order they were acquired in.
func (c *Controller) ExitRotate(direction, plane int) {
	c.planeGate[plane].release(1)
	c.exitGroup(direction)
}

// EnterSnapshot admits the caller into the snapshot group.
func (c *Controller) EnterSnapshot(ctx context.Context) error {
	return c.enterGroup(ctx, SnapshotGroup)
}

// ExitSnapshot releases the caller's snapshot group membership.
func (c *Controller) ExitSnapshot() {
	c.exitGroup(SnapshotGroup)
}
