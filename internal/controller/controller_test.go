package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSameDirectionRotationsOnDifferentPlanesRunConcurrently(t *testing.T) {
	c := New(4)
	ctx := context.Background()

	require.NoError(t, c.EnterRotate(ctx, 0, 0))
	require.NoError(t, c.EnterRotate(ctx, 0, 1))
	// both admitted without blocking: different planes, same direction group
	c.ExitRotate(0, 0)
	c.ExitRotate(0, 1)
}

func TestSameGroupNewcomerQueuesBehindAnotherGroupsWaiter(t *testing.T) {
	c := New(4)
	ctx := context.Background()

	require.NoError(t, c.EnterRotate(ctx, 0, 0))

	bWaiting := make(chan struct{})
	bDone := make(chan error, 1)
	go func() {
		close(bWaiting)
		bDone <- c.EnterRotate(context.Background(), 1, 0)
	}()
	<-bWaiting
	time.Sleep(20 * time.Millisecond) // let B genuinely queue: waiting[1] == 1

	cAdmitted := make(chan struct{})
	go func() {
		// same direction group as the active one, a different plane: must
		// not barge ahead of B just because its own group looks free.
		require.NoError(t, c.EnterRotate(context.Background(), 0, 1))
		close(cAdmitted)
	}()

	select {
	case <-cAdmitted:
		t.Fatal("a same-group, different-plane newcomer barged ahead of a waiting foreign group")
	case <-time.After(50 * time.Millisecond):
	}

	c.ExitRotate(0, 0)

	// A's exit wakes exactly one waiting group (round-robin from
	// nextPriority, which starts at 0): C's group comes up first here, B's
	// group only once C's cohort has fully exited in turn.
	select {
	case <-cAdmitted:
	case <-time.After(time.Second):
		t.Fatal("C was never admitted after A exited")
	}
	c.ExitRotate(0, 1)

	select {
	case err := <-bDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("B was never admitted")
	}
	c.ExitRotate(1, 0)
}

func TestSamePlaneRotationsExcludeEachOther(t *testing.T) {
	c := New(4)
	ctx := context.Background()
	require.NoError(t, c.EnterRotate(ctx, 0, 2))

	admitted := make(chan struct{})
	go func() {
		require.NoError(t, c.EnterRotate(context.Background(), 0, 2))
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("second caller on the same plane was admitted while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	c.ExitRotate(0, 2)
	<-admitted
	c.ExitRotate(0, 2)
}

func TestDifferentDirectionGroupsExcludeEachOther(t *testing.T) {
	c := New(4)
	ctx := context.Background()
	require.NoError(t, c.EnterRotate(ctx, 0, 0))

	admitted := make(chan struct{})
	go func() {
		require.NoError(t, c.EnterRotate(context.Background(), 1, 1))
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("a different direction group was admitted while another group was active")
	case <-time.After(50 * time.Millisecond):
	}

	c.ExitRotate(0, 0)
	<-admitted
	c.ExitRotate(1, 1)
}

func TestSnapshotAndRotationExcludeEachOther(t *testing.T) {
	c := New(4)
	ctx := context.Background()
	require.NoError(t, c.EnterSnapshot(ctx))

	admitted := make(chan struct{})
	go func() {
		require.NoError(t, c.EnterRotate(context.Background(), 0, 0))
		close(admitted)
	}()

	select {
	case <-admitted:
		t.Fatal("a rotation was admitted while a snapshot held the cube")
	case <-time.After(50 * time.Millisecond):
	}

	c.ExitSnapshot()
	<-admitted
	c.ExitRotate(0, 0)
}

func TestMultipleSnapshotsRunConcurrently(t *testing.T) {
	c := New(4)
	ctx := context.Background()
	require.NoError(t, c.EnterSnapshot(ctx))
	require.NoError(t, c.EnterSnapshot(ctx))
	c.ExitSnapshot()
	c.ExitSnapshot()
}

func TestEntireWaitingCohortIsWokenTogether(t *testing.T) {
	c := New(5)
	ctx := context.Background()
	require.NoError(t, c.EnterRotate(ctx, 0, 0))

	const cohort = 5
	var admittedCount atomic.Int32
	allAdmitted := make(chan struct{})

	for i := 0; i < cohort; i++ {
		go func(plane int) {
			require.NoError(t, c.EnterRotate(context.Background(), 1, plane))
			if admittedCount.Add(1) == int32(cohort) {
				close(allAdmitted)
			}
		}(i)
	}
	// give the cohort time to queue up behind the direction group
	time.Sleep(30 * time.Millisecond)

	c.ExitRotate(0, 0)

	select {
	case <-allAdmitted:
	case <-time.After(time.Second):
		t.Fatalf("only %d/%d waiters admitted after wake", admittedCount.Load(), cohort)
	}
}

func TestCancellingAQueuedWaiterDoesNotBlockOthersInItsGroup(t *testing.T) {
	c := New(4)
	require.NoError(t, c.EnterRotate(context.Background(), 0, 0))

	ctxCancelled, cancel := context.WithCancel(context.Background())
	cancelledDone := make(chan error, 1)
	go func() {
		cancelledDone <- c.EnterRotate(ctxCancelled, 1, 0)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-cancelledDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter never returned")
	}

	survivorDone := make(chan error, 1)
	go func() {
		survivorDone <- c.EnterRotate(context.Background(), 1, 1)
	}()
	time.Sleep(20 * time.Millisecond)
	c.ExitRotate(0, 0)

	select {
	case err := <-survivorDone:
		require.NoError(t, err)
		c.ExitRotate(1, 1)
	case <-time.After(time.Second):
		t.Fatal("surviving group member was never admitted after a cohort-mate cancelled")
	}
}

func TestCancellationDuringWakeStillHandsOffBigMutex(t *testing.T) {
	// Regression for the big-mutex inheritance path: if the last reacting
	// member of a woken cohort was cancelled rather than successfully
	// admitted, the controller must still either hand the cube to the next
	// group or release it — never deadlock the whole controller.
	c := New(4)
	require.NoError(t, c.EnterRotate(context.Background(), 0, 0))

	const cohort = 8
	ctxs := make([]context.Context, cohort)
	cancels := make([]context.CancelFunc, cohort)
	results := make([]chan error, cohort)
	for i := 0; i < cohort; i++ {
		ctxs[i], cancels[i] = context.WithCancel(context.Background())
		results[i] = make(chan error, 1)
	}
	for i := 0; i < cohort; i++ {
		i := i
		go func() {
			results[i] <- c.EnterRotate(ctxs[i], 1, i%4)
		}()
	}
	time.Sleep(20 * time.Millisecond)

	// release the holder, which wakes the whole direction-1 cohort at once
	c.ExitRotate(0, 0)

	// race cancellation of every cohort member against their own admission
	for i := 0; i < cohort; i++ {
		cancels[i]()
	}

	for i := 0; i < cohort; i++ {
		select {
		case err := <-results[i]:
			if err == nil {
				c.ExitRotate(1, i%4)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("waiter %d never resolved", i)
		}
	}

	// the controller must still be usable afterward regardless of how many
	// cohort members were admitted versus cancelled
	done := make(chan error, 1)
	go func() { done <- c.EnterSnapshot(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
		c.ExitSnapshot()
	case <-time.After(2 * time.Second):
		t.Fatal("controller deadlocked after a wake pulse with cancellations")
	}
}

func TestManyGoroutinesAcrossAllPlanesMakeProgress(t *testing.T) {
	const planes = 6
	const workers = 40
	const rounds = 25
	c := New(planes)

	var g errgroup.Group
	var completed atomic.Int64
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for r := 0; r < rounds; r++ {
				direction := (w + r) % 3
				plane := (w * 7 + r) % planes
				if err := c.EnterRotate(context.Background(), direction, plane); err != nil {
					return err
				}
				completed.Add(1)
				c.ExitRotate(direction, plane)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(workers*rounds), completed.Load())
}

func TestNoGroupIsStarvedUnderSteadyCompetitionFromAnother(t *testing.T) {
	c := New(2)
	const iterations = 50

	var wg sync.WaitGroup
	var group0Done, group1Done atomic.Int64

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if err := c.EnterRotate(context.Background(), 0, 0); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
			c.ExitRotate(0, 0)
			group0Done.Add(1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if err := c.EnterRotate(context.Background(), 1, 0); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
			c.ExitRotate(1, 0)
			group1Done.Add(1)
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(iterations), group0Done.Load())
	assert.Equal(t, int64(iterations), group1Done.Load())
}
