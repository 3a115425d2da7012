package finder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := newDirQueue()
	q.Add("a")
	q.Add("b")
	q.Add("c")

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Take()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, q.Pending(), "taken tasks are still pending until completed")
}

func TestQueueTakeBlocksUntilAdd(t *testing.T) {
	q := newDirQueue()
	q.Add("seed") // keep pending nonzero so Take waits instead of draining
	got, ok := q.Take()
	require.True(t, ok)
	require.Equal(t, "seed", got)

	done := make(chan string, 1)
	go func() {
		dir, ok := q.Take()
		assert.True(t, ok)
		done <- dir
	}()

	select {
	case dir := <-done:
		t.Fatalf("Take returned %q before anything was added", dir)
	case <-time.After(50 * time.Millisecond):
	}

	q.Add("late")
	select {
	case dir := <-done:
		assert.Equal(t, "late", dir)
	case <-time.After(2 * time.Second):
		t.Fatal("Take did not wake after Add")
	}
}

func TestQueueDrainWakesAllWaiters(t *testing.T) {
	q := newDirQueue()
	q.Add("root")

	dir, ok := q.Take()
	require.True(t, ok)
	require.Equal(t, "root", dir)

	// Several idle workers blocked in Take; the zero-crossing must
	// wake every one of them, not just one.
	const waiters = 4
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Take()
			assert.False(t, ok)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	q.CompleteOne()

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("not all waiters woke on drain")
	}
	assert.Equal(t, 0, q.Pending())
}

func TestQueueStopUnblocksWithoutDraining(t *testing.T) {
	q := newDirQueue()
	q.Add("a")
	q.Add("b")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Queue is nonempty, but a stopped queue must still return
		// ok=false instead of handing out the remaining work.
		q.Stop()
		_, ok := q.Take()
		assert.False(t, ok)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Take blocked on a stopped queue")
	}
}

func TestQueueAccountingPairsAddsAndCompletes(t *testing.T) {
	q := newDirQueue()
	q.Add("seed")
	require.Equal(t, 1, q.Pending())

	// Simulate a walk where the seed produces two leaf children.
	// Every Add must be paired with exactly one CompleteOne.
	adds, completes := 1, 0
	taken := []string{}
	for {
		dir, ok := q.Take()
		if !ok {
			break
		}
		if dir == "seed" {
			q.Add("xx")
			q.Add("yy")
			adds += 2
		}
		taken = append(taken, dir)
		q.CompleteOne()
		completes++
	}

	assert.Equal(t, adds, completes)
	assert.Equal(t, 0, q.Pending())
	assert.Len(t, taken, adds)
}
