package finder

import "sync"

// dirQueue is the shared queue of directories awaiting expansion.
//
// Alongside the FIFO it tracks a pending counter: the number of
// directories that are either still queued or currently being expanded
// by a worker. The counter, not queue emptiness, is the termination
// signal — an empty queue can still grow while a sibling worker is
// mid-expansion. Invariant: pending == len(dirs) + in-flight tasks,
// and it never goes negative.
//
// All three pieces of state (FIFO, counter, stop flag) are mutated
// under one mutex so an increment can never be observed after its
// corresponding append.
type dirQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	dirs    []string
	pending int
	stopped bool
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add registers one new outstanding directory and queues it, waking a
// single waiting worker. The increment and the append happen under the
// same lock acquisition.
func (q *dirQueue) Add(dir string) {
	q.mu.Lock()
	q.pending++
	q.dirs = append(q.dirs, dir)
	q.mu.Unlock()
	q.cond.Signal()
}

// Take blocks until a directory is available and returns it, or
// returns ok=false once the walk has drained (pending hit zero) or the
// queue was stopped. Spurious wakeups re-enter the wait.
func (q *dirQueue) Take() (dir string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.dirs) == 0 && q.pending > 0 && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped || len(q.dirs) == 0 {
		return "", false
	}
	dir = q.dirs[0]
	q.dirs = q.dirs[1:]
	return dir, true
}

// CompleteOne retires one previously taken directory. A zero-crossing
// wakes every waiter, not just one: all idle workers must observe the
// drain independently to exit.
func (q *dirQueue) CompleteOne() {
	q.mu.Lock()
	q.pending--
	drained := q.pending == 0
	q.mu.Unlock()

	if drained {
		q.cond.Broadcast()
	}
}

// Stop makes all blocked and future Take calls return ok=false without
// draining the remaining queue.
func (q *dirQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Pending returns the current outstanding-task count.
func (q *dirQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
