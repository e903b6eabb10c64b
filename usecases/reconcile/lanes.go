package reconcile

import (
	"sync"

	"github.com/gammazero/workerpool"
)

// lane is a single-worker pool: tasks submitted to it run one at a time in
// submission order.
type lane struct {
	pool    *workerpool.WorkerPool
	pending int
}

// laneSet serializes tasks per key while letting different keys run
// concurrently. Idle lanes are garbage-collected as soon as their last task
// finishes.
type laneSet struct {
	mu    sync.Mutex
	lanes map[string]*lane
	wg    sync.WaitGroup
}

func newLaneSet() *laneSet {
	return &laneSet{lanes: make(map[string]*lane)}
}

// Submit enqueues task on the lane for key. Tasks with the same key run in
// submission order; tasks with different keys are independent.
func (s *laneSet) Submit(key string, task func()) {
	s.mu.Lock()
	ln, ok := s.lanes[key]
	if !ok {
		ln = &lane{pool: workerpool.New(1)}
		s.lanes[key] = ln
	}
	ln.pending++
	s.wg.Add(1)
	s.mu.Unlock()

	ln.pool.Submit(func() {
		defer s.wg.Done()
		task()

		s.mu.Lock()
		ln.pending--
		if ln.pending == 0 {
			delete(s.lanes, key)
			// Stop releases the lane's worker goroutine; it must not run
			// under the lock because it waits for this task to return.
			go ln.pool.Stop()
		}
		s.mu.Unlock()
	})
}

// Drain blocks until every submitted task has finished
func (s *laneSet) Drain() {
	s.wg.Wait()
}

// Len returns the number of live lanes
func (s *laneSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lanes)
}
