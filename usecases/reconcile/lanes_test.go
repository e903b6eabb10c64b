package reconcile

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLaneSetSerializesPerKey(t *testing.T) {
	lanes := newLaneSet()

	var mu sync.Mutex
	var order []int

	for i := 0; i < 50; i++ {
		i := i
		lanes.Submit("same-key", func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	lanes.Drain()

	assert.Len(t, order, 50)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestLaneSetRunsDifferentKeysConcurrently(t *testing.T) {
	lanes := newLaneSet()

	// Two tasks that each block until the other has started can only both
	// finish if they run on separate lanes.
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})

	lanes.Submit("key-a", func() {
		close(aStarted)
		select {
		case <-bStarted:
		case <-time.After(5 * time.Second):
			t.Error("task on key-b never started")
		}
	})
	lanes.Submit("key-b", func() {
		close(bStarted)
		select {
		case <-aStarted:
		case <-time.After(5 * time.Second):
			t.Error("task on key-a never started")
		}
	})

	lanes.Drain()
}

func TestLaneSetGarbageCollectsIdleLanes(t *testing.T) {
	lanes := newLaneSet()

	for i := 0; i < 10; i++ {
		lanes.Submit("key", func() {})
	}
	lanes.Drain()

	assert.Equal(t, 0, lanes.Len())
}

func TestLaneSetDrainWithNoTasks(t *testing.T) {
	lanes := newLaneSet()
	lanes.Drain()
	assert.Equal(t, 0, lanes.Len())
}
