package audio

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQueueFIFO(t *testing.T) {
	t.Parallel()

	var q updateQueue[[]int]
	for i := 0; i < 5; i++ {
		n := i
		q.push(func(m *[]int) { *m = append(*m, n) })
	}

	var applied []int
	for _, fn := range q.drainInto(nil) {
		fn(&applied)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, applied)

	// Draining empties the queue.
	assert.Empty(t, q.drainInto(nil))
}

func TestUpdateQueueDrainAppendsToPending(t *testing.T) {
	t.Parallel()

	var q updateQueue[[]int]
	q.push(func(m *[]int) { *m = append(*m, 2) })
	q.push(func(m *[]int) { *m = append(*m, 3) })

	// Updates retained from an earlier drain stay ahead of new ones.
	pending := []UpdateFn[[]int]{func(m *[]int) { *m = append(*m, 1) }}
	pending = q.drainInto(pending)
	require.Len(t, pending, 3)

	var applied []int
	for _, fn := range pending {
		fn(&applied)
	}
	assert.Equal(t, []int{1, 2, 3}, applied)
}

func TestUpdateQueueConcurrentPush(t *testing.T) {
	t.Parallel()

	var q updateQueue[int]
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.push(func(m *int) { *m++ })
			}
		}()
	}
	wg.Wait()

	var total int
	for _, fn := range q.drainInto(nil) {
		fn(&total)
	}
	assert.Equal(t, 800, total)
}

func TestModelSlot(t *testing.T) {
	t.Parallel()

	value := 7
	slot := modelSlot[int]{m: &value}

	m, ok := slot.tryTake()
	require.True(t, ok)
	require.NotNil(t, m)
	assert.Equal(t, 7, *m)

	// The model is checked out; a second take fails.
	_, ok = slot.tryTake()
	assert.False(t, ok)

	slot.put(m)
	m, ok = slot.tryTake()
	require.True(t, ok)
	assert.Equal(t, 7, *m)
}

func TestModelSlotContendedLock(t *testing.T) {
	t.Parallel()

	value := 7
	slot := modelSlot[int]{m: &value}

	slot.mu.Lock()
	_, ok := slot.tryTake()
	assert.False(t, ok)
	slot.mu.Unlock()

	_, ok = slot.tryTake()
	assert.True(t, ok)
}
