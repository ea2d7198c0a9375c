package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmissionQueue_EnqueueDequeue(t *testing.T) {
	q := newEmissionQueue()

	ok := q.Enqueue(Emission{Kind: EmitBallApplied, MatchID: "m1"})
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, EmitBallApplied, got.Kind)
	assert.Equal(t, "m1", got.MatchID)
}

func TestEmissionQueue_FIFO(t *testing.T) {
	q := newEmissionQueue()
	for i := int64(1); i <= 3; i++ {
		q.Enqueue(Emission{Seq: i})
	}

	for want := int64(1); want <= 3; want++ {
		e, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, e.Seq)
	}
}

func TestEmissionQueue_TryDequeue_Empty(t *testing.T) {
	q := newEmissionQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestEmissionQueue_Close(t *testing.T) {
	q := newEmissionQueue()
	q.Close()

	assert.False(t, q.Enqueue(Emission{}), "enqueue after close should fail")

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("Wait channel should be closed")
	}

	// Double close is a no-op.
	q.Close()
}

func TestEmissionQueue_Len(t *testing.T) {
	q := newEmissionQueue()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(Emission{})
	q.Enqueue(Emission{})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestEmissionQueue_ThreadSafe(t *testing.T) {
	q := newEmissionQueue()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Enqueue(Emission{Seq: int64(base*100 + j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())

	count := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, 1000, count)
}
