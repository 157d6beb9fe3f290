package broadcast

import (
	"sync"
	"testing"
)

func TestQueue_DeliversInOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		n := i
		q.Post(func() {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
	}
	q.Flush()

	if len(got) != 100 {
		t.Fatalf("Expected 100 deliveries, got %d", len(got))
	}
	for i, n := range got {
		if n != i {
			t.Fatalf("Deliveries must run in FIFO order: position %d holds %d", i, n)
		}
	}
}

func TestQueue_FlushWaitsForPending(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	done := false
	q.Post(func() { done = true })
	q.Flush()

	if !done {
		t.Fatal("Flush should not return before pending deliveries ran")
	}
}

func TestQueue_PostAfterCloseDropped(t *testing.T) {
	q := NewQueue()
	q.Close()

	q.Post(func() { t.Error("A post after Close must not be delivered") })
	q.Flush()
}

func TestQueue_CloseTwiceIsSafe(t *testing.T) {
	q := NewQueue()
	q.Close()
	q.Close()
}
