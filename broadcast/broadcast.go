// broadcast/broadcast.go
package broadcast

import (
	"sync"
)

// Queue is an order-preserving asynchronous outbound queue for one seat.
// Deliveries run on the queue's own goroutine in FIFO order, decoupling
// network delivery from command processing. There is no cross-queue ordering
// guarantee, only per-queue FIFO.
type Queue struct {
	mu     sync.Mutex
	ch     chan func()
	wg     sync.WaitGroup
	closed bool
}

// queueDepth bounds pending deliveries per seat.
const queueDepth = 256

// NewQueue creates a queue and starts its delivery goroutine.
func NewQueue() *Queue {
	q := &Queue{ch: make(chan func(), queueDepth)}
	go q.run()
	return q
}

func (q *Queue) run() {
	for fn := range q.ch {
		fn()
		q.wg.Done()
	}
}

// Post enqueues one delivery. Posts after Close are dropped.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.wg.Add(1)
	q.ch <- fn
}

// Flush blocks until every delivery posted so far has run.
func (q *Queue) Flush() {
	q.wg.Wait()
}

// Close stops the queue after draining pending deliveries.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
