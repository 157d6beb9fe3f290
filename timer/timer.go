// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task is one scheduled callback. A positive Interval reschedules the task
// after each run.
type Task struct {
	Id       int64
	Execute  time.Time
	Interval time.Duration
	Callback func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Manager drives scheduled tasks off a heap, checked ten times a second.
type Manager struct {
	queue    taskQueue
	mutex    sync.Mutex
	nextId   int64
	trigger  chan *Task
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewManager() *Manager {
	m := &Manager{
		queue:    make(taskQueue, 0),
		trigger:  make(chan *Task, 1000),
		stopChan: make(chan struct{}),
		nextId:   1,
	}
	heap.Init(&m.queue)
	go m.process()
	return m
}

// Add schedules callback after delay; a positive interval makes it repeat.
func (m *Manager) Add(delay time.Duration, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task := &Task{
		Id:       m.nextId,
		Execute:  time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextId++

	heap.Push(&m.queue, task)
	return task.Id
}

// Remove cancels a scheduled task by id.
func (m *Manager) Remove(taskId int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.queue {
		if task.Id == taskId {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop shuts the manager down; pending tasks are dropped.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *Manager) process() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return

		case <-ticker.C:
			m.mutex.Lock()
			now := time.Now()

			for m.queue.Len() > 0 {
				task := m.queue[0]
				if task.Execute.After(now) {
					break
				}

				heap.Pop(&m.queue)
				m.trigger <- task

				if task.Interval > 0 {
					task.Execute = now.Add(task.Interval)
					heap.Push(&m.queue, task)
				}
			}
			m.mutex.Unlock()

		case task := <-m.trigger:
			go task.Callback()
		}
	}
}
