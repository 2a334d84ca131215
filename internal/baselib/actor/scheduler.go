package actor

import (
	"container/heap"
	"sync"
	"time"
)

// schedulerItem is one entry in the Scheduler's timer heap.
type schedulerItem struct {
	due   time.Time
	task  func()
	index int
}

// schedulerHeap implements container/heap.Interface ordered by due time.
type schedulerHeap []*schedulerItem

func (h schedulerHeap) Len() int            { return len(h) }
func (h schedulerHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h schedulerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *schedulerHeap) Push(x interface{}) {
	item := x.(*schedulerItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *schedulerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Scheduler is the single thread owning a time-ordered heap of due tasks,
// used for `ask` timeouts and path `find` timeouts per spec.md §4.8. Tasks
// run on the scheduler's own goroutine, so they must be short — the
// intended use is stopping a temp actor, not general background work.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond
	h    schedulerHeap

	softStopped  bool
	forceStopped bool

	done chan struct{}
}

// NewScheduler creates and starts a Scheduler.
func NewScheduler() *Scheduler {
	s := &Scheduler{done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Schedule enqueues task to run after d elapses, returning a cancel
// function. Calling cancel after the task has already fired is a no-op.
func (s *Scheduler) Schedule(d time.Duration, task func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &schedulerItem{due: time.Now().Add(d), task: task}
	heap.Push(&s.h, item)
	s.cond.Broadcast()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if item.index >= 0 && item.index < len(s.h) && s.h[item.index] == item {
			heap.Remove(&s.h, item.index)
		}
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.forceStopped {
			return
		}

		if len(s.h) == 0 {
			if s.softStopped {
				return
			}
			s.cond.Wait()
			continue
		}

		next := s.h[0]
		now := time.Now()
		if !next.due.After(now) {
			item := heap.Pop(&s.h).(*schedulerItem)
			s.mu.Unlock()
			item.task()
			s.mu.Lock()
			continue
		}

		wait := next.due.Sub(now)
		timer := time.AfterFunc(wait, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		s.cond.Wait()
		timer.Stop()
	}
}

// SoftStop requests the scheduler exit once its heap empties naturally
// (i.e. after every currently pending timer has fired or been cancelled).
func (s *Scheduler) SoftStop() {
	s.mu.Lock()
	s.softStopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// ForceStop requests the scheduler exit immediately, discarding any pending
// timers without running their tasks.
func (s *Scheduler) ForceStop() {
	s.mu.Lock()
	s.forceStopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Wait blocks until the scheduler's goroutine has exited following SoftStop
// or ForceStop.
func (s *Scheduler) Wait() {
	<-s.done
}
