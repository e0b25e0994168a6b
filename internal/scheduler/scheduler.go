package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Cancel stops a scheduled task. Calling it more than once is fine.
type Cancel func()

type Scheduler interface {
	// Runs f once after d
	AfterFunc(d time.Duration, f func()) Cancel
	// Runs f every d until cancelled
	Every(d time.Duration, f func()) Cancel
}

type RealScheduler struct{}

var _ Scheduler = RealScheduler{}

func NewRealScheduler() RealScheduler {
	return RealScheduler{}
}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	timer := time.AfterFunc(d, f)
	return func() { timer.Stop() }
}

func (RealScheduler) Every(d time.Duration, f func()) Cancel {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

type manualTask struct {
	id       uint64
	due      time.Duration
	interval time.Duration
	f        func()
}

// ManualScheduler is a virtual clock. Nothing runs until Advance is
// called, and tasks run on the goroutine calling Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextId uint64
	tasks  map[uint64]*manualTask
}

var _ Scheduler = (*ManualScheduler)(nil)

func NewManual() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[uint64]*manualTask)}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	return m.add(d, 0, f)
}

func (m *ManualScheduler) Every(d time.Duration, f func()) Cancel {
	if d <= 0 {
		panic("scheduler: non-positive interval")
	}
	return m.add(d, d, f)
}

func (m *ManualScheduler) add(d, interval time.Duration, f func()) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextId++
	id := m.nextId
	m.tasks[id] = &manualTask{id: id, due: m.now + d, interval: interval, f: f}

	return func() {
		m.mu.Lock()
		delete(m.tasks, id)
		m.mu.Unlock()
	}
}

// Moves the clock forward by d, running every task that falls due in
// chronological order. Tasks scheduled by a running task are honoured
// if they fall inside the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		task := m.nextDue(target)
		if task == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = task.due
		if task.interval > 0 {
			task.due += task.interval
		} else {
			delete(m.tasks, task.id)
		}
		f := task.f
		m.mu.Unlock()

		f()
	}
}

func (m *ManualScheduler) nextDue(target time.Duration) *manualTask {
	due := make([]*manualTask, 0, len(m.tasks))
	for _, task := range m.tasks {
		if task.due <= target {
			due = append(due, task)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	return due[0]
}

// Number of tasks still waiting to run
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
