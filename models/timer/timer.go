package timer

import (
	"sync"
	"time"

	"github.com/saeidalz13/battleship-solo/internal/scheduler"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const TickInterval time.Duration = time.Second

// Timer counts elapsed seconds of a game. It knows nothing about the
// game itself; the owner pauses and resets it.
type Timer struct {
	sched   scheduler.Scheduler
	elapsed int
	running bool
	onTick  func(int)
	cancel  scheduler.Cancel

	// bumped on every stop so a tick racing a pause is dropped
	generation uint64
	mu         sync.Mutex
}

func New(sched scheduler.Scheduler) *Timer {
	return &Timer{sched: sched}
}

// No-op when already running. onTick receives the new total and is
// called without the timer's lock held.
func (t *Timer) Start(onTick func(int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.onTick = onTick
	t.startLocked()
}

func (t *Timer) startLocked() {
	t.running = true
	generation := t.generation
	t.cancel = t.sched.Every(TickInterval, func() { t.tick(generation) })
}

func (t *Timer) tick(generation uint64) {
	t.mu.Lock()
	if !t.running || generation != t.generation {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	elapsed, onTick := t.elapsed, t.onTick
	t.mu.Unlock()

	if onTick != nil {
		onTick(elapsed)
	}
}

func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pauseLocked()
}

func (t *Timer) pauseLocked() {
	if !t.running {
		return
	}
	t.generation++
	t.running = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Continues from the current value with the last callback
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.startLocked()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pauseLocked()
	t.elapsed = 0
}

// Back to zero. A running timer keeps running from zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	wasRunning := t.running
	t.pauseLocked()
	t.elapsed = 0
	if wasRunning {
		t.startLocked()
	}
}

func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Formatted() string {
	return mb.FormatElapsed(t.Elapsed())
}
