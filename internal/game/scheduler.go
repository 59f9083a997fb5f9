package game

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a callback before the next frame is presented.
type Scheduler interface {
	ScheduleNextTick(fn func())
}

// frameQueue holds callbacks waiting for the next frame.
type frameQueue struct {
	mu    sync.Mutex
	queue []func()
}

func (q *frameQueue) push(fn func()) {
	q.mu.Lock()
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
}

// runFrame runs the callbacks that were queued before it was called.
// Callbacks scheduled while running wait for the next frame.
func (q *frameQueue) runFrame() int {
	q.mu.Lock()
	pending := q.queue
	q.queue = nil
	q.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

func (q *frameQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// FrameScheduler presents frames on a fixed wall-clock cadence.
type FrameScheduler struct {
	interval time.Duration
	frames   frameQueue
}

// NewFrameScheduler creates a scheduler presenting tickRate frames per second.
func NewFrameScheduler(tickRate int) *FrameScheduler {
	if tickRate <= 0 {
		tickRate = TickRate
	}
	return &FrameScheduler{interval: time.Second / time.Duration(tickRate)}
}

// ScheduleNextTick queues fn for the next frame.
func (f *FrameScheduler) ScheduleNextTick(fn func()) {
	f.frames.push(fn)
}

// Run presents frames until ctx is done.
func (f *FrameScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.frames.runFrame()
		}
	}
}

// ManualScheduler presents a frame only when stepped. Tests and headless
// tools use it to reproduce tick counts exactly.
type ManualScheduler struct {
	frames frameQueue
}

// NewManualScheduler creates an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleNextTick queues fn for the next Step.
func (m *ManualScheduler) ScheduleNextTick(fn func()) {
	m.frames.push(fn)
}

// Step presents one frame and returns how many callbacks ran.
func (m *ManualScheduler) Step() int {
	return m.frames.runFrame()
}

// StepN presents up to n frames, stopping early once nothing is queued.
// It returns the number of frames that ran a callback.
func (m *ManualScheduler) StepN(n int) int {
	for i := 0; i < n; i++ {
		if m.Step() == 0 {
			return i
		}
	}
	return n
}

// Pending returns how many callbacks wait for the next frame.
func (m *ManualScheduler) Pending() int {
	return m.frames.pending()
}
