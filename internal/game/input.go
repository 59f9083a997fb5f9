package game

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Input tracks which directions are currently held. Each direction is an
// independent atomic flag, so key callbacks may write while the tick
// loop reads.
type Input struct {
	held [numDirections]atomic.Bool
}

// Press marks a direction as held.
func (in *Input) Press(d Direction) {
	if d >= 0 && d < numDirections {
		in.held[d].Store(true)
	}
}

// Release marks a direction as no longer held.
func (in *Input) Release(d Direction) {
	if d >= 0 && d < numDirections {
		in.held[d].Store(false)
	}
}

// Held reports whether a direction is currently held.
func (in *Input) Held(d Direction) bool {
	if d < 0 || d >= numDirections {
		return false
	}
	return in.held[d].Load()
}

// Clear releases every direction.
func (in *Input) Clear() {
	for d := range in.held {
		in.held[d].Store(false)
	}
}

// KeyDown handles a key-down event by key name ("ArrowUp", "w", ...).
// It reports whether the key is a movement key.
func (in *Input) KeyDown(key string) bool {
	d, ok := KeyDirection(key)
	if ok {
		in.Press(d)
	}
	return ok
}

// KeyUp handles a key-up event by key name.
func (in *Input) KeyUp(key string) bool {
	d, ok := KeyDirection(key)
	if ok {
		in.Release(d)
	}
	return ok
}

// MovementKeys lists the key names KeyDirection accepts, arrows first.
func MovementKeys() []string {
	return []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight", "w", "s", "a", "d"}
}

// KeyDirection maps a key name to its direction, case-insensitively.
func KeyDirection(key string) (Direction, bool) {
	switch strings.ToLower(key) {
	case "arrowup", "w":
		return DirUp, true
	case "arrowdown", "s":
		return DirDown, true
	case "arrowleft", "a":
		return DirLeft, true
	case "arrowright", "d":
		return DirRight, true
	}
	return 0, false
}

// HoldLatch turns press-only key streams (terminals deliver autorepeat
// presses but never releases) into held state. A press holds the
// direction until HoldWindow passes without another press.
type HoldLatch struct {
	input  *Input
	window time.Duration

	mu       sync.Mutex
	deadline [numDirections]time.Time
}

// NewHoldLatch creates a latch feeding the given input.
func NewHoldLatch(in *Input, window time.Duration) *HoldLatch {
	return &HoldLatch{input: in, window: window}
}

// Press holds d and (re)arms its release deadline.
func (l *HoldLatch) Press(d Direction, now time.Time) {
	if d < 0 || d >= numDirections {
		return
	}
	l.mu.Lock()
	l.deadline[d] = now.Add(l.window)
	l.mu.Unlock()
	l.input.Press(d)
}

// Sweep releases every direction whose deadline has passed.
func (l *HoldLatch) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for d := range l.deadline {
		if l.deadline[d].IsZero() || now.Before(l.deadline[d]) {
			continue
		}
		l.deadline[d] = time.Time{}
		l.input.Release(Direction(d))
	}
}

// ReleaseAll drops every held direction immediately.
func (l *HoldLatch) ReleaseAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for d := range l.deadline {
		l.deadline[d] = time.Time{}
	}
	l.input.Clear()
}
