package game

import (
	"sync"
	"testing"
	"time"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key  string
		want Direction
		ok   bool
	}{
		{"ArrowUp", DirUp, true},
		{"w", DirUp, true},
		{"W", DirUp, true},
		{"ArrowDown", DirDown, true},
		{"s", DirDown, true},
		{"ArrowLeft", DirLeft, true},
		{"A", DirLeft, true},
		{"ArrowRight", DirRight, true},
		{"d", DirRight, true},
		{"Enter", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := KeyDirection(tt.key)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("KeyDirection(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeyDownUp(t *testing.T) {
	var in Input
	if !in.KeyDown("ArrowLeft") {
		t.Fatal("ArrowLeft not reported as a movement key")
	}
	if !in.Held(DirLeft) {
		t.Fatal("left not held after key-down")
	}
	if in.KeyDown("Space") {
		t.Error("Space reported as a movement key")
	}
	in.KeyDown("d")
	if !in.Held(DirLeft) || !in.Held(DirRight) {
		t.Error("opposite directions should both be held")
	}
	in.KeyUp("a")
	if in.Held(DirLeft) {
		t.Error("left still held after key-up")
	}
	in.Clear()
	if in.Held(DirRight) {
		t.Error("right still held after Clear")
	}
}

func TestMovementKeysMapToDirections(t *testing.T) {
	held := map[Direction]int{}
	for _, k := range MovementKeys() {
		d, ok := KeyDirection(k)
		if !ok {
			t.Errorf("movement key %q has no direction", k)
		}
		held[d]++
	}
	for d := DirUp; d < numDirections; d++ {
		if held[d] != 2 {
			t.Errorf("%v has %d keys, want 2", d, held[d])
		}
	}
}

func TestOppositeKeysCancel(t *testing.T) {
	var in Input
	in.Press(DirLeft)
	in.Press(DirRight)
	p := newPlayer(600, 400)
	p.Move(&in, 600, 400)
	if p.X != 300 {
		t.Errorf("X = %v, want 300 with left and right held", p.X)
	}
}

func TestHoldLatch(t *testing.T) {
	var in Input
	latch := NewHoldLatch(&in, 150*time.Millisecond)
	t0 := time.Unix(0, 0)

	latch.Press(DirUp, t0)
	latch.Sweep(t0.Add(100 * time.Millisecond))
	if !in.Held(DirUp) {
		t.Fatal("released inside the window")
	}

	// An autorepeat press re-arms the window.
	latch.Press(DirUp, t0.Add(120*time.Millisecond))
	latch.Sweep(t0.Add(200 * time.Millisecond))
	if !in.Held(DirUp) {
		t.Fatal("repeat press did not extend the hold")
	}

	latch.Sweep(t0.Add(270 * time.Millisecond))
	if in.Held(DirUp) {
		t.Fatal("still held after the window passed")
	}
}

func TestHoldLatchReleaseAll(t *testing.T) {
	var in Input
	latch := NewHoldLatch(&in, time.Second)
	now := time.Unix(0, 0)
	latch.Press(DirLeft, now)
	latch.Press(DirDown, now)
	latch.ReleaseAll()
	if in.Held(DirLeft) || in.Held(DirDown) {
		t.Error("directions held after ReleaseAll")
	}
	latch.Sweep(now.Add(2 * time.Second))
	if in.Held(DirLeft) || in.Held(DirDown) {
		t.Error("sweep resurrected a released direction")
	}
}

// Run with -race: key callbacks write the held flags while ticks read them.
func TestInputWrittenDuringTicks(t *testing.T) {
	b, sched, _, frames := newTestBattle(t, DefaultConfig())
	if err := b.StartBattle(1); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		in := b.Input()
		keys := []string{"ArrowUp", "a", "ArrowDown", "D"}
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			k := keys[i%len(keys)]
			in.KeyDown(k)
			in.Press(Direction(i % int(numDirections)))
			in.KeyUp(k)
			in.Release(Direction((i + 1) % int(numDirections)))
		}
	}()

	sched.StepN(600)
	close(done)
	wg.Wait()

	if len(frames.frames) == 0 {
		t.Fatal("no ticks ran")
	}
	for _, f := range frames.frames {
		if f.PlayerX < Boundary || f.PlayerX > f.Width-Boundary ||
			f.PlayerY < Boundary || f.PlayerY > f.Height-Boundary {
			t.Fatalf("tick %d: player at (%v, %v) outside the inset", f.Tick, f.PlayerX, f.PlayerY)
		}
	}
}
