// Package bell plays battle cues as the terminal bell. It has no sound
// device dependency, so remote hosts can use it.
package bell

import (
	"io"
	"sync"

	"soul-battle/internal/game"
)

// Bell rings the terminal bell for cues on a remote terminal, which has
// no way to play a tone. Delayed cues continue a sequence that already
// rang, so only cues without a delay ring.
type Bell struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// New creates a bell writing to w.
func New(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play writes BEL for an undelayed cue.
func (b *Bell) Play(c game.Cue) {
	if c.Delay > 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		b.err = err
	}
}
