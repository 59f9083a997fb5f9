package game

import "time"

// TickRate is the nominal simulation cadence in ticks per second.
const TickRate = 60

// Timing constants, all expressed in ticks.
const (
	BattleDuration     = 30 * TickRate // survive past this many ticks to win
	SpawnInterval      = 1 * TickRate  // ticks between attack pattern spawns
	InvincibleDuration = 1 * TickRate  // invincibility window after a hit
	BlinkInterval      = 10            // ticks per blink half-period while invincible
)

// DefaultHandoffDelay is the wall-clock pause between a terminal
// transition and the hand-off back to the host.
const DefaultHandoffDelay = 3 * time.Second

// TicksToSecs converts game ticks to whole seconds, rounding down.
func TicksToSecs(ticks int) int {
	return ticks / TickRate
}
