package game

import "math"

// Direction is one of the four movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	numDirections
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Player stats and the play-area inset.
const (
	PlayerSize  = 12 // heart size; collision radius is half of it
	PlayerSpeed = 3  // units per tick on each axis
	PlayerMaxHP = 20
	Boundary    = 50 // clamp margin from each canvas edge
)

// Player is the heart the user steers through the battle box.
type Player struct {
	X, Y      float64
	Radius    float64
	Speed     float64
	HP, MaxHP int

	Invincible      bool
	InvincibleTimer int // ticks remaining in the invincibility window
}

func newPlayer(width, height float64) Player {
	return Player{
		X:      width / 2,
		Y:      height / 2,
		Radius: PlayerSize / 2,
		Speed:  PlayerSpeed,
		HP:     PlayerMaxHP,
		MaxHP:  PlayerMaxHP,
	}
}

// Move applies every held direction for one tick. Diagonals are not
// normalized. The result is clamped to the inset boundary on both axes.
func (p *Player) Move(in *Input, width, height float64) {
	if in.Held(DirLeft) {
		p.X -= p.Speed
	}
	if in.Held(DirRight) {
		p.X += p.Speed
	}
	if in.Held(DirUp) {
		p.Y -= p.Speed
	}
	if in.Held(DirDown) {
		p.Y += p.Speed
	}
	p.X = clamp(p.X, Boundary, width-Boundary)
	p.Y = clamp(p.Y, Boundary, height-Boundary)
}

// tickInvincibility counts the invincibility window down by one tick.
func (p *Player) tickInvincibility() {
	if !p.Invincible {
		return
	}
	p.InvincibleTimer--
	if p.InvincibleTimer <= 0 {
		p.InvincibleTimer = 0
		p.Invincible = false
	}
}

// takeHit applies damage and opens the invincibility window.
func (p *Player) takeHit(damage int) {
	p.HP -= damage
	if p.HP < 0 {
		p.HP = 0
	}
	p.Invincible = true
	p.InvincibleTimer = InvincibleDuration
}

// Alive reports whether the player still has HP.
func (p *Player) Alive() bool {
	return p.HP > 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
