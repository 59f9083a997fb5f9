package game

import (
	"fmt"
	"math"
	"math/rand"
)

// PatternTag selects the attack pattern an enemy fires.
type PatternTag int

const (
	PatternCross PatternTag = iota
	PatternSpiral
	PatternRain
	PatternWave
)

func (t PatternTag) String() string {
	switch t {
	case PatternCross:
		return "cross"
	case PatternSpiral:
		return "spiral"
	case PatternRain:
		return "rain"
	case PatternWave:
		return "wave"
	default:
		return fmt.Sprintf("PatternTag(%d)", int(t))
	}
}

// SpawnContext is everything a pattern needs to produce one spawn event.
type SpawnContext struct {
	Width, Height float64
	Tick          int // elapsed battle ticks
	Color         string
	Rand          *rand.Rand
}

// PatternFunc produces the bullets of one spawn event.
type PatternFunc func(SpawnContext) []Bullet

// Pattern tuning.
const (
	crossSpeed  = 2.0
	crossRadius = 4.0

	spiralSpeed   = 2.5
	spiralStepDeg = 5.0 // degrees of rotation per elapsed tick
	spiralRadius  = 3.0

	rainMinSpeed    = 3.0
	rainSpeedSpread = 2.0
	rainRadius      = 4.0

	waveFallSpeed = 2.0
	waveSwing     = 2.0
	waveFrequency = 0.1
	waveRadius    = 3.5
)

var patterns = map[PatternTag]PatternFunc{
	PatternCross:  spawnCross,
	PatternSpiral: spawnSpiral,
	PatternRain:   spawnRain,
	PatternWave:   spawnWave,
}

// Spawn runs the handler registered for tag. Unknown tags spawn nothing.
func Spawn(tag PatternTag, ctx SpawnContext) []Bullet {
	fn, ok := patterns[tag]
	if !ok {
		return nil
	}
	return fn(ctx)
}

// spawnCross fires four bullets from the center, one per cardinal direction.
func spawnCross(ctx SpawnContext) []Bullet {
	cx, cy := ctx.Width/2, ctx.Height/2
	dirs := [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bullets := make([]Bullet, 0, len(dirs))
	for _, d := range dirs {
		bullets = append(bullets, Bullet{
			X: cx, Y: cy,
			VX: d[0] * crossSpeed, VY: d[1] * crossSpeed,
			Radius: crossRadius, Color: ctx.Color,
		})
	}
	return bullets
}

// spawnSpiral fires one bullet from the center at an angle that keeps
// advancing with elapsed time.
func spawnSpiral(ctx SpawnContext) []Bullet {
	angle := float64(ctx.Tick) * spiralStepDeg * math.Pi / 180
	return []Bullet{{
		X: ctx.Width / 2, Y: ctx.Height / 2,
		VX: math.Cos(angle) * spiralSpeed, VY: math.Sin(angle) * spiralSpeed,
		Radius: spiralRadius, Color: ctx.Color,
	}}
}

// spawnRain drops one bullet from a random point on the top edge.
func spawnRain(ctx SpawnContext) []Bullet {
	x := ctx.Rand.Float64() * ctx.Width
	speed := rainMinSpeed + ctx.Rand.Float64()*rainSpeedSpread
	return []Bullet{{
		X: x, Y: 0,
		VX: 0, VY: speed,
		Radius: rainRadius, Color: ctx.Color,
	}}
}

// spawnWave drops one bullet from the top edge with a sideways drift that
// oscillates over the battle.
func spawnWave(ctx SpawnContext) []Bullet {
	x := ctx.Rand.Float64() * ctx.Width
	return []Bullet{{
		X: x, Y: 0,
		VX: math.Sin(float64(ctx.Tick)*waveFrequency) * waveSwing, VY: waveFallSpeed,
		Radius: waveRadius, Color: ctx.Color,
	}}
}
