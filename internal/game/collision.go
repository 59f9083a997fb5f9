package game

import "math"

// hitTest returns the index of the first bullet overlapping the player,
// or -1. Later bullets are not tested.
func hitTest(p *Player, bullets []Bullet) int {
	for i, b := range bullets {
		if math.Hypot(p.X-b.X, p.Y-b.Y) < p.Radius+b.Radius {
			return i
		}
	}
	return -1
}

// resolveCollision applies at most one hit per tick while the player is
// not invincible. Damage is the enemy's raw attack.
func (b *Battle) resolveCollision(fx *effects) {
	s := &b.session
	if s.Player.Invincible {
		return
	}
	i := hitTest(&s.Player, s.Bullets.bullets)
	if i < 0 {
		return
	}
	s.Bullets.bullets[i].struck = true
	s.Player.takeHit(s.Enemy.Def.Attack)
	fx.cues = append(fx.cues, HitCue)

	if !s.Player.Alive() {
		b.lose(fx)
	}
}
