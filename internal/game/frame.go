package game

// Frame is a read-only snapshot of a session for rendering.
type Frame struct {
	Width, Height float64
	Phase         Phase
	Tick          int

	EnemyName  string
	EnemyColor string
	TimeLeft   int  // whole seconds remaining
	LowTime    bool // under 10 seconds

	Bullets []Bullet

	PlayerX, PlayerY float64
	PlayerRadius     float64
	HP, MaxHP        int
	Invincible       bool
	Blink            bool // draw the heart translucent this frame

	Score  Score
	Result *Result // set once the battle has ended
}

func (b *Battle) frame() Frame {
	s := &b.session
	p := &s.Player
	left := TicksToSecs(BattleDuration) - TicksToSecs(s.Tick)
	if left < 0 {
		left = 0
	}
	f := Frame{
		Width:        b.cfg.Width,
		Height:       b.cfg.Height,
		Phase:        s.Phase,
		Tick:         s.Tick,
		TimeLeft:     left,
		LowTime:      left < 10,
		Bullets:      s.Bullets.Bullets(),
		PlayerX:      p.X,
		PlayerY:      p.Y,
		PlayerRadius: p.Radius,
		HP:           p.HP,
		MaxHP:        p.MaxHP,
		Invincible:   p.Invincible,
		Blink:        p.Invincible && (s.Tick/BlinkInterval)%2 == 0,
		Score:        b.score,
	}
	if s.Enemy != nil {
		f.EnemyName = s.Enemy.Def.Name
		f.EnemyColor = s.Enemy.Def.Color
	}
	if b.result != nil {
		r := *b.result
		f.Result = &r
	}
	return f
}
