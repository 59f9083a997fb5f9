package game

import (
	"math/rand"
	"testing"
)

func TestPlayerMoveClampsToBoundary(t *testing.T) {
	tests := []struct {
		name  string
		held  []Direction
		wantX float64
		wantY float64
	}{
		{"up-left", []Direction{DirUp, DirLeft}, 50, 50},
		{"down-right", []Direction{DirDown, DirRight}, 550, 350},
		{"left only", []Direction{DirLeft}, 50, 200},
		{"down only", []Direction{DirDown}, 300, 350},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			for _, d := range tt.held {
				in.Press(d)
			}
			p := newPlayer(600, 400)
			for i := 0; i < 200; i++ {
				p.Move(&in, 600, 400)
			}
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("player at (%v,%v), want (%v,%v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPlayerDiagonalNotNormalized(t *testing.T) {
	var in Input
	in.Press(DirDown)
	in.Press(DirRight)
	p := newPlayer(600, 400)
	p.Move(&in, 600, 400)
	if p.X != 303 || p.Y != 203 {
		t.Errorf("player at (%v,%v), want (303,203)", p.X, p.Y)
	}
}

func TestPlayerStaysInsideInset(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var in Input
	p := newPlayer(600, 400)
	for i := 0; i < 5000; i++ {
		d := Direction(rng.Intn(int(numDirections)))
		if rng.Intn(2) == 0 {
			in.Press(d)
		} else {
			in.Release(d)
		}
		p.Move(&in, 600, 400)
		if p.X < Boundary || p.X > 600-Boundary || p.Y < Boundary || p.Y > 400-Boundary {
			t.Fatalf("step %d: player escaped to (%v,%v)", i, p.X, p.Y)
		}
	}
}

func TestTakeHitClampsHP(t *testing.T) {
	p := newPlayer(600, 400)
	p.HP = 3
	p.takeHit(7)
	if p.HP != 0 {
		t.Errorf("HP = %d, want 0", p.HP)
	}
	if p.Alive() {
		t.Error("player alive at 0 HP")
	}
	if !p.Invincible || p.InvincibleTimer != InvincibleDuration {
		t.Errorf("invincibility not opened: %+v", p)
	}
}

func TestInvincibilityCountdown(t *testing.T) {
	p := newPlayer(600, 400)
	p.takeHit(1)
	for i := 1; i < InvincibleDuration; i++ {
		p.tickInvincibility()
		if !p.Invincible {
			t.Fatalf("invincibility ended after %d ticks", i)
		}
	}
	p.tickInvincibility()
	if p.Invincible || p.InvincibleTimer != 0 {
		t.Errorf("invincibility still open after %d ticks: %+v", InvincibleDuration, p)
	}
}
