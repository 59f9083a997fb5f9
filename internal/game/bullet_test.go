package game

import (
	"errors"
	"testing"
)

func TestAdvanceCullsOutsidePad(t *testing.T) {
	s := NewBulletStore(0, OverflowDropNewest)
	s.Add(
		Bullet{X: 300, Y: 200, VX: 1},  // stays
		Bullet{X: -18, Y: 200, VX: -2}, // lands on -20, culled
		Bullet{X: 300, Y: 418, VY: 1},  // 419, stays
		Bullet{X: 300, Y: 419, VY: 1},  // 420, culled
		Bullet{X: 619, Y: 10, VX: 0.5}, // 619.5, stays
	)
	dodged := s.Advance(600, 400)
	if dodged != 2 {
		t.Errorf("dodged = %d, want 2", dodged)
	}
	if s.Len() != 3 {
		t.Fatalf("%d live bullets, want 3", s.Len())
	}
	got := s.Bullets()
	if got[0].X != 301 || got[1].Y != 419 || got[2].X != 619.5 {
		t.Errorf("survivors out of order or not moved: %+v", got)
	}
}

func TestStruckBulletNotDodged(t *testing.T) {
	s := NewBulletStore(0, OverflowDropNewest)
	s.Add(Bullet{X: -19, VX: -5}, Bullet{X: -19, VX: -5})
	s.bullets[0].struck = true
	if dodged := s.Advance(600, 400); dodged != 1 {
		t.Errorf("dodged = %d, want 1", dodged)
	}
}

func TestBulletCapPolicies(t *testing.T) {
	tests := []struct {
		policy       OverflowPolicy
		wantFirstX   float64
		wantDropped  int
		wantRecycled int
	}{
		{OverflowDropNewest, 0, 2, 0},
		{OverflowRecycleOldest, 2, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			s := NewBulletStore(3, tt.policy)
			for i := 0; i < 5; i++ {
				s.Add(Bullet{X: float64(i)})
			}
			if s.Len() != 3 {
				t.Fatalf("len = %d, want 3", s.Len())
			}
			if got := s.Bullets()[0].X; got != tt.wantFirstX {
				t.Errorf("oldest live bullet X = %v, want %v", got, tt.wantFirstX)
			}
			if s.Dropped() != tt.wantDropped || s.Recycled() != tt.wantRecycled {
				t.Errorf("dropped %d recycled %d, want %d %d", s.Dropped(), s.Recycled(), tt.wantDropped, tt.wantRecycled)
			}
		})
	}
}

func TestBulletsReturnsCopy(t *testing.T) {
	s := NewBulletStore(0, OverflowDropNewest)
	s.Add(Bullet{X: 1})
	out := s.Bullets()
	out[0].X = 99
	if s.Bullets()[0].X != 1 {
		t.Error("Bullets exposed the live slice")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Error("Clear left bullets behind")
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    OverflowPolicy
		wantErr bool
	}{
		{"", OverflowDropNewest, false},
		{"drop_newest", OverflowDropNewest, false},
		{"recycle_oldest", OverflowRecycleOldest, false},
		{"fifo", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOverflowPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOverflowPolicy(%q) err = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errUnknownPolicy) {
			t.Errorf("ParseOverflowPolicy(%q) err = %v, want errUnknownPolicy", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
