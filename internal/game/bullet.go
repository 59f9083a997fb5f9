package game

import (
	"errors"
	"fmt"
)

// CullPad is how far past each canvas edge a bullet may travel before it
// is removed.
const CullPad = 20

// DefaultMaxBullets bounds the live bullet set unless configured otherwise.
const DefaultMaxBullets = 256

// Bullet is a single enemy projectile.
type Bullet struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  string

	struck bool // hit the player; not counted as dodged when culled
}

// Struck reports whether this bullet has hit the player.
func (b Bullet) Struck() bool {
	return b.struck
}

func (b Bullet) inBounds(width, height float64) bool {
	return b.X > -CullPad && b.X < width+CullPad &&
		b.Y > -CullPad && b.Y < height+CullPad
}

// OverflowPolicy decides what happens to spawns once the store is full.
type OverflowPolicy int

const (
	OverflowDropNewest    OverflowPolicy = iota // discard the new spawn
	OverflowRecycleOldest                       // evict the oldest live bullet
)

var errUnknownPolicy = errors.New("unknown policy")

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowDropNewest:
		return "drop_newest"
	case OverflowRecycleOldest:
		return "recycle_oldest"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// ParseOverflowPolicy parses "drop_newest" or "recycle_oldest".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "drop_newest", "":
		return OverflowDropNewest, nil
	case "recycle_oldest":
		return OverflowRecycleOldest, nil
	}
	return 0, fmt.Errorf("overflow %q: %w", s, errUnknownPolicy)
}

// BulletStore owns the live bullet set of one session.
type BulletStore struct {
	bullets  []Bullet
	max      int // 0 means unbounded
	policy   OverflowPolicy
	dropped  int
	recycled int
}

// NewBulletStore creates a store holding at most max bullets (0 = no cap).
func NewBulletStore(max int, policy OverflowPolicy) *BulletStore {
	return &BulletStore{max: max, policy: policy}
}

// Add inserts spawned bullets, applying the overflow policy at the cap.
func (s *BulletStore) Add(spawned ...Bullet) {
	for _, b := range spawned {
		if s.max > 0 && len(s.bullets) >= s.max {
			if s.policy == OverflowDropNewest {
				s.dropped++
				continue
			}
			copy(s.bullets, s.bullets[1:])
			s.bullets = s.bullets[:len(s.bullets)-1]
			s.recycled++
		}
		s.bullets = append(s.bullets, b)
	}
}

// Advance moves every bullet by its velocity and culls those outside the
// padded bounding box. It returns how many culled bullets were dodged.
func (s *BulletStore) Advance(width, height float64) int {
	dodged := 0
	live := s.bullets[:0]
	for _, b := range s.bullets {
		b.X += b.VX
		b.Y += b.VY
		if b.inBounds(width, height) {
			live = append(live, b)
			continue
		}
		if !b.struck {
			dodged++
		}
	}
	// Zero the tail so culled bullets don't linger in the backing array.
	for i := len(live); i < len(s.bullets); i++ {
		s.bullets[i] = Bullet{}
	}
	s.bullets = live
	return dodged
}

// Len returns the number of live bullets.
func (s *BulletStore) Len() int {
	return len(s.bullets)
}

// Bullets returns a copy of the live bullets in spawn order.
func (s *BulletStore) Bullets() []Bullet {
	out := make([]Bullet, len(s.bullets))
	copy(out, s.bullets)
	return out
}

// Clear removes every live bullet.
func (s *BulletStore) Clear() {
	s.bullets = s.bullets[:0]
}

// Dropped returns how many spawns were discarded at the cap.
func (s *BulletStore) Dropped() int {
	return s.dropped
}

// Recycled returns how many live bullets were evicted to make room.
func (s *BulletStore) Recycled() int {
	return s.recycled
}
