package game

import (
	"math"
	"math/rand"
	"testing"
)

func spawnCtx(tick int) SpawnContext {
	return SpawnContext{
		Width:  600,
		Height: 400,
		Tick:   tick,
		Color:  "#ffffff",
		Rand:   rand.New(rand.NewSource(3)),
	}
}

func TestSpawnCounts(t *testing.T) {
	tests := []struct {
		tag  PatternTag
		want int
	}{
		{PatternCross, 4},
		{PatternSpiral, 1},
		{PatternRain, 1},
		{PatternWave, 1},
		{PatternTag(42), 0},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			got := Spawn(tt.tag, spawnCtx(60))
			if len(got) != tt.want {
				t.Fatalf("%d bullets, want %d", len(got), tt.want)
			}
			for _, b := range got {
				if b.Color != "#ffffff" {
					t.Errorf("bullet color %q, want the enemy color", b.Color)
				}
			}
		})
	}
}

func TestSpiralAngleAdvances(t *testing.T) {
	tests := []struct {
		tick   int
		vx, vy float64
	}{
		{0, 2.5, 0},
		{18, 0, 2.5},  // 90 degrees
		{36, -2.5, 0}, // 180 degrees
	}
	for _, tt := range tests {
		b := Spawn(PatternSpiral, spawnCtx(tt.tick))[0]
		if math.Abs(b.VX-tt.vx) > 1e-9 || math.Abs(b.VY-tt.vy) > 1e-9 {
			t.Errorf("tick %d: velocity (%v,%v), want (%v,%v)", tt.tick, b.VX, b.VY, tt.vx, tt.vy)
		}
		if b.X != 300 || b.Y != 200 || b.Radius != 3 {
			t.Errorf("tick %d: spiral bullet %+v", tt.tick, b)
		}
	}
}

func TestRainFallsFromTop(t *testing.T) {
	ctx := spawnCtx(60)
	for i := 0; i < 100; i++ {
		b := Spawn(PatternRain, ctx)[0]
		if b.Y != 0 || b.VX != 0 {
			t.Fatalf("rain bullet %+v not falling straight from the top", b)
		}
		if b.X < 0 || b.X >= 600 {
			t.Fatalf("rain x %v outside the canvas", b.X)
		}
		if b.VY < 3 || b.VY >= 5 {
			t.Fatalf("rain speed %v outside [3,5)", b.VY)
		}
		if b.Radius != 4 {
			t.Fatalf("rain radius %v", b.Radius)
		}
	}
}

func TestWaveDrift(t *testing.T) {
	for _, tick := range []int{0, 60, 120, 900} {
		b := Spawn(PatternWave, spawnCtx(tick))[0]
		want := math.Sin(float64(tick)*0.1) * 2
		if b.VX != want || b.VY != 2 || b.Y != 0 || b.Radius != 3.5 {
			t.Errorf("tick %d: wave bullet %+v, want vx %v", tick, b, want)
		}
	}
}

func TestCatalogPatterns(t *testing.T) {
	want := []PatternTag{PatternCross, PatternSpiral, PatternRain, PatternWave}
	defs := Catalog()
	if len(defs) != len(want) {
		t.Fatalf("catalog has %d enemies, want %d", len(defs), len(want))
	}
	for i, def := range defs {
		if def.Pattern != want[i] {
			t.Errorf("%s fires %v, want %v", def.Name, def.Pattern, want[i])
		}
	}
	defs[0].Name = "changed"
	if Catalog()[0].Name != "FROGGIT" {
		t.Error("Catalog exposed the templates")
	}
}
