package server

import (
	"testing"
	"time"

	"soul-battle/internal/game"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []Key
	}{
		{"arrow up", []byte("\x1b[A"), []Key{{Kind: KeyMove, Dir: game.DirUp}}},
		{"arrow down", []byte("\x1b[B"), []Key{{Kind: KeyMove, Dir: game.DirDown}}},
		{"arrow right", []byte("\x1b[C"), []Key{{Kind: KeyMove, Dir: game.DirRight}}},
		{"arrow left", []byte("\x1b[D"), []Key{{Kind: KeyMove, Dir: game.DirLeft}}},
		{"wasd", []byte("wAsD"), []Key{
			{Kind: KeyMove, Dir: game.DirUp},
			{Kind: KeyMove, Dir: game.DirLeft},
			{Kind: KeyMove, Dir: game.DirDown},
			{Kind: KeyMove, Dir: game.DirRight},
		}},
		{"enemy digits", []byte("14"), []Key{
			{Kind: KeySelect, Enemy: 0},
			{Kind: KeySelect, Enemy: 3},
		}},
		{"out of range digit", []byte("5"), nil},
		{"random", []byte("R"), []Key{{Kind: KeyRandom}}},
		{"lone escape", []byte{0x1b}, []Key{{Kind: KeyBack}}},
		{"quit", []byte("q"), []Key{{Kind: KeyQuit}}},
		{"ctrl-c", []byte{3}, []Key{{Kind: KeyQuit}}},
		{"autorepeat burst", []byte("\x1b[A\x1b[Aw"), []Key{
			{Kind: KeyMove, Dir: game.DirUp},
			{Kind: KeyMove, Dir: game.DirUp},
			{Kind: KeyMove, Dir: game.DirUp},
		}},
		{"unicode ignored", []byte("é"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInput(tt.data)
			if len(got) != len(tt.want) {
				t.Fatalf("parseInput(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("key %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func newKeyRig(t *testing.T) (*SSHServer, *game.Battle, *game.HoldLatch) {
	t.Helper()
	b, err := game.New(game.DefaultConfig(), game.Options{
		Renderer:  game.RendererFunc(func(game.Frame) {}),
		Scheduler: game.NewManualScheduler(),
		Clock:     game.NewManualClock(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &SSHServer{battle: game.DefaultConfig()}, b, game.NewHoldLatch(b.Input(), time.Second)
}

func TestHandleKeyLobby(t *testing.T) {
	s, b, latch := newKeyRig(t)

	if !s.handleKey(b, latch, Key{Kind: KeySelect, Enemy: 2}) {
		t.Fatal("select ended the session")
	}
	snap := b.Session()
	if snap.Phase != game.PhaseFighting || snap.Enemy.Def.Name != "MOLDSMAL" {
		t.Fatalf("after select: %v vs %q", snap.Phase, snap.Enemy.Def.Name)
	}

	// Picking again mid-fight is ignored.
	s.handleKey(b, latch, Key{Kind: KeySelect, Enemy: 0})
	if got := b.Session(); got.ID != snap.ID {
		t.Errorf("select during a fight restarted the battle")
	}

	s.handleKey(b, latch, Key{Kind: KeyMove, Dir: game.DirLeft})
	if !b.Input().Held(game.DirLeft) {
		t.Errorf("move did not hold the direction")
	}

	s.handleKey(b, latch, Key{Kind: KeyBack})
	if b.Phase() != game.PhaseMenu {
		t.Errorf("back left phase %v", b.Phase())
	}
	if b.Input().Held(game.DirLeft) {
		t.Errorf("back kept the held direction")
	}

	s.handleKey(b, latch, Key{Kind: KeyRandom})
	if b.Phase() != game.PhaseFighting {
		t.Errorf("random left phase %v", b.Phase())
	}

	if s.handleKey(b, latch, Key{Kind: KeyQuit}) {
		t.Errorf("quit kept the session open")
	}
	if b.Active() {
		t.Errorf("quit left the battle running")
	}
}
