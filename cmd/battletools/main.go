package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"soul-battle/internal/game"
	"soul-battle/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "catalog":
		runCatalog()
	case "sim":
		if len(args) < 1 || len(args) > 4 {
			fmt.Fprintln(os.Stderr, "Usage: battletools sim <enemy> [ticks] [seed] [hold]")
			os.Exit(1)
		}
		os.Exit(runSim(args))
	case "snapshot":
		if len(args) < 3 || len(args) > 4 {
			fmt.Fprintln(os.Stderr, "Usage: battletools snapshot <enemy> <tick> <out.png> [seed]")
			os.Exit(1)
		}
		os.Exit(runSnapshot(args))
	case "viz":
		if len(args) < 2 || len(args) > 3 {
			fmt.Fprintln(os.Stderr, "Usage: battletools viz <enemy> <tick> [seed]")
			os.Exit(1)
		}
		os.Exit(runViz(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: battletools <command> [args]

Commands:
  catalog                                List enemies and their patterns
  sim      <enemy> [ticks] [seed] [hold]  Run a headless battle and report it
  snapshot <enemy> <tick> <out.png> [seed] Save the frame at a tick as PNG
  viz      <enemy> <tick> [seed]          Print the frame at a tick as ANSI art

<enemy> is a catalog index (0-3) or name. [hold] lists directions held
for the whole run, e.g. up,left.`)
}

// --- shared ---

// parseEnemy accepts a catalog index or a case-insensitive name.
func parseEnemy(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if _, err := game.EnemyAt(i); err != nil {
			return 0, err
		}
		return i, nil
	}
	for i, d := range game.Catalog() {
		if strings.EqualFold(d.Name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", game.ErrInvalidEnemy, s)
}

func parseHold(s string) ([]game.Direction, error) {
	var dirs []game.Direction
	for _, name := range strings.Split(s, ",") {
		d, ok := game.KeyDirection("arrow" + strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown direction %q", name)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// intArg parses args[i], or returns def when it is absent.
func intArg(args []string, i int, def int64) (int64, error) {
	if i >= len(args) {
		return def, nil
	}
	return strconv.ParseInt(args[i], 10, 64)
}

type sim struct {
	battle *game.Battle
	sched  *game.ManualScheduler
}

// newSim starts a deterministic battle driven by a manual scheduler.
func newSim(enemy int, seed int64, r game.Renderer, hold []game.Direction) (*sim, error) {
	sched := game.NewManualScheduler()
	b, err := game.New(game.DefaultConfig(), game.Options{
		Renderer:  r,
		Scheduler: sched,
		Clock:     game.NewManualClock(),
		Rand:      rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, err
	}
	if err := b.StartBattle(enemy); err != nil {
		return nil, err
	}
	for _, d := range hold {
		b.Input().Press(d)
	}
	return &sim{battle: b, sched: sched}, nil
}

// runTo steps until tick or the battle ends, calling each after every tick.
func (s *sim) runTo(tick int, each func(game.SessionSnapshot)) game.SessionSnapshot {
	snap := s.battle.Session()
	for snap.Tick < tick && s.battle.Active() {
		s.sched.Step()
		snap = s.battle.Session()
		if each != nil {
			each(snap)
		}
	}
	return snap
}

// frameArgs parses <enemy> <tick> and the seed at seedIdx.
func frameArgs(args []string, seedIdx int) (enemy, tick int, seed int64, err error) {
	if enemy, err = parseEnemy(args[0]); err != nil {
		return
	}
	t, err := strconv.Atoi(args[1])
	if err != nil {
		return
	}
	if t < 0 || t > game.BattleDuration+1 {
		err = fmt.Errorf("tick %d outside 0-%d", t, game.BattleDuration+1)
		return
	}
	tick = t
	seed, err = intArg(args, seedIdx, 1)
	return
}

// --- catalog ---

func runCatalog() {
	fmt.Printf("  %-3s %-9s %4s %4s %4s %4s %5s  %-8s %s\n", "#", "NAME", "HP", "ATK", "DEF", "EXP", "GOLD", "PATTERN", "COLOR")
	for i, d := range game.Catalog() {
		c, _ := render.ParseHexColor(d.Color)
		swatch := fmt.Sprintf("\033[38;2;%d;%d;%dm██\033[0m", c.R, c.G, c.B)
		fmt.Printf("  %-3d %-9s %4d %4d %4d %4d %5d  %-8s %s %s\n",
			i, d.Name, d.HP, d.Attack, d.Defense, d.EXP, d.Gold, d.Pattern, swatch, d.Color)
	}
}

// --- sim ---

func runSim(args []string) int {
	enemy, err := parseEnemy(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ticks, err := intArg(args, 1, game.BattleDuration+1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ticks: %v\n", err)
		return 1
	}
	seed, err := intArg(args, 2, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: seed: %v\n", err)
		return 1
	}
	var hold []game.Direction
	if len(args) > 3 {
		if hold, err = parseHold(args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var result *game.Result
	s, err := newSim(enemy, seed, game.RendererFunc(func(f game.Frame) {
		if f.Result != nil {
			result = f.Result
		}
	}), hold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	def, _ := game.EnemyAt(enemy)
	fmt.Printf("%s (%s pattern, seed %d)\n\n", def.Name, def.Pattern, seed)
	fmt.Printf("  %5s %4s %7s %7s\n", "SEC", "HP", "BULLETS", "DODGES")

	snap := s.runTo(int(ticks), func(snap game.SessionSnapshot) {
		if snap.Tick%game.TickRate != 0 {
			return
		}
		score := s.battle.Score()
		bar := strings.Repeat("█", snap.Player.HP)
		fmt.Printf("  %5d %4d %7d %7d %s\n", game.TicksToSecs(snap.Tick), snap.Player.HP, len(snap.Bullets), score.Dodges, bar)
	})

	score := s.battle.Score()
	fmt.Printf("\nPhase:    %s at tick %d\n", snap.Phase, snap.Tick)
	fmt.Printf("HP:       %d/%d\n", snap.Player.HP, snap.Player.MaxHP)
	fmt.Printf("Dodges:   %d\n", score.Dodges)
	fmt.Printf("Dropped:  %d  Recycled: %d\n", snap.Dropped, snap.Recycled)
	if result != nil {
		fmt.Printf("\n%s\n%s\n", result.Title, result.Message)
	}
	return 0
}

// --- snapshot ---

func runSnapshot(args []string) int {
	enemy, tick, seed, err := frameArgs(args, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	png, err := render.NewPNGRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s, err := newSim(enemy, seed, png, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s.runTo(tick, nil)

	out := args[2]
	if err := png.SavePNG(out, s.battle.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s (tick %d)\n", out, s.battle.Session().Tick)
	return 0
}

// --- viz ---

func runViz(args []string) int {
	enemy, tick, seed, err := frameArgs(args, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	s, err := newSim(enemy, seed, game.RendererFunc(func(game.Frame) {}), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s.runTo(tick, nil)

	engine := render.NewEngine(80, 24)
	engine.Draw(s.battle.Snapshot(), func(int, int, render.Cell) {})
	var sb strings.Builder
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			render.WriteCellSGR(&sb, engine.CellAt(x, y))
		}
		sb.WriteString(render.Reset)
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
	return 0
}
