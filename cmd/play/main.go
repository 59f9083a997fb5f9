package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"soul-battle/internal/audio"
	"soul-battle/internal/config"
	"soul-battle/internal/game"
	"soul-battle/internal/render"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "soul-battle.yaml", "path to the YAML config file")
	logPath := flag.String("log", "play.log", "log file; the terminal is taken by the game")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Log file error: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	gc, err := cfg.Battle.GameConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Screen error: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Screen init error: %v", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	renderer := render.NewScreenRenderer(screen)
	if cfg.Battle.HeartSprite != "" {
		heart, err := render.LoadPixelSprite(cfg.Battle.HeartSprite)
		if err != nil {
			log.Printf("Heart sprite error: %v, using the default", err)
		} else {
			renderer.SetHeart(heart)
		}
	}

	opts := game.Options{Renderer: renderer}
	if cfg.Audio.Enabled {
		synth := audio.NewSynth(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err := synth.Initialize(); err != nil {
			log.Printf("Audio disabled: %v", err)
		} else {
			defer synth.Close()
			opts.Audio = synth
		}
	}
	seed := cfg.Battle.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts.Rand = rand.New(rand.NewSource(seed))

	var battle *game.Battle
	opts.Notifier = game.NotifierFunc(func(r game.Result) {
		log.Printf("Battle over: %s (%+v)", r.Title, battle.Score())
	})
	opts.Handoff = func() { battle.Reset() }
	battle, err = game.New(gc, opts)
	if err != nil {
		log.Fatalf("Battle error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go battle.Run(ctx)
	renderer.Draw(battle.Snapshot())

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	latch := game.NewHoldLatch(battle.Input(), cfg.Server.HoldWindow)
	sweep := time.NewTicker(time.Second / time.Duration(gc.TickRate))
	defer sweep.Stop()

	for {
		select {
		case now := <-sweep.C:
			latch.Sweep(now)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				renderer.Draw(battle.Snapshot())
			case *tcell.EventKey:
				if !handleKey(battle, latch, ev) {
					battle.Reset()
					return
				}
			}
		}
	}
}

// handleKey applies one key event and reports whether play goes on.
func handleKey(battle *game.Battle, latch *game.HoldLatch, ev *tcell.EventKey) bool {
	fighting := battle.Phase() == game.PhaseFighting
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		latch.ReleaseAll()
		battle.Reset()
		return true
	case tcell.KeyUp:
		latch.Press(game.DirUp, time.Now())
		return true
	case tcell.KeyDown:
		latch.Press(game.DirDown, time.Now())
		return true
	case tcell.KeyLeft:
		latch.Press(game.DirLeft, time.Now())
		return true
	case tcell.KeyRight:
		latch.Press(game.DirRight, time.Now())
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		return false
	case r >= '1' && r <= '4' && !fighting:
		latch.ReleaseAll()
		if err := battle.StartBattle(int(r - '1')); err != nil {
			log.Printf("Start battle: %v", err)
		}
	case (r == 'r' || r == 'R') && !fighting:
		latch.ReleaseAll()
		battle.StartRandomBattle()
	default:
		if d, ok := game.KeyDirection(string(r)); ok {
			latch.Press(d, time.Now())
		}
	}
	return true
}
