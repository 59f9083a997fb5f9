package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"

	"soul-battle/internal/audio/bell"
	"soul-battle/internal/config"
	"soul-battle/internal/game"
	"soul-battle/internal/render"
)

// SSHServer hosts one battle per PTY session.
type SSHServer struct {
	addr       string
	hostKey    string
	battle     game.Config
	holdWindow time.Duration
	seed       int64
	heart      render.PixelSprite
}

// NewSSHServer creates an SSH host from the loaded configuration. A nil
// heart keeps the built-in sprite.
func NewSSHServer(cfg config.Config, heart render.PixelSprite) (*SSHServer, error) {
	gc, err := cfg.Battle.GameConfig()
	if err != nil {
		return nil, err
	}
	return &SSHServer{
		addr:       cfg.Server.SSHAddr,
		hostKey:    cfg.Server.HostKey,
		battle:     gc,
		holdWindow: cfg.Server.HoldWindow,
		seed:       cfg.Battle.Seed,
		heart:      heart,
	}, nil
}

// Start listens for SSH connections until ctx is done.
func (s *SSHServer) Start(ctx context.Context) error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	log.Printf("SSH server listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// syncWriter serializes writes from the renderer and the bell.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *SSHServer) newRand() *rand.Rand {
	if s.seed != 0 {
		return rand.New(rand.NewSource(s.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	out := &syncWriter{w: sess}
	renderer := render.NewANSIRenderer(out, ptyReq.Window.Width, ptyReq.Window.Height)
	if s.heart != nil {
		renderer.SetHeart(s.heart)
	}

	var (
		battle *game.Battle
		err    error
	)
	battle, err = game.New(s.battle, game.Options{
		Renderer: renderer,
		Audio:    bell.New(out),
		Notifier: game.NotifierFunc(func(r game.Result) {
			snap := battle.Session()
			log.Printf("Battle %s for %s vs %s: %s", snap.ID, username, snap.Enemy.Def.Name, r.Title)
		}),
		Handoff: func() { battle.Reset() },
		Rand:    s.newRand(),
	})
	if err != nil {
		log.Printf("Battle setup failed for %s: %v", username, err)
		return
	}

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	log.Printf("Player connected: %s", username)
	defer log.Printf("Player disconnected: %s", username)

	io.WriteString(out, render.EnableAltScreen())
	io.WriteString(out, render.HideCursor())
	io.WriteString(out, render.ClearScreen())
	defer func() {
		io.WriteString(out, render.ShowCursor())
		io.WriteString(out, render.DisableAltScreen())
	}()

	go battle.Run(ctx)
	renderer.Draw(battle.Snapshot())

	keys := make(chan Key, 16)
	go func() {
		defer cancel()
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, k := range parseInput(buf[:n]) {
				select {
				case keys <- k:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	latch := game.NewHoldLatch(battle.Input(), s.holdWindow)
	sweep := time.NewTicker(time.Second / time.Duration(s.battle.TickRate))
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			battle.Reset()
			return
		case now := <-sweep.C:
			latch.Sweep(now)
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			renderer.Resize(win.Width, win.Height)
			renderer.Draw(battle.Snapshot())
		case k := <-keys:
			if !s.handleKey(battle, latch, k) {
				return
			}
		}
	}
}

// handleKey applies one key press and reports whether the session goes on.
func (s *SSHServer) handleKey(battle *game.Battle, latch *game.HoldLatch, k Key) bool {
	fighting := battle.Phase() == game.PhaseFighting
	switch k.Kind {
	case KeyQuit:
		battle.Reset()
		return false
	case KeyMove:
		latch.Press(k.Dir, time.Now())
	case KeyBack:
		latch.ReleaseAll()
		battle.Reset()
	case KeySelect:
		if fighting {
			return true
		}
		latch.ReleaseAll()
		if err := battle.StartBattle(k.Enemy); err != nil {
			log.Printf("Start battle: %v", err)
		}
	case KeyRandom:
		if fighting {
			return true
		}
		latch.ReleaseAll()
		battle.StartRandomBattle()
	}
	return true
}
