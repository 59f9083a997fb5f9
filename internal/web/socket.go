package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"soul-battle/internal/game"
)

const outboundBuffer = 64

// session binds one websocket client to its own battle.
type session struct {
	id     string
	battle *game.Battle
	out    chan Event
	done   <-chan struct{}
}

func newSession(ctx context.Context, cfg game.Config, opts game.Options) (*session, error) {
	s := &session{
		id:   uuid.NewString(),
		out:  make(chan Event, outboundBuffer),
		done: ctx.Done(),
	}
	opts.Renderer = game.RendererFunc(func(f game.Frame) { s.offer(FrameEvent(f)) })
	opts.Audio = game.AudioFunc(func(c game.Cue) { s.send(CueEvent(c)) })
	opts.Notifier = game.NotifierFunc(func(r game.Result) {
		log.Printf("Socket %s: %s", s.id, r.Title)
		s.send(ResultEvent(r))
	})
	opts.Handoff = func() {
		s.send(HandoffEvent())
		s.battle.Reset()
	}
	b, err := game.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.battle = b
	return s, nil
}

// send queues an event, waiting for room unless the connection is gone.
func (s *session) send(ev Event) {
	select {
	case s.out <- ev:
	case <-s.done:
	}
}

// offer queues a frame, dropping it when the client lags behind.
func (s *session) offer(ev Event) {
	select {
	case s.out <- ev:
	default:
	}
}

// apply executes one inbound command.
func (s *session) apply(c Command) error {
	switch c.Type {
	case MsgKeyDown:
		s.battle.Input().KeyDown(c.Key)
	case MsgKeyUp:
		s.battle.Input().KeyUp(c.Key)
	case MsgStart:
		if c.Enemy == nil {
			s.battle.StartRandomBattle()
			return nil
		}
		return s.battle.StartBattle(*c.Enemy)
	case MsgReset:
		s.battle.Input().Clear()
		s.battle.Reset()
	}
	return nil
}

func (s *session) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		cmd, err := DecodeCommand(data)
		if err == nil {
			err = s.apply(cmd)
		}
		if err != nil {
			s.send(ErrorEvent(err))
		}
	}
}

func (s *session) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.out:
			data, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, s.accept)
	if err != nil {
		log.Printf("Websocket accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	sess, err := newSession(ctx, s.battle, game.Options{Rand: s.newRand()})
	if err != nil {
		log.Printf("Battle setup failed: %v", err)
		conn.Close(websocket.StatusInternalError, "battle setup failed")
		return
	}
	defer sess.battle.Reset()

	log.Printf("Socket connected: %s (%s)", sess.id, r.RemoteAddr)
	sess.offer(FrameEvent(sess.battle.Snapshot()))

	g.Go(func() error {
		sess.battle.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return sess.writeLoop(ctx, conn)
	})
	g.Go(func() error {
		defer cancel() // the client leaving ends the session
		return sess.readLoop(ctx, conn)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Socket %s closed: %v", sess.id, err)
		return
	}
	log.Printf("Socket disconnected: %s", sess.id)
}
