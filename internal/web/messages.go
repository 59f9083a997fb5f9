package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"soul-battle/internal/game"
)

// ErrBadMessage is returned for inbound messages that cannot be applied.
var ErrBadMessage = errors.New("bad message")

// Inbound message types.
const (
	MsgKeyDown = "keydown"
	MsgKeyUp   = "keyup"
	MsgStart   = "start"
	MsgReset   = "reset"
)

// Outbound message types.
const (
	MsgFrame   = "frame"
	MsgCue     = "cue"
	MsgResult  = "result"
	MsgHandoff = "handoff"
	MsgError   = "error"
)

// Command is a client to server message.
type Command struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Enemy *int   `json:"enemy,omitempty"` // start: nil picks at random
}

// DecodeCommand parses and checks one inbound message.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	switch c.Type {
	case MsgKeyDown, MsgKeyUp:
		if c.Key == "" {
			return Command{}, fmt.Errorf("%w: %s without key", ErrBadMessage, c.Type)
		}
	case MsgStart, MsgReset:
	default:
		return Command{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, c.Type)
	}
	return c, nil
}

type bulletJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"color"`
}

type playerJSON struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Radius     float64 `json:"r"`
	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	Invincible bool    `json:"invincible"`
	Blink      bool    `json:"blink"`
}

type scoreJSON struct {
	EXP    int `json:"exp"`
	Gold   int `json:"gold"`
	Dodges int `json:"dodges"`
}

type resultJSON struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Event is a server to client message. Only the fields of its type are set.
type Event struct {
	Type string `json:"type"`

	// frame
	Phase      string       `json:"phase,omitempty"`
	Tick       int          `json:"tick,omitempty"`
	Width      float64      `json:"width,omitempty"`
	Height     float64      `json:"height,omitempty"`
	Enemy      string       `json:"enemy,omitempty"`
	EnemyColor string       `json:"enemyColor,omitempty"`
	TimeLeft   int          `json:"timeLeft,omitempty"`
	LowTime    bool         `json:"lowTime,omitempty"`
	Player     *playerJSON  `json:"player,omitempty"`
	Bullets    []bulletJSON `json:"bullets,omitempty"`
	Score      *scoreJSON   `json:"score,omitempty"`

	// cue
	Freq     float64 `json:"freq,omitempty"`
	Duration int64   `json:"durationMs,omitempty"`
	Delay    int64   `json:"delayMs,omitempty"`

	// frame once terminal, result
	Result *resultJSON `json:"result,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

// FrameEvent encodes a frame.
func FrameEvent(f game.Frame) Event {
	ev := Event{
		Type:       MsgFrame,
		Phase:      f.Phase.String(),
		Tick:       f.Tick,
		Width:      f.Width,
		Height:     f.Height,
		Enemy:      f.EnemyName,
		EnemyColor: f.EnemyColor,
		TimeLeft:   f.TimeLeft,
		LowTime:    f.LowTime,
		Player: &playerJSON{
			X:          f.PlayerX,
			Y:          f.PlayerY,
			Radius:     f.PlayerRadius,
			HP:         f.HP,
			MaxHP:      f.MaxHP,
			Invincible: f.Invincible,
			Blink:      f.Blink,
		},
		Score: &scoreJSON{EXP: f.Score.EXP, Gold: f.Score.Gold, Dodges: f.Score.Dodges},
	}
	if len(f.Bullets) > 0 {
		ev.Bullets = make([]bulletJSON, len(f.Bullets))
		for i, b := range f.Bullets {
			ev.Bullets[i] = bulletJSON{X: b.X, Y: b.Y, Radius: b.Radius, Color: b.Color}
		}
	}
	if f.Result != nil {
		ev.Result = &resultJSON{Title: f.Result.Title, Message: f.Result.Message}
	}
	return ev
}

// CueEvent encodes an audio cue; the browser synthesizes the tone.
func CueEvent(c game.Cue) Event {
	return Event{
		Type:     MsgCue,
		Freq:     c.Freq,
		Duration: c.Duration.Milliseconds(),
		Delay:    c.Delay.Milliseconds(),
	}
}

// ResultEvent encodes a battle result.
func ResultEvent(r game.Result) Event {
	return Event{Type: MsgResult, Result: &resultJSON{Title: r.Title, Message: r.Message}}
}

// HandoffEvent tells the client control has returned to the lobby.
func HandoffEvent() Event {
	return Event{Type: MsgHandoff}
}

// ErrorEvent reports a rejected command.
func ErrorEvent(err error) Event {
	return Event{Type: MsgError, Error: err.Error()}
}
