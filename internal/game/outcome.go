package game

import (
	"fmt"
	"time"
)

// Result titles.
const (
	TitleVictory = "VICTORY"
	TitleDefeat  = "DEFEAT"
)

// Result is the notification shown when a battle ends.
type Result struct {
	Title   string
	Message string
}

// Cue is an audio request: a tone of Freq Hz for Duration, starting after Delay.
type Cue struct {
	Freq     float64
	Duration time.Duration
	Delay    time.Duration
}

// Fixed cues.
var (
	HitCue    = Cue{Freq: 300, Duration: 100 * time.Millisecond}
	DefeatCue = Cue{Freq: 200, Duration: 300 * time.Millisecond}
)

// VictoryCues returns the staggered three-note victory sequence.
func VictoryCues() []Cue {
	return []Cue{
		{Freq: 500, Duration: 100 * time.Millisecond},
		{Freq: 600, Duration: 100 * time.Millisecond, Delay: 100 * time.Millisecond},
		{Freq: 700, Duration: 200 * time.Millisecond, Delay: 200 * time.Millisecond},
	}
}

// Score accumulates across battles; Dodges is per battle.
type Score struct {
	EXP    int
	Gold   int
	Dodges int
}

func victoryResult(def EnemyDef, dodges int) Result {
	return Result{
		Title:   TitleVictory,
		Message: fmt.Sprintf("YOU WON!\n+%d EXP\n+%d GOLD\nDodges: %d", def.EXP, def.Gold, dodges),
	}
}

func defeatResult() Result {
	return Result{Title: TitleDefeat, Message: "YOU LOST...\nTry again!"}
}

// effects collects collaborator calls made during a tick so they can be
// dispatched after the session lock is released.
type effects struct {
	cues   []Cue
	result *Result
}

func (b *Battle) win(fx *effects) {
	s := &b.session
	s.Phase = PhaseVictory
	b.active = false

	b.score.EXP += s.Enemy.Def.EXP
	b.score.Gold += s.Enemy.Def.Gold

	res := victoryResult(s.Enemy.Def, b.score.Dodges)
	b.result = &res
	fx.cues = append(fx.cues, VictoryCues()...)
	fx.result = &res
	b.armHandoff()
}

func (b *Battle) lose(fx *effects) {
	s := &b.session
	s.Phase = PhaseDefeat
	b.active = false

	res := defeatResult()
	b.result = &res
	fx.cues = append(fx.cues, DefeatCue)
	fx.result = &res
	b.armHandoff()
}

// armHandoff schedules the wall-clock hand-off for the current generation.
func (b *Battle) armHandoff() {
	gen := b.generation
	b.pending = b.clock.AfterFunc(b.cfg.HandoffDelay, func() {
		b.fireHandoff(gen)
	})
}

func (b *Battle) fireHandoff(gen uint64) {
	b.mu.Lock()
	stale := b.cfg.Handoff == HandoffGeneration && gen != b.generation
	if !stale {
		b.pending = nil
	}
	b.mu.Unlock()

	if stale || b.handoff == nil {
		return
	}
	b.handoff()
}

// cancelHandoff stops a pending hand-off unless the policy preserves it.
func (b *Battle) cancelHandoff() {
	if b.cfg.Handoff == HandoffPreserve || b.pending == nil {
		return
	}
	b.pending.Stop()
	b.pending = nil
}

func (b *Battle) dispatch(fx effects) {
	if b.audio != nil {
		for _, c := range fx.cues {
			b.audio.Play(c)
		}
	}
	if fx.result != nil && b.notifier != nil {
		b.notifier.ShowResult(*fx.result)
	}
}
