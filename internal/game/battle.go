package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoRenderer is returned when a battle is created without a rendering surface.
	ErrNoRenderer = errors.New("no renderer")
	// ErrInvalidConfig is returned for unusable battle settings.
	ErrInvalidConfig = errors.New("invalid battle config")
)

// Phase is the battle state machine's current state.
type Phase int

const (
	PhaseMenu     Phase = iota // idle, no tick processing
	PhaseFighting              // active simulation
	PhaseVictory               // survived, rewards granted
	PhaseDefeat                // HP ran out
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseFighting:
		return "fighting"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Terminal reports whether the phase ends a battle.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// HandoffPolicy decides whether a pending hand-off survives a restart.
type HandoffPolicy int

const (
	// HandoffGeneration cancels the pending hand-off on Reset/StartBattle
	// and ignores stale fires from an earlier session.
	HandoffGeneration HandoffPolicy = iota
	// HandoffPreserve lets every armed hand-off fire, whatever happened since.
	HandoffPreserve
)

func (p HandoffPolicy) String() string {
	switch p {
	case HandoffGeneration:
		return "generation"
	case HandoffPreserve:
		return "preserve"
	default:
		return fmt.Sprintf("HandoffPolicy(%d)", int(p))
	}
}

// ParseHandoffPolicy parses "generation" or "preserve".
func ParseHandoffPolicy(s string) (HandoffPolicy, error) {
	switch s {
	case "generation", "":
		return HandoffGeneration, nil
	case "preserve":
		return HandoffPreserve, nil
	}
	return 0, fmt.Errorf("handoff %q: %w", s, errUnknownPolicy)
}

// Config holds the battle settings.
type Config struct {
	Width, Height float64
	TickRate      int // frames per second for the default scheduler
	MaxBullets    int // 0 disables the cap
	Overflow      OverflowPolicy
	Handoff       HandoffPolicy
	HandoffDelay  time.Duration
}

// DefaultConfig returns the standard 600x400 battle.
func DefaultConfig() Config {
	return Config{
		Width:        600,
		Height:       400,
		TickRate:     TickRate,
		MaxBullets:   DefaultMaxBullets,
		Overflow:     OverflowDropNewest,
		Handoff:      HandoffGeneration,
		HandoffDelay: DefaultHandoffDelay,
	}
}

// Validate checks that the settings can hold a battle.
func (c Config) Validate() error {
	switch {
	case c.Width <= 2*Boundary || c.Height <= 2*Boundary:
		return fmt.Errorf("%w: canvas %vx%v must exceed %d on both axes", ErrInvalidConfig, c.Width, c.Height, 2*Boundary)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.TickRate)
	case c.MaxBullets < 0:
		return fmt.Errorf("%w: max bullets %d", ErrInvalidConfig, c.MaxBullets)
	case c.Overflow != OverflowDropNewest && c.Overflow != OverflowRecycleOldest:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Overflow)
	case c.Handoff != HandoffGeneration && c.Handoff != HandoffPreserve:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Handoff)
	case c.HandoffDelay < 0:
		return fmt.Errorf("%w: handoff delay %v", ErrInvalidConfig, c.HandoffDelay)
	}
	return nil
}

// Options wires a battle to its host. Only Renderer is required.
type Options struct {
	Renderer  Renderer
	Audio     AudioSink
	Notifier  Notifier
	Handoff   func()     // returns control to the host after a result
	Scheduler Scheduler  // defaults to a FrameScheduler driven by Run
	Clock     Clock      // defaults to the wall clock
	Rand      *rand.Rand // defaults to a time-seeded source
}

// Session is the state of one battle, from StartBattle until the next
// StartBattle or Reset.
type Session struct {
	ID         string
	Generation uint64
	Phase      Phase
	Tick       int // elapsed ticks while fighting
	SpawnTimer int // ticks since the last spawn event
	Player     Player
	Enemy      *Enemy
	Bullets    *BulletStore
}

// SessionSnapshot is a read-only copy of a session.
type SessionSnapshot struct {
	ID         string
	Generation uint64
	Phase      Phase
	Tick       int
	SpawnTimer int
	Player     Player
	Enemy      Enemy
	HasEnemy   bool
	Bullets    []Bullet
	Dropped    int
	Recycled   int
}

// Battle owns one session at a time and drives it tick by tick.
type Battle struct {
	cfg       Config
	renderer  Renderer
	audio     AudioSink
	notifier  Notifier
	handoff   func()
	scheduler Scheduler
	frames    *FrameScheduler // set when the battle owns its scheduler
	clock     Clock
	input     Input

	mu         sync.Mutex
	rng        *rand.Rand
	session    Session
	score      Score
	result     *Result
	active     bool
	loopToken  uint64
	generation uint64
	pending    Timer
}

// New creates an idle battle in the menu phase.
func New(cfg Config, opts Options) (*Battle, error) {
	if opts.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Battle{
		cfg:       cfg,
		renderer:  opts.Renderer,
		audio:     opts.Audio,
		notifier:  opts.Notifier,
		handoff:   opts.Handoff,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		rng:       opts.Rand,
	}
	if b.scheduler == nil {
		b.frames = NewFrameScheduler(cfg.TickRate)
		b.scheduler = b.frames
	}
	if b.clock == nil {
		b.clock = wallClock{}
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b.session = b.idleSession()
	return b, nil
}

func (b *Battle) idleSession() Session {
	return Session{
		Generation: b.generation,
		Phase:      PhaseMenu,
		Player:     newPlayer(b.cfg.Width, b.cfg.Height),
		Bullets:    NewBulletStore(b.cfg.MaxBullets, b.cfg.Overflow),
	}
}

// Run drives the battle's own frame scheduler until ctx is done. When the
// host supplied a scheduler, Run just waits.
func (b *Battle) Run(ctx context.Context) {
	if b.frames == nil {
		<-ctx.Done()
		return
	}
	b.frames.Run(ctx)
}

// Input returns the held-key state read by every tick.
func (b *Battle) Input() *Input {
	return &b.input
}

// Config returns the battle settings.
func (b *Battle) Config() Config {
	return b.cfg
}

// StartBattle begins a fight against the catalog enemy at index.
func (b *Battle) StartBattle(index int) error {
	def, err := EnemyAt(index)
	if err != nil {
		return err
	}
	b.start(def)
	return nil
}

// StartRandomBattle begins a fight against a uniformly chosen catalog enemy.
func (b *Battle) StartRandomBattle() {
	b.mu.Lock()
	def := catalog[b.rng.Intn(len(catalog))]
	b.mu.Unlock()
	b.start(def)
}

func (b *Battle) start(def EnemyDef) {
	b.mu.Lock()
	b.cancelHandoff()
	b.generation++
	b.session = b.idleSession()
	b.session.ID = uuid.NewString()
	b.session.Phase = PhaseFighting
	b.session.Enemy = newEnemy(def)
	b.score.Dodges = 0
	b.result = nil
	b.active = true
	b.loopToken++
	token := b.loopToken
	b.mu.Unlock()

	b.scheduler.ScheduleNextTick(func() { b.loop(token) })
}

// Reset aborts whatever is running and returns to the menu phase.
func (b *Battle) Reset() {
	b.mu.Lock()
	b.cancelHandoff()
	b.generation++
	b.active = false
	b.loopToken++
	b.result = nil
	b.session.Generation = b.generation
	b.session.Phase = PhaseMenu
	b.session.Bullets.Clear()
	b.session.Player.HP = b.session.Player.MaxHP
	b.session.Player.Invincible = false
	b.session.Player.InvincibleTimer = 0
	frame := b.frame()
	b.mu.Unlock()

	b.renderer.Draw(frame)
}

// loop is the self-rescheduling frame callback of one started battle.
func (b *Battle) loop(token uint64) {
	b.mu.Lock()
	if !b.active || b.loopToken != token {
		b.mu.Unlock()
		return
	}
	fx, frame, _ := b.step()
	again := b.active && b.loopToken == token
	b.mu.Unlock()

	b.dispatch(fx)
	b.renderer.Draw(frame)
	if again {
		b.scheduler.ScheduleNextTick(func() { b.loop(token) })
	}
}

// Tick advances the session by one tick and draws the result. It is a
// no-op outside the fighting phase and reports whether a tick ran.
func (b *Battle) Tick() bool {
	b.mu.Lock()
	fx, frame, ok := b.step()
	b.mu.Unlock()
	if !ok {
		return false
	}
	b.dispatch(fx)
	b.renderer.Draw(frame)
	return true
}

// step runs one tick in order: input and movement, invincibility,
// attack pattern, bullets, collision, then the victory check.
func (b *Battle) step() (effects, Frame, bool) {
	s := &b.session
	if s.Phase != PhaseFighting {
		return effects{}, Frame{}, false
	}
	var fx effects
	w, h := b.cfg.Width, b.cfg.Height

	s.Tick++
	s.Player.Move(&b.input, w, h)
	s.Player.tickInvincibility()

	s.SpawnTimer++
	if s.SpawnTimer >= SpawnInterval {
		s.SpawnTimer = 0
		s.Bullets.Add(Spawn(s.Enemy.Def.Pattern, SpawnContext{
			Width:  w,
			Height: h,
			Tick:   s.Tick,
			Color:  s.Enemy.Def.Color,
			Rand:   b.rng,
		})...)
	}

	b.score.Dodges += s.Bullets.Advance(w, h)
	b.resolveCollision(&fx)

	if s.Phase == PhaseFighting && s.Tick > BattleDuration {
		b.win(&fx)
	}
	return fx, b.frame(), true
}

// Snapshot returns the current frame without advancing.
func (b *Battle) Snapshot() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame()
}

// Session returns a read-only copy of the current session.
func (b *Battle) Session() SessionSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &b.session
	snap := SessionSnapshot{
		ID:         s.ID,
		Generation: s.Generation,
		Phase:      s.Phase,
		Tick:       s.Tick,
		SpawnTimer: s.SpawnTimer,
		Player:     s.Player,
		Bullets:    s.Bullets.Bullets(),
		Dropped:    s.Bullets.Dropped(),
		Recycled:   s.Bullets.Recycled(),
	}
	if s.Enemy != nil {
		snap.Enemy = *s.Enemy
		snap.HasEnemy = true
	}
	return snap
}

// Score returns the accumulated score.
func (b *Battle) Score() Score {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.score
}

// Phase returns the current phase.
func (b *Battle) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session.Phase
}

// Active reports whether the tick loop is running.
func (b *Battle) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}
