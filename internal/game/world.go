package game

import "time"

// World is the whole simulation state advanced by Step. It is not safe for
// concurrent use; Room guards it with a mutex.
type World struct {
	cfg     Config
	rng     Rand
	audio   Audio
	overlay Overlay
	store   SettingsStore

	Left      Paddle
	Right     Paddle
	Tokens    []*Token
	Board     Board
	Particles []Particle

	GameOver  bool
	Result    Result
	Running   bool
	AIEnabled bool
	Tally     Tally

	clock      time.Duration
	lastSpawn  time.Duration
	spawnHeld  bool
	nextMark   Mark
	nextID     int
	generation int
	seq        int
	pending    []delayedAction
	reserved   [NumCells]bool

	intents [2]int
	targets [2]*float64

	events []Event
}

// NewWorld builds a running world with one token in play. A nil rng falls
// back to the global source.
func NewWorld(cfg Config, rng Rand) *World {
	w := &World{
		cfg:       cfg,
		rng:       rng,
		Left:      newPaddle(SideLeft),
		Right:     newPaddle(SideRight),
		Board:     NewBoard(),
		Running:   true,
		AIEnabled: true,
		nextMark:  MarkX,
	}
	w.spawn()
	w.events = nil
	return w
}

func (w *World) Config() Config { return w.cfg }

func (w *World) SetAudio(a Audio)     { w.audio = a }
func (w *World) SetOverlay(o Overlay) { w.overlay = o }

// AttachSettings seeds the AI flag and tally from the store and keeps it for
// later saves. A store with nothing saved leaves the defaults in place.
func (w *World) AttachSettings(s SettingsStore) {
	w.store = s
	if s == nil {
		return
	}
	if saved, ok := s.Load(); ok {
		w.AIEnabled = saved.AIEnabled
		w.Tally = saved.Tally
	}
}

// Clock is the simulated time since the world was created, excluding pauses.
func (w *World) Clock() time.Duration { return w.clock }

// SetIntent holds a paddle moving up (-1), down (+1) or still (0).
func (w *World) SetIntent(side Side, dir int) {
	if dir < -1 {
		dir = -1
	}
	if dir > 1 {
		dir = 1
	}
	w.intents[side] = dir
}

// SetPointer stages an absolute target for the paddle center, applied at the
// start of the next step.
func (w *World) SetPointer(side Side, y float64) {
	v := y
	w.targets[side] = &v
}

// Step advances the world by dt and returns what happened, including events
// from calls such as SpawnManual made since the previous step.
func (w *World) Step(dt time.Duration) []Event {
	if !w.Running || dt <= 0 {
		return nil
	}
	w.clock += dt
	frames := float64(dt) / float64(Frame)

	w.runDue()

	if w.GameOver {
		w.updateParticles(frames)
		return w.drainEvents()
	}

	w.updateSpawn()
	w.movePaddles(frames)
	w.updateTokens(frames)
	w.updatePlacement()
	w.updateParticles(frames)

	for _, t := range w.Tokens {
		if t.Flash > 0 {
			t.Flash--
		}
	}
	return w.drainEvents()
}

func (w *World) drainEvents() []Event {
	ev := w.events
	w.events = nil
	return ev
}

func (w *World) movePaddles(frames float64) {
	w.applyHuman(SideLeft, &w.Left, frames)
	if w.AIEnabled {
		w.targets[SideRight] = nil
		w.moveAI(frames)
	} else {
		w.applyHuman(SideRight, &w.Right, frames)
	}
}

func (w *World) applyHuman(side Side, p *Paddle, frames float64) {
	if t := w.targets[side]; t != nil {
		p.Y = *t - p.H/2
		w.targets[side] = nil
	}
	p.Y += float64(w.intents[side]) * p.Speed * frames
	p.clamp()
}

// TogglePause flips the running flag.
func (w *World) TogglePause() bool {
	w.Running = !w.Running
	return w.Running
}

// SetAI enables or disables the automated right paddle and saves the choice.
func (w *World) SetAI(on bool) {
	w.AIEnabled = on
	w.intents[SideRight] = 0
	w.targets[SideRight] = nil
	text := "AI off"
	if on {
		text = "AI on"
	}
	w.notify(NoticeAI, text, RemoveNoticeDuration)
	w.saveSettings()
}

func (w *World) ToggleAI() bool {
	w.SetAI(!w.AIEnabled)
	return w.AIEnabled
}

// SpawnManual adds a token now unless the match is over or the field is full.
func (w *World) SpawnManual() bool {
	if w.GameOver || len(w.Tokens) >= w.cfg.MaxTokens {
		return false
	}
	w.spawn()
	return true
}

// Reset starts a new match. Pending actions from the old match are dropped.
func (w *World) Reset() {
	w.generation++
	w.pending = nil
	w.reserved = [NumCells]bool{}
	w.Board.Clear()
	w.Tokens = nil
	w.Particles = nil
	w.GameOver = false
	w.Result = ResultNone
	w.spawnHeld = false
	w.emit(Event{Type: EventReset, Cell: -1})
	w.spawn()
}

// Restart resets the world and drains the pending events.
func (w *World) Restart() []Event {
	w.Reset()
	return w.drainEvents()
}

func (w *World) findToken(id int) (int, *Token) {
	for i, t := range w.Tokens {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (w *World) removeToken(idx int) {
	w.Tokens = append(w.Tokens[:idx], w.Tokens[idx+1:]...)
}
