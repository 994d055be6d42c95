package game

import "time"

// EventType names something that happened during a step.
type EventType string

const (
	EventSpawn      EventType = "spawn"
	EventWall       EventType = "wall"
	EventPaddle     EventType = "paddle"
	EventSnap       EventType = "snap"
	EventPlace      EventType = "place"
	EventEvict      EventType = "evict"
	EventBounce     EventType = "bounce"
	EventExit       EventType = "exit"
	EventRemoveMark EventType = "remove_mark"
	EventGameOver   EventType = "game_over"
	EventReset      EventType = "reset"
)

// Event is returned from Step so hosts can persist or relay what happened.
type Event struct {
	Type    EventType `json:"type" msgpack:"type"`
	TokenID int       `json:"token_id,omitempty" msgpack:"token_id,omitempty"`
	Cell    int       `json:"cell" msgpack:"cell"`
	Mark    Mark      `json:"mark,omitempty" msgpack:"mark,omitempty"`
	Result  Result    `json:"result,omitempty" msgpack:"result,omitempty"`
}

// Cue identifies a sound effect.
type Cue string

const (
	CuePaddle  Cue = "paddle"
	CuePlace   Cue = "place"
	CueWall    Cue = "wall"
	CueGeneric Cue = "generic"
)

// Audio plays cues. Play must not block.
type Audio interface {
	Play(cue Cue)
}

// Overlay shows short-lived text keyed by event.
type Overlay interface {
	Notify(key, text string, d time.Duration)
}

// Tally counts finished matches.
type Tally struct {
	X    int `json:"x" msgpack:"x" toml:"x"`
	O    int `json:"o" msgpack:"o" toml:"o"`
	Ties int `json:"ties" msgpack:"ties" toml:"ties"`
}

func (t *Tally) Record(r Result) {
	switch r {
	case ResultX:
		t.X++
	case ResultO:
		t.O++
	case ResultTie:
		t.Ties++
	}
}

// Settings is the state kept between sessions.
type Settings struct {
	AIEnabled bool  `json:"ai_enabled" toml:"ai_enabled"`
	Tally     Tally `json:"tally" toml:"tally"`
}

// SettingsStore loads and saves Settings. Load reports false when nothing was stored.
type SettingsStore interface {
	Load() (Settings, bool)
	Save(s Settings)
}

// Overlay keys and durations.
const (
	NoticeResult = "result"
	NoticeRemove = "remove"
	NoticeAI     = "ai"

	ResultNoticeDuration = 3 * time.Second
	RemoveNoticeDuration = 1200 * time.Millisecond
)

func (w *World) play(c Cue) {
	if w.audio != nil {
		w.audio.Play(c)
	}
}

func (w *World) notify(key, text string, d time.Duration) {
	if w.overlay != nil {
		w.overlay.Notify(key, text, d)
	}
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

func (w *World) saveSettings() {
	if w.store == nil {
		return
	}
	w.store.Save(Settings{AIEnabled: w.AIEnabled, Tally: w.Tally})
}
