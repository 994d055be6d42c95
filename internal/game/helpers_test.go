package game

import "time"

// seqRand replays a fixed sequence of values, cycling when it runs out.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	if len(s.vals) == 0 {
		return 0.5
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

type recordingAudio struct {
	cues []Cue
}

func (a *recordingAudio) Play(c Cue) { a.cues = append(a.cues, c) }

func (a *recordingAudio) has(c Cue) bool {
	for _, x := range a.cues {
		if x == c {
			return true
		}
	}
	return false
}

type recordingOverlay struct {
	keys  []string
	texts []string
}

func (o *recordingOverlay) Notify(key, text string, d time.Duration) {
	o.keys = append(o.keys, key)
	o.texts = append(o.texts, text)
}

type memoryStore struct {
	saved  Settings
	loaded bool
	saves  int
}

func (m *memoryStore) Load() (Settings, bool) { return m.saved, m.loaded }

func (m *memoryStore) Save(s Settings) {
	m.saved = s
	m.loaded = true
	m.saves++
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AIJitter = 0
	return cfg
}

// newTestWorld returns a world with no tokens, both paddles human and a
// rand source that always answers 0.5.
func newTestWorld() (*World, *recordingAudio, *recordingOverlay) {
	w := NewWorld(testConfig(), &seqRand{vals: []float64{0.5}})
	w.Tokens = nil
	w.AIEnabled = false
	a := &recordingAudio{}
	o := &recordingOverlay{}
	w.SetAudio(a)
	w.SetOverlay(o)
	return w, a, o
}

func addToken(w *World, id int, pos, vel Vec2, mark Mark, wasHit bool) *Token {
	t := &Token{ID: id, Pos: pos, Vel: vel, Radius: TokenRadius, Mark: mark, WasHit: wasHit, Cell: -1}
	w.Tokens = append(w.Tokens, t)
	return t
}

func stepN(w *World, n int) []Event {
	var all []Event
	for i := 0; i < n; i++ {
		all = append(all, w.Step(Frame)...)
	}
	return all
}

func hasEvent(ev []Event, typ EventType) bool {
	for _, e := range ev {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func countMarks(b *Board, m Mark) int {
	n := 0
	for _, c := range b.Cells {
		if c.Mark == m {
			n++
		}
	}
	return n
}
