package game

// TokenView is the render state of one token.
type TokenView struct {
	ID       int     `json:"id" msgpack:"id"`
	Pos      Vec2    `json:"pos" msgpack:"pos"`
	Radius   float64 `json:"r" msgpack:"r"`
	Mark     Mark    `json:"mark" msgpack:"mark"`
	Flash    int     `json:"flash,omitempty" msgpack:"flash,omitempty"`
	Snapping bool    `json:"snapping,omitempty" msgpack:"snapping,omitempty"`
}

// ParticleView is the render state of one particle.
type ParticleView struct {
	Pos    Vec2    `json:"pos" msgpack:"pos"`
	Radius float64 `json:"r" msgpack:"r"`
	Life   float64 `json:"life" msgpack:"life"`
	Color  string  `json:"color" msgpack:"color"`
}

// Snapshot is a read-only copy of the world for renderers.
type Snapshot struct {
	Width     float64        `json:"width" msgpack:"width"`
	Height    float64        `json:"height" msgpack:"height"`
	Left      Paddle         `json:"left" msgpack:"left"`
	Right     Paddle         `json:"right" msgpack:"right"`
	BoardX    float64        `json:"board_x" msgpack:"board_x"`
	BoardY    float64        `json:"board_y" msgpack:"board_y"`
	BoardSize float64        `json:"board_size" msgpack:"board_size"`
	Cells     [NumCells]Cell `json:"cells" msgpack:"cells"`
	Tokens    []TokenView    `json:"tokens" msgpack:"tokens"`
	Particles []ParticleView `json:"particles" msgpack:"particles"`
	GameOver  bool           `json:"game_over" msgpack:"game_over"`
	Result    Result         `json:"result,omitempty" msgpack:"result,omitempty"`
	Running   bool           `json:"running" msgpack:"running"`
	AIEnabled bool           `json:"ai_enabled" msgpack:"ai_enabled"`
	Tally     Tally          `json:"tally" msgpack:"tally"`
	ClockMs   int64          `json:"clock_ms" msgpack:"clock_ms"`
}

// Snapshot copies the render state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Width:     FieldWidth,
		Height:    FieldHeight,
		Left:      w.Left,
		Right:     w.Right,
		BoardX:    w.Board.X,
		BoardY:    w.Board.Y,
		BoardSize: w.Board.Size,
		Cells:     w.Board.Cells,
		Tokens:    make([]TokenView, 0, len(w.Tokens)),
		Particles: make([]ParticleView, 0, len(w.Particles)),
		GameOver:  w.GameOver,
		Result:    w.Result,
		Running:   w.Running,
		AIEnabled: w.AIEnabled,
		Tally:     w.Tally,
		ClockMs:   w.clock.Milliseconds(),
	}
	for _, t := range w.Tokens {
		s.Tokens = append(s.Tokens, TokenView{
			ID:       t.ID,
			Pos:      t.Pos,
			Radius:   t.Radius,
			Mark:     t.Mark,
			Flash:    t.Flash,
			Snapping: t.State == TokenSnapping,
		})
	}
	for _, p := range w.Particles {
		s.Particles = append(s.Particles, ParticleView{Pos: p.Pos, Radius: p.Radius, Life: p.Life, Color: p.Color})
	}
	return s
}
