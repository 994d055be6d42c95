package game

// Mark is one of the two token kinds. The left paddle owns X, the right owns O.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// Other returns the opposite mark.
func (m Mark) Other() Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// Side identifies a paddle.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Mark is the mark a token takes when this side's paddle strikes it.
func (s Side) Mark() Mark {
	if s == SideLeft {
		return MarkX
	}
	return MarkO
}

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// ParseSide accepts "left" or "right".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left":
		return SideLeft, true
	case "right":
		return SideRight, true
	}
	return SideLeft, false
}

// Paddle is an axis-aligned rectangle that only moves vertically.
type Paddle struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	W     float64 `json:"w" msgpack:"w"`
	H     float64 `json:"h" msgpack:"h"`
	Speed float64 `json:"speed" msgpack:"speed"`
}

func newPaddle(side Side) Paddle {
	x := PaddleInset
	if side == SideRight {
		x = FieldWidth - PaddleInset - PaddleWidth
	}
	return Paddle{
		X:     x,
		Y:     FieldHeight/2 - PaddleHeight/2,
		W:     PaddleWidth,
		H:     PaddleHeight,
		Speed: PaddleSpeed,
	}
}

func (p *Paddle) clamp() {
	p.Y = Clamp(p.Y, 0, FieldHeight-p.H)
}

// CenterY is the vertical middle of the paddle.
func (p Paddle) CenterY() float64 {
	return p.Y + p.H/2
}

// TokenState tracks a token through placement.
type TokenState int

const (
	TokenFree TokenState = iota
	TokenSnapping
)

// Token is a moving circular body that may end up as a mark on the board.
type Token struct {
	ID     int
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Mark   Mark
	WasHit bool
	Flash  int
	State  TokenState
	Cell   int // target cell while snapping
}

func (t *Token) Speed() float64 {
	return t.Vel.Magnitude()
}

// Particle is a purely visual fragment.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Life   float64
	Radius float64
	Color  string
}

// Particle color tags.
const (
	ColorPaddle = "paddle"
	ColorEvict  = "evict"
	ColorRemove = "remove"
)
