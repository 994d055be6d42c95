package game

// Result is the outcome of a finished match.
type Result string

const (
	ResultNone Result = ""
	ResultX    Result = "X"
	ResultO    Result = "O"
	ResultTie  Result = "tie"
)

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// CheckWinner evaluates the eight lines. A full board without a line is a tie.
func CheckWinner(cells [NumCells]Mark) Result {
	for _, l := range winLines {
		m := cells[l[0]]
		if m != MarkNone && cells[l[1]] == m && cells[l[2]] == m {
			return Result(m)
		}
	}
	for _, m := range cells {
		if m == MarkNone {
			return ResultNone
		}
	}
	return ResultTie
}

// Cell is one square of the board.
type Cell struct {
	Mark Mark `json:"mark" msgpack:"mark"`
	Hits int  `json:"hits" msgpack:"hits"`
}

// Board is the 3x3 grid centered in the field, indexed row-major.
type Board struct {
	X, Y  float64
	Size  float64
	Cells [NumCells]Cell
}

func NewBoard() Board {
	return Board{
		X:    (FieldWidth - BoardSize) / 2,
		Y:    (FieldHeight - BoardSize) / 2,
		Size: BoardSize,
	}
}

// Contains reports whether p lies inside the board square.
func (b *Board) Contains(p Vec2) bool {
	return p.X >= b.X && p.X <= b.X+b.Size && p.Y >= b.Y && p.Y <= b.Y+b.Size
}

// CellCenter returns the center of cell i.
func (b *Board) CellCenter(i int) Vec2 {
	col, row := i%3, i/3
	return Vec2{
		X: b.X + (float64(col)+0.5)*CellSize,
		Y: b.Y + (float64(row)+0.5)*CellSize,
	}
}

// CellAt returns the cell under p. Points outside the board or on an
// interior grid line belong to no cell.
func (b *Board) CellAt(p Vec2) (int, bool) {
	if !b.Contains(p) {
		return -1, false
	}
	lx, ly := p.X-b.X, p.Y-b.Y
	for k := 1; k < 3; k++ {
		line := float64(k) * CellSize
		if abs(lx-line) < GridLineHalfWidth || abs(ly-line) < GridLineHalfWidth {
			return -1, false
		}
	}
	col := int(lx / CellSize)
	row := int(ly / CellSize)
	if col > 2 {
		col = 2
	}
	if row > 2 {
		row = 2
	}
	return row*3 + col, true
}

// Place writes m into cell i. Occupied cells are left untouched.
func (b *Board) Place(i int, m Mark) bool {
	if i < 0 || i >= NumCells || m == MarkNone || b.Cells[i].Mark != MarkNone {
		return false
	}
	b.Cells[i] = Cell{Mark: m}
	return true
}

// Hit counts a bounce off cell i and reports whether it evicted the mark.
func (b *Board) Hit(i int) bool {
	if i < 0 || i >= NumCells || b.Cells[i].Mark == MarkNone {
		return false
	}
	b.Cells[i].Hits++
	if b.Cells[i].Hits >= EvictHits {
		b.Evict(i)
		return true
	}
	return false
}

// Evict clears cell i and resets its counter.
func (b *Board) Evict(i int) {
	if i < 0 || i >= NumCells {
		return
	}
	b.Cells[i] = Cell{}
}

// RemoveRandom evicts one randomly chosen cell holding m.
func (b *Board) RemoveRandom(m Mark, rng Rand) (int, bool) {
	var idx []int
	for i, c := range b.Cells {
		if c.Mark == m && m != MarkNone {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return -1, false
	}
	pick := idx[randomIndex(rng, len(idx))]
	b.Evict(pick)
	return pick, true
}

// Marks returns the mark of every cell.
func (b *Board) Marks() [NumCells]Mark {
	var out [NumCells]Mark
	for i, c := range b.Cells {
		out[i] = c.Mark
	}
	return out
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	for _, c := range b.Cells {
		if c.Mark == MarkNone {
			return false
		}
	}
	return true
}

func (b *Board) Clear() {
	b.Cells = [NumCells]Cell{}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
