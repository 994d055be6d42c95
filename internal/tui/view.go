package tui

import "github.com/playmatatu/pongtoe/internal/game"

// Viewport maps the field onto a terminal grid. The bottom row is kept for
// the status line.
type Viewport struct {
	Cols, Rows int
}

func (v Viewport) fieldRows() int {
	if v.Rows <= 1 {
		return 1
	}
	return v.Rows - 1
}

func (v Viewport) cols() int {
	if v.Cols <= 0 {
		return 1
	}
	return v.Cols
}

// ToCell converts field coordinates to a column and row.
func (v Viewport) ToCell(x, y float64) (int, int) {
	col := int(x / game.FieldWidth * float64(v.cols()))
	row := int(y / game.FieldHeight * float64(v.fieldRows()))
	return clampInt(col, 0, v.cols()-1), clampInt(row, 0, v.fieldRows()-1)
}

// ToField converts a column and row to the field point at the cell's center.
func (v Viewport) ToField(col, row int) (float64, float64) {
	x := (float64(col) + 0.5) / float64(v.cols()) * game.FieldWidth
	y := (float64(row) + 0.5) / float64(v.fieldRows()) * game.FieldHeight
	return x, y
}

// Span returns the first and last row covered by the field interval [y0, y1].
func (v Viewport) Span(y0, y1 float64) (int, int) {
	_, top := v.ToCell(0, y0)
	_, bottom := v.ToCell(0, y1-0.001)
	return top, bottom
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
