package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/pongtoe/internal/game"
)

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

var (
	styleField   = tcell.StyleDefault
	styleGrid    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePaddle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleX       = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleO       = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleCracked = tcell.StyleDefault.Dim(true)
)

func markStyle(m game.Mark) tcell.Style {
	if m == game.MarkO {
		return styleO
	}
	return styleX
}

func particleStyle(color string) tcell.Style {
	switch color {
	case game.ColorEvict:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	case game.ColorRemove:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
}

// Render draws one frame of the snapshot, the active notices and a status line.
func Render(c Canvas, snap game.Snapshot, notices []string) {
	cols, rows := c.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	v := Viewport{Cols: cols, Rows: rows}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c.SetContent(x, y, ' ', nil, styleField)
		}
	}

	drawBoard(c, v, snap)
	drawPaddle(c, v, snap.Left)
	drawPaddle(c, v, snap.Right)

	for _, p := range snap.Particles {
		col, row := v.ToCell(p.Pos.X, p.Pos.Y)
		r := '·'
		if p.Life > 0.5 {
			r = '*'
		}
		c.SetContent(col, row, r, nil, particleStyle(p.Color))
	}

	for _, t := range snap.Tokens {
		col, row := v.ToCell(t.Pos.X, t.Pos.Y)
		st := markStyle(t.Mark)
		if t.Flash > 0 || t.Snapping {
			st = st.Reverse(true)
		}
		r := 'o'
		if t.Mark != game.MarkNone {
			r = []rune(string(t.Mark))[0]
		}
		c.SetContent(col, row, r, nil, st)
	}

	for i, text := range notices {
		if i >= v.fieldRows() {
			break
		}
		drawText(c, (cols-len([]rune(text)))/2, 1+i, text, styleNotice)
	}

	status := StatusLine(snap)
	for x := 0; x < cols; x++ {
		c.SetContent(x, rows-1, ' ', nil, styleStatus)
	}
	drawText(c, 0, rows-1, status, styleStatus)
}

func drawBoard(c Canvas, v Viewport, snap game.Snapshot) {
	x0, y0 := v.ToCell(snap.BoardX, snap.BoardY)
	x1, y1 := v.ToCell(snap.BoardX+snap.BoardSize, snap.BoardY+snap.BoardSize-0.001)
	third := snap.BoardSize / 3

	// Interior grid lines.
	for i := 1; i < 3; i++ {
		gx, _ := v.ToCell(snap.BoardX+third*float64(i), 0)
		_, gy := v.ToCell(0, snap.BoardY+third*float64(i))
		for y := y0; y <= y1; y++ {
			c.SetContent(gx, y, '│', nil, styleGrid)
		}
		for x := x0; x <= x1; x++ {
			r := '─'
			if x == gxAt(v, snap, 1) || x == gxAt(v, snap, 2) {
				r = '┼'
			}
			c.SetContent(x, gy, r, nil, styleGrid)
		}
	}

	for i, cell := range snap.Cells {
		if cell.Mark == game.MarkNone {
			continue
		}
		cx := snap.BoardX + third*(float64(i%3)+0.5)
		cy := snap.BoardY + third*(float64(i/3)+0.5)
		col, row := v.ToCell(cx, cy)
		st := markStyle(cell.Mark)
		if cell.Hits > 0 {
			st = st.Bold(false)
		}
		c.SetContent(col, row, []rune(string(cell.Mark))[0], nil, st)
		if cell.Hits > 0 && col+1 <= x1 {
			c.SetContent(col+1, row, rune('0'+cell.Hits), nil, styleCracked)
		}
	}
}

func gxAt(v Viewport, snap game.Snapshot, i int) int {
	gx, _ := v.ToCell(snap.BoardX+snap.BoardSize/3*float64(i), 0)
	return gx
}

func drawPaddle(c Canvas, v Viewport, p game.Paddle) {
	col, _ := v.ToCell(p.X+p.W/2, 0)
	top, bottom := v.Span(p.Y, p.Y+p.H)
	for y := top; y <= bottom; y++ {
		c.SetContent(col, y, '█', nil, stylePaddle)
	}
}

func drawText(c Canvas, x, y int, text string, st tcell.Style) {
	if x < 0 {
		x = 0
	}
	for i, r := range []rune(text) {
		c.SetContent(x+i, y, r, nil, st)
	}
}

// StatusLine summarises the tally and mode for the bottom row.
func StatusLine(snap game.Snapshot) string {
	parts := []string{
		fmt.Sprintf("X %d  O %d  ties %d", snap.Tally.X, snap.Tally.O, snap.Tally.Ties),
	}
	if snap.AIEnabled {
		parts = append(parts, "AI on")
	} else {
		parts = append(parts, "AI off")
	}
	if !snap.Running {
		parts = append(parts, "PAUSED")
	}
	if snap.GameOver {
		parts = append(parts, "r: new match")
	}
	parts = append(parts, "w/s ↑/↓ move  space pause  a AI  n spawn  q quit")
	return " " + strings.Join(parts, " | ")
}
