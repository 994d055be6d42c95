package game

import "math"

// updatePlacement snaps slow struck tokens onto the first empty cell whose
// capture square holds their center, then schedules the commit.
func (w *World) updatePlacement() {
	for _, t := range w.Tokens {
		if t.State != TokenFree || !t.WasHit {
			continue
		}
		if t.Speed() > w.cfg.SnapSpeed {
			continue
		}
		i, ok := w.snapCell(t.Pos)
		if !ok {
			continue
		}
		w.snap(t, i)
	}
}

// snapCell scans cells in index order. A cell already claimed by another
// snapping token is skipped.
func (w *World) snapCell(p Vec2) (int, bool) {
	reach := CellSize/2 - w.cfg.SnapInset
	for i := 0; i < NumCells; i++ {
		if w.Board.Cells[i].Mark != MarkNone || w.reserved[i] {
			continue
		}
		c := w.Board.CellCenter(i)
		if math.Abs(p.X-c.X) <= reach && math.Abs(p.Y-c.Y) <= reach {
			return i, true
		}
	}
	return -1, false
}

func (w *World) snap(t *Token, cell int) {
	t.State = TokenSnapping
	t.Cell = cell
	t.Vel = Vec2{}
	t.Pos = w.Board.CellCenter(cell)
	w.reserved[cell] = true

	w.emit(Event{Type: EventSnap, TokenID: t.ID, Cell: cell, Mark: t.Mark})
	w.play(CuePlace)

	id := t.ID
	w.schedule(w.cfg.CommitDelay, func(w *World) {
		w.commit(id, cell)
	})
}

// commit writes the snapped token's mark. The token must still be in play and
// snapping onto the same cell; a cell filled in the meantime is left alone.
func (w *World) commit(id, cell int) {
	w.reserved[cell] = false
	idx, t := w.findToken(id)
	if t == nil || t.State != TokenSnapping || t.Cell != cell {
		return
	}
	w.removeToken(idx)
	if w.GameOver {
		return
	}
	if !w.Board.Place(cell, t.Mark) {
		return
	}
	w.burst(w.Board.CellCenter(cell), string(t.Mark))
	w.emit(Event{Type: EventPlace, TokenID: id, Cell: cell, Mark: t.Mark})

	if r := CheckWinner(w.Board.Marks()); r != ResultNone {
		w.finish(r)
		return
	}
	w.holdSpawnFor()
}

func (w *World) finish(r Result) {
	w.GameOver = true
	w.Result = r
	w.Tally.Record(r)
	w.saveSettings()
	w.emit(Event{Type: EventGameOver, Cell: -1, Result: r})

	text := "Tie game"
	if r != ResultTie {
		text = string(r) + " wins"
	}
	w.notify(NoticeResult, text, ResultNoticeDuration)
}
