package game

import "testing"

// slowTokenNearCell returns a struck token just off the center of cell i,
// drifting slowly enough to snap on the next step.
func slowTokenNearCell(w *World, id, cell int, mark Mark) *Token {
	c := w.Board.CellCenter(cell)
	return addToken(w, id, NewVec2(c.X+3, c.Y), NewVec2(0.5, 0), mark, true)
}

func TestSnapCentersTokenAndDefersCommit(t *testing.T) {
	w, audio, _ := newTestWorld()
	tok := slowTokenNearCell(w, 100, 4, MarkX)

	ev := w.Step(Frame)

	if tok.State != TokenSnapping || tok.Cell != 4 {
		t.Fatalf("state=%v cell=%d, want snapping onto 4", tok.State, tok.Cell)
	}
	if tok.Pos != w.Board.CellCenter(4) || !tok.Vel.IsZero() {
		t.Errorf("token at %+v vel %+v, want centered and still", tok.Pos, tok.Vel)
	}
	if !hasEvent(ev, EventSnap) || !audio.has(CuePlace) {
		t.Error("snap produced no event or place cue")
	}
	if w.Board.Cells[4].Mark != MarkNone {
		t.Error("mark written before the commit delay")
	}

	ev = stepN(w, 30)

	if w.Board.Cells[4].Mark != MarkX {
		t.Errorf("cell 4 = %q, want X after commit", w.Board.Cells[4].Mark)
	}
	if _, found := w.findToken(100); found != nil {
		t.Error("committed token still in play")
	}
	if !hasEvent(ev, EventPlace) {
		t.Error("no place event")
	}
}

func TestFastTokenDoesNotSnap(t *testing.T) {
	w, _, _ := newTestWorld()
	c := w.Board.CellCenter(4)
	tok := addToken(w, 1, NewVec2(c.X, c.Y-30), NewVec2(0, 4), MarkX, true)

	w.Step(Frame)

	if tok.State != TokenFree {
		t.Error("fast token snapped")
	}
}

func TestUnstruckTokenDoesNotSnap(t *testing.T) {
	w, _, _ := newTestWorld()
	c := w.Board.CellCenter(0)
	tok := addToken(w, 1, NewVec2(c.X+1, c.Y), NewVec2(0.2, 0), MarkX, false)

	w.Step(Frame)

	if tok.State != TokenFree {
		t.Error("token that never touched a paddle snapped")
	}
}

func TestCommitSkipsCellFilledDuringDelay(t *testing.T) {
	w, _, _ := newTestWorld()
	slowTokenNearCell(w, 100, 4, MarkX)
	w.Step(Frame)

	// The cell fills while the commit is pending.
	w.Board.Cells[4] = Cell{Mark: MarkO}
	ev := stepN(w, 20)

	if w.Board.Cells[4].Mark != MarkO {
		t.Errorf("cell 4 = %q, want O kept", w.Board.Cells[4].Mark)
	}
	if hasEvent(ev, EventPlace) {
		t.Error("place event for an occupied cell")
	}
	if _, found := w.findToken(100); found != nil {
		t.Error("token survived a failed commit")
	}
}

func TestCommitAfterResetIsDropped(t *testing.T) {
	w, _, _ := newTestWorld()
	slowTokenNearCell(w, 100, 4, MarkX)
	w.Step(Frame)

	w.Reset()
	stepN(w, 30)

	if w.Board.Cells[4].Mark != MarkNone {
		t.Errorf("stale commit wrote %q after reset", w.Board.Cells[4].Mark)
	}
}

func TestSecondTokenCannotClaimReservedCell(t *testing.T) {
	w, _, _ := newTestWorld()
	first := slowTokenNearCell(w, 1, 4, MarkX)
	w.Step(Frame)

	second := slowTokenNearCell(w, 2, 4, MarkO)
	w.Step(Frame)

	if first.State != TokenSnapping {
		t.Fatal("first token lost its snap")
	}
	if second.State == TokenSnapping && second.Cell == 4 {
		t.Error("second token snapped onto a reserved cell")
	}
}

func TestWinningCommitEndsMatch(t *testing.T) {
	w, _, overlay := newTestWorld()
	store := &memoryStore{}
	w.AttachSettings(store)
	w.Board.Place(0, MarkX)
	w.Board.Place(1, MarkX)
	slowTokenNearCell(w, 100, 2, MarkX)

	ev := stepN(w, 30)

	if !w.GameOver || w.Result != ResultX {
		t.Fatalf("gameOver=%v result=%q, want X win", w.GameOver, w.Result)
	}
	if !hasEvent(ev, EventGameOver) {
		t.Error("no game_over event")
	}
	if w.Tally.X != 1 || store.saved.Tally.X != 1 {
		t.Errorf("tally=%+v saved=%+v, want one X win recorded", w.Tally, store.saved.Tally)
	}
	found := false
	for i, k := range overlay.keys {
		if k == NoticeResult && overlay.texts[i] == "X wins" {
			found = true
		}
	}
	if !found {
		t.Errorf("overlay = %v, want result notice", overlay.texts)
	}
}

func TestNoProgressWhileGameOver(t *testing.T) {
	w, _, _ := newTestWorld()
	w.Board.Place(0, MarkX)
	w.Board.Place(1, MarkX)
	slowTokenNearCell(w, 100, 2, MarkX)
	stepN(w, 30)
	if !w.GameOver {
		t.Fatal("match did not end")
	}

	tok := addToken(w, 5, NewVec2(100, 100), NewVec2(3, 0), MarkO, false)
	board := w.Board.Cells
	stepN(w, 300)

	if len(w.Tokens) != 1 || tok.Pos != NewVec2(100, 100) {
		t.Errorf("tokens=%d pos=%+v, want nothing moving or spawning", len(w.Tokens), tok.Pos)
	}
	if w.Board.Cells != board {
		t.Error("board changed during game over")
	}
}

func TestRestartDuringGameOver(t *testing.T) {
	w, _, _ := newTestWorld()
	w.Board.Place(0, MarkX)
	w.Board.Place(1, MarkX)
	slowTokenNearCell(w, 100, 2, MarkX)
	stepN(w, 30)

	ev := w.Restart()

	if w.GameOver || w.Result != ResultNone {
		t.Error("restart left the match over")
	}
	if w.Board.Marks() != ([NumCells]Mark{}) {
		t.Errorf("board not cleared: %v", w.Board.Marks())
	}
	if len(w.Tokens) != 1 {
		t.Errorf("tokens = %d, want one initial spawn", len(w.Tokens))
	}
	if !hasEvent(ev, EventReset) || !hasEvent(ev, EventSpawn) {
		t.Errorf("restart events = %+v", ev)
	}
}
