package game

import "math"

// updateTokens integrates every free token and resolves collisions in a fixed
// order: walls, paddles, board interior, then the field exits.
func (w *World) updateTokens(frames float64) {
	for i := 0; i < len(w.Tokens); {
		t := w.Tokens[i]
		if t.State == TokenSnapping {
			i++
			continue
		}
		prev := t.Pos
		t.Pos = t.Pos.Plus(t.Vel.Times(frames))

		w.reflectWalls(t)
		w.collidePaddle(t, prev, SideLeft)
		w.collidePaddle(t, prev, SideRight)
		if t.WasHit && w.Board.Contains(t.Pos) {
			w.boardInterior(t)
		}
		if w.exitField(t) {
			w.removeToken(i)
			continue
		}
		i++
	}
}

func (w *World) reflectWalls(t *Token) {
	switch {
	case t.Pos.Y-t.Radius <= 0:
		t.Vel.Y = math.Abs(t.Vel.Y)
	case t.Pos.Y+t.Radius >= FieldHeight:
		t.Vel.Y = -math.Abs(t.Vel.Y)
	default:
		return
	}
	t.Pos.Y = Clamp(t.Pos.Y, t.Radius, FieldHeight-t.Radius)
	w.emit(Event{Type: EventWall, TokenID: t.ID, Cell: -1})
	w.play(CueWall)
}

// collidePaddle strikes t off the paddle on side when its leading edge entered
// the paddle slab during the move from prev, and its center was within the
// paddle's height where the edge crossed the face. The striking side decides
// the token's mark.
func (w *World) collidePaddle(t *Token, prev Vec2, side Side) {
	p := &w.Left
	if side == SideRight {
		p = &w.Right
	}
	var lead, prevLead, face, out float64
	if side == SideLeft {
		face = p.X + p.W
		lead, prevLead = t.Pos.X-t.Radius, prev.X-t.Radius
		if lead > face || prevLead <= p.X {
			return
		}
		out = 1
	} else {
		face = p.X
		lead, prevLead = t.Pos.X+t.Radius, prev.X+t.Radius
		if lead < face || prevLead >= p.X+p.W {
			return
		}
		out = -1
	}

	y := t.Pos.Y
	if crossed := (prevLead - face) * (lead - face); crossed < 0 {
		f := (prevLead - face) / (prevLead - lead)
		y = prev.Y + f*(t.Pos.Y-prev.Y)
	}
	if y < p.Y || y > p.Y+p.H {
		return
	}
	t.Pos.X = face + out*t.Radius
	t.Pos.Y = Clamp(y, t.Radius, FieldHeight-t.Radius)

	speed := math.Min(math.Abs(t.Vel.X)+w.cfg.PaddleBoost, w.cfg.MaxSpeed)
	t.Vel.X = out * speed
	t.Vel.Y += w.randomRange(-w.cfg.PaddleJitter, w.cfg.PaddleJitter)
	t.Vel.Y = Clamp(t.Vel.Y, -w.cfg.MaxSpeed, w.cfg.MaxSpeed)

	t.WasHit = true
	t.Mark = side.Mark()
	t.Flash = w.cfg.FlashSteps

	w.burst(t.Pos, ColorPaddle)
	w.emit(Event{Type: EventPaddle, TokenID: t.ID, Cell: -1, Mark: t.Mark})
	w.play(CuePaddle)
}

// boardInterior slows a struck token crossing empty cells and bounces it off
// occupied ones. Every bounce counts as a hit on the cell.
func (w *World) boardInterior(t *Token) {
	i, ok := w.Board.CellAt(t.Pos)
	if !ok || w.Board.Cells[i].Mark == MarkNone {
		t.Vel = t.Vel.Times(w.cfg.Damping)
		if s := t.Vel.Magnitude(); s > 0 && s < w.cfg.MinSpeed {
			t.Vel = t.Vel.Times(w.cfg.MinSpeed / s)
		}
		return
	}

	c := w.Board.CellCenter(i)
	dx, dy := t.Pos.X-c.X, t.Pos.Y-c.Y
	half := CellSize/2 + 0.5
	// Push the token out of the cell so one entry counts as one hit.
	if math.Abs(dx) > math.Abs(dy) {
		t.Vel.X = sign(dx) * math.Abs(t.Vel.X)
		t.Pos.X = c.X + sign(dx)*half
	} else {
		t.Vel.Y = sign(dy) * math.Abs(t.Vel.Y)
		t.Pos.Y = c.Y + sign(dy)*half
	}

	mark := w.Board.Cells[i].Mark
	w.emit(Event{Type: EventBounce, TokenID: t.ID, Cell: i, Mark: mark})
	if w.Board.Hit(i) {
		w.burst(c, ColorEvict)
		w.emit(Event{Type: EventEvict, TokenID: t.ID, Cell: i, Mark: mark})
		w.play(CuePlace)
	}
}

// exitField reports whether t left the field. A token lost past the left
// margin costs the left side one X; past the right margin, one O.
func (w *World) exitField(t *Token) bool {
	var lost Mark
	switch {
	case t.Pos.X < -w.cfg.ExitMargin:
		lost = MarkX
	case t.Pos.X > FieldWidth+w.cfg.ExitMargin:
		lost = MarkO
	default:
		return false
	}
	w.emit(Event{Type: EventExit, TokenID: t.ID, Cell: -1, Mark: t.Mark})
	if i, ok := w.Board.RemoveRandom(lost, w.rng); ok {
		w.burst(w.Board.CellCenter(i), ColorRemove)
		w.emit(Event{Type: EventRemoveMark, Cell: i, Mark: lost})
		w.notify(NoticeRemove, string(lost)+" loses a mark", RemoveNoticeDuration)
	}
	w.play(CueGeneric)
	return true
}
