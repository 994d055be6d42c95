package game

import "math"

// updateSpawn keeps the field stocked. An empty field spawns at once; otherwise
// a token is added when there is room and the interval has passed. Spawning
// waits while a post-commit pause is pending.
func (w *World) updateSpawn() {
	if w.spawnHeld {
		return
	}
	n := len(w.Tokens)
	if n == 0 {
		w.spawn()
		return
	}
	if n < w.cfg.MaxTokens && w.clock-w.lastSpawn > w.cfg.SpawnInterval {
		w.spawn()
	}
}

// spawn launches a token from the center toward a random side. Marks
// alternate X, O, X, ... regardless of who later strikes the token.
func (w *World) spawn() *Token {
	dir := 1.0
	if w.randomFloat() < 0.5 {
		dir = -1.0
	}
	angle := w.randomRange(-w.cfg.SpawnSpread, w.cfg.SpawnSpread)
	speed := w.randomRange(w.cfg.SpawnSpeedMin, w.cfg.SpawnSpeedMax)

	w.nextID++
	t := &Token{
		ID:     w.nextID,
		Pos:    Vec2{X: FieldWidth / 2, Y: FieldHeight / 2},
		Vel:    Vec2{X: dir * speed * math.Cos(angle), Y: speed * math.Sin(angle)},
		Radius: TokenRadius,
		Mark:   w.nextMark,
		Cell:   -1,
	}
	w.nextMark = w.nextMark.Other()
	w.Tokens = append(w.Tokens, t)
	w.lastSpawn = w.clock
	w.emit(Event{Type: EventSpawn, TokenID: t.ID, Cell: -1, Mark: t.Mark})
	return t
}

// holdSpawnFor pauses auto-spawn, then spawns once if the match is still on
// and the field has room.
func (w *World) holdSpawnFor() {
	w.spawnHeld = true
	w.schedule(w.cfg.SpawnPause, func(w *World) {
		w.spawnHeld = false
		if w.GameOver || len(w.Tokens) >= w.cfg.MaxTokens {
			return
		}
		w.spawn()
	})
}
