package game

import "math"

// SelectTarget picks the vertical position the right paddle should center on.
// Approaching tokens still short of the paddle win by remaining distance;
// with none, the nearest token by absolute distance is used; with no tokens
// the paddle returns to the middle of the field.
func SelectTarget(tokens []*Token, paddle Paddle) float64 {
	var best *Token
	bestDist := math.Inf(1)
	for _, t := range tokens {
		if t.Vel.X <= 0 {
			continue
		}
		d := paddle.X - t.Pos.X
		if d < 0 {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best != nil {
		return best.Pos.Y
	}
	for _, t := range tokens {
		d := math.Abs(paddle.X - t.Pos.X)
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best != nil {
		return best.Pos.Y
	}
	return FieldHeight / 2
}

func (w *World) moveAI(frames float64) {
	p := &w.Right
	target := SelectTarget(w.Tokens, *p)
	if w.cfg.AIJitter > 0 {
		target += w.randomRange(-w.cfg.AIJitter, w.cfg.AIJitter)
	}
	diff := (target - p.H/2) - p.Y
	step := p.Speed * frames
	if math.Abs(diff) < step {
		step = math.Abs(diff)
	}
	p.Y += sign(diff) * step
	p.clamp()
}
