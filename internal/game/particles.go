package game

import "math"

// burst emits a fixed-size spray at pos. Bursts past MaxParticles are cut short.
func (w *World) burst(pos Vec2, color string) {
	for k := 0; k < w.cfg.ParticleBurst; k++ {
		if len(w.Particles) >= w.cfg.MaxParticles {
			return
		}
		a := w.randomRange(0, 2*math.Pi)
		s := w.randomRange(0.5, 3)
		w.Particles = append(w.Particles, Particle{
			Pos:    pos,
			Vel:    Vec2{X: math.Cos(a) * s, Y: math.Sin(a) * s},
			Life:   w.randomRange(20, 45),
			Radius: w.randomRange(1.5, 3.5),
			Color:  color,
		})
	}
}

func (w *World) updateParticles(frames float64) {
	kept := w.Particles[:0]
	for _, p := range w.Particles {
		p.Pos = p.Pos.Plus(p.Vel.Times(frames))
		p.Vel.Y += w.cfg.ParticleGravity * frames
		p.Life -= w.cfg.ParticleDecay * frames
		if p.Life > 0 {
			kept = append(kept, p)
		}
	}
	w.Particles = kept
}
