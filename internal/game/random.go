package game

import (
	"math/rand"
	"time"
)

// Rand is the source of every random decision the world makes.
type Rand interface {
	Float64() float64
}

// NewRand returns a time-seeded source.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededRand returns a source with a fixed seed for replays.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func (w *World) randomFloat() float64 {
	if w == nil || w.rng == nil {
		return rand.Float64()
	}
	return w.rng.Float64()
}

// randomRange returns a value in [lo, hi).
func (w *World) randomRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + w.randomFloat()*(hi-lo)
}

func randomIndex(rng Rand, n int) int {
	if n <= 1 {
		return 0
	}
	var f float64
	if rng == nil {
		f = rand.Float64()
	} else {
		f = rng.Float64()
	}
	i := int(f * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
