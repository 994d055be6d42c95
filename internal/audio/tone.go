package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	floorGain = 0.0001
	peakGain  = 0.12

	attack   = 10 * time.Millisecond
	decayEnd = 120 * time.Millisecond
	toneLen  = 140 * time.Millisecond
)

// tone is a sine oscillator shaped by an exponential attack/decay ramp.
type tone struct {
	freq   float64
	rate   beep.SampleRate
	volume float64

	pos     int
	total   int
	attackN int
	decayN  int
	phase   float64
}

func newTone(freq float64, rate beep.SampleRate, volume float64) *tone {
	return &tone{
		freq:    freq,
		rate:    rate,
		volume:  volume,
		total:   rate.N(toneLen),
		attackN: rate.N(attack),
		decayN:  rate.N(decayEnd),
	}
}

// gain returns the envelope level at sample i.
func (t *tone) gain(i int) float64 {
	switch {
	case i <= t.attackN:
		if t.attackN == 0 {
			return peakGain
		}
		return ramp(floorGain, peakGain, float64(i)/float64(t.attackN))
	case i <= t.decayN:
		return ramp(peakGain, floorGain, float64(i-t.attackN)/float64(t.decayN-t.attackN))
	default:
		return floorGain
	}
}

// ramp interpolates exponentially from a to b as f goes from 0 to 1.
func ramp(a, b, f float64) float64 {
	return a * math.Pow(b/a, f)
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		v := math.Sin(2*math.Pi*t.phase) * t.gain(t.pos) * t.volume
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
