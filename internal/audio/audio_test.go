package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/playmatatu/pongtoe/internal/game"
)

func TestCueFrequencies(t *testing.T) {
	cases := map[game.Cue]float64{
		game.CuePaddle:  640,
		game.CueWall:    220,
		game.CuePlace:   520,
		game.CueGeneric: 440,
		game.Cue("odd"): 440,
	}
	for cue, want := range cases {
		if got := Frequency(cue); got != want {
			t.Errorf("Frequency(%s) = %v, want %v", cue, got, want)
		}
	}
}

func TestToneEnvelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	tn := newTone(440, rate, 1)

	if g := tn.gain(0); math.Abs(g-floorGain) > 1e-12 {
		t.Errorf("start gain = %v, want %v", g, floorGain)
	}
	if g := tn.gain(tn.attackN); math.Abs(g-peakGain) > 1e-12 {
		t.Errorf("peak gain = %v, want %v", g, peakGain)
	}
	if g := tn.gain(tn.decayN); math.Abs(g-floorGain) > 1e-12 {
		t.Errorf("decayed gain = %v, want %v", g, floorGain)
	}
	if !(tn.gain(5) < tn.gain(10) && tn.gain(60) < tn.gain(20)) {
		t.Error("envelope does not rise then fall")
	}
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(1000)
	tn := newTone(520, rate, 1)

	buf := make([][2]float64, 64)
	total := 0
	for {
		n, ok := tn.Stream(buf)
		for i := 0; i < n; i++ {
			if math.Abs(buf[i][0]) > peakGain+1e-9 || buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d = %v out of range", total+i, buf[i])
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if want := rate.N(toneLen); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if tn.Err() != nil {
		t.Error("unexpected error")
	}
}

func TestPlayBeforeInitIsNoop(t *testing.T) {
	p := NewPlayer(1)
	p.Play(game.CuePaddle)
	if p.mixer.Len() != 0 {
		t.Error("tone queued without a speaker")
	}
	p.Close()
	Silent{}.Play(game.CueWall)
}
