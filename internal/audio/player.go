// Package audio plays the engine's sound cues as short sine tones.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/pongtoe/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Frequencies in Hz for each cue.
var cueFrequency = map[game.Cue]float64{
	game.CuePaddle:  640,
	game.CueWall:    220,
	game.CuePlace:   520,
	game.CueGeneric: 440,
}

// Frequency returns the tone for a cue. Unknown cues use the generic tone.
func Frequency(c game.Cue) float64 {
	if f, ok := cueFrequency[c]; ok {
		return f
	}
	return cueFrequency[game.CueGeneric]
}

// Player mixes cue tones onto the speaker. Play never blocks the caller;
// before Init, or after a failed Init, it does nothing.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

func NewPlayer(volume float64) *Player {
	if volume < 0 {
		volume = 0
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	log.Printf("[AUDIO] Speaker ready at %d Hz", sampleRate)
	return nil
}

func (p *Player) Play(c game.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.volume == 0 {
		return
	}
	speaker.Lock()
	p.mixer.Add(newTone(Frequency(c), sampleRate, p.volume))
	speaker.Unlock()
}

// Close silences any tones still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Silent discards every cue.
type Silent struct{}

func (Silent) Play(game.Cue) {}

var (
	_ game.Audio = (*Player)(nil)
	_ game.Audio = Silent{}
)
