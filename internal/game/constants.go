package game

import (
	"math"
	"time"
)

// Field and entity geometry. Velocities are in field units per frame at
// FrameRate; Step scales them by the elapsed frames.
const (
	FrameRate = 60

	FieldWidth  = 800.0
	FieldHeight = 500.0

	PaddleWidth  = 12.0
	PaddleHeight = 100.0
	PaddleInset  = 20.0
	PaddleSpeed  = 6.0

	TokenRadius = 10.0

	BoardSize = 240.0
	CellSize  = BoardSize / 3
	NumCells  = 9

	// Centers within this distance of an interior grid line are over no cell.
	GridLineHalfWidth = 2.0

	EvictHits = 3
)

// Frame is the duration of one simulation frame.
const Frame = time.Second / FrameRate

// Config holds the tunable parameters of the engine.
type Config struct {
	MaxTokens     int           `json:"max_tokens"`
	SpawnInterval time.Duration `json:"spawn_interval"`
	SpawnSpeedMin float64       `json:"spawn_speed_min"`
	SpawnSpeedMax float64       `json:"spawn_speed_max"`
	SpawnSpread   float64       `json:"spawn_spread"` // radians either side of horizontal

	PaddleBoost  float64 `json:"paddle_boost"`
	PaddleJitter float64 `json:"paddle_jitter"`
	MaxSpeed     float64 `json:"max_speed"`

	Damping    float64 `json:"damping"`
	MinSpeed   float64 `json:"min_speed"`
	SnapSpeed  float64 `json:"snap_speed"`
	SnapInset  float64 `json:"snap_inset"`
	ExitMargin float64 `json:"exit_margin"`

	CommitDelay time.Duration `json:"commit_delay"`
	SpawnPause  time.Duration `json:"spawn_pause"`

	FlashSteps int     `json:"flash_steps"`
	AIJitter   float64 `json:"ai_jitter"`

	ParticleBurst   int     `json:"particle_burst"`
	ParticleGravity float64 `json:"particle_gravity"`
	ParticleDecay   float64 `json:"particle_decay"`
	MaxParticles    int     `json:"max_particles"`
}

// DefaultConfig returns the tuning used by both the server and the terminal client.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     4,
		SpawnInterval: 2500 * time.Millisecond,
		SpawnSpeedMin: 3.5,
		SpawnSpeedMax: 5.0,
		SpawnSpread:   math.Pi / 8,

		PaddleBoost:  0.5,
		PaddleJitter: 1.5,
		MaxSpeed:     11.0,

		Damping:    0.96,
		MinSpeed:   0.8,
		SnapSpeed:  1.5,
		SnapInset:  TokenRadius / 2,
		ExitMargin: 40.0,

		CommitDelay: 250 * time.Millisecond,
		SpawnPause:  600 * time.Millisecond,

		FlashSteps: 8,
		AIJitter:   6.0,

		ParticleBurst:   14,
		ParticleGravity: 0.05,
		ParticleDecay:   1.0,
		MaxParticles:    400,
	}
}
