package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/pongtoe/internal/audio"
	"github.com/playmatatu/pongtoe/internal/game"
	"github.com/playmatatu/pongtoe/internal/settings"
	"github.com/playmatatu/pongtoe/internal/tui"
)

func main() {
	settingsPath := flag.String("settings", settings.DefaultPath(), "TOML file holding the AI flag and tally")
	logPath := flag.String("log", "", "write logs to this file (discarded when empty)")
	mute := flag.Bool("mute", false, "disable sound")
	volume := flag.Float64("volume", 1, "cue volume from 0 to 1")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	maxTokens := flag.Int("max-tokens", 0, "tokens allowed in play (0 keeps the default)")
	spawnMs := flag.Int("spawn-ms", 0, "automatic spawn interval in ms (0 keeps the default)")
	flag.Parse()

	// The terminal belongs to the renderer, so logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := game.DefaultConfig()
	if *maxTokens > 0 {
		cfg.MaxTokens = *maxTokens
	}
	if *spawnMs > 0 {
		cfg.SpawnInterval = time.Duration(*spawnMs) * time.Millisecond
	}

	rng := game.NewRand()
	if *seed != 0 {
		rng = game.NewSeededRand(*seed)
	}
	world := game.NewWorld(cfg, rng)
	world.AttachSettings(settings.NewFileStore(*settingsPath))

	if !*mute {
		player := audio.NewPlayer(*volume)
		if err := player.Init(); err != nil {
			log.Printf("[AUDIO] Sound disabled: %v", err)
		} else {
			defer player.Close()
			world.SetAudio(player)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[PLAY] Starting (settings=%s ai=%v)", *settingsPath, world.AIEnabled)
	if err := tui.New(screen, world).Run(ctx); err != nil {
		log.Printf("[PLAY] Exited with error: %v", err)
	}
}
