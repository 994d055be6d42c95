// Package tui runs a local world in the terminal.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/pongtoe/internal/game"
)

const (
	frameInterval = time.Second / game.FrameRate
	maxStep       = 100 * time.Millisecond
)

// App drives a World from terminal input and draws it each frame.
type App struct {
	screen  tcell.Screen
	world   *game.World
	overlay *Overlay
	holds   holds
	now     func() time.Time
}

// New wires the world's overlay to the app. The caller owns the screen and
// any audio attached to the world.
func New(screen tcell.Screen, w *game.World) *App {
	a := &App{
		screen:  screen,
		world:   w,
		overlay: NewOverlay(),
		now:     time.Now,
	}
	w.SetOverlay(a.overlay)
	return a
}

// HandleEvent applies one terminal event and reports whether to keep running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(KeyAction(ev))
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(act Action) bool {
	now := a.now()
	switch act {
	case ActionLeftUp:
		a.holds.press(game.SideLeft, -1, now)
	case ActionLeftDown:
		a.holds.press(game.SideLeft, 1, now)
	case ActionRightUp:
		a.holds.press(game.SideRight, -1, now)
	case ActionRightDown:
		a.holds.press(game.SideRight, 1, now)
	case ActionPause:
		a.world.TogglePause()
	case ActionRestart:
		a.world.Reset()
	case ActionToggleAI:
		a.world.ToggleAI()
		a.holds.release(game.SideRight)
	case ActionSpawn:
		a.world.SpawnManual()
	case ActionQuit:
		return false
	}
	return true
}

// handleMouse centers the paddle on the pointer while the button is held.
// The left half of the screen drives the left paddle.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	col, row := ev.Position()
	a.pointer(col, row)
}

func (a *App) pointer(col, row int) {
	cols, rows := a.screen.Size()
	side, y := pointerTarget(Viewport{Cols: cols, Rows: rows}, col, row)
	a.holds.release(side)
	a.world.SetPointer(side, y)
}

// pointerTarget picks the paddle for a screen position and the field Y to
// center it on.
func pointerTarget(v Viewport, col, row int) (game.Side, float64) {
	x, y := v.ToField(col, row)
	if x >= game.FieldWidth/2 {
		return game.SideRight, y
	}
	return game.SideLeft, y
}

// tick pushes held directions into the world, steps it and redraws.
func (a *App) tick(dt time.Duration) {
	now := a.now()
	for _, side := range []game.Side{game.SideLeft, game.SideRight} {
		a.world.SetIntent(side, a.holds.current(side, now))
	}
	if dt > maxStep {
		dt = maxStep
	}
	a.world.Step(dt)
	Render(a.screen, a.world.Snapshot(), a.overlay.Active())
	a.screen.Show()
}

// Run loops at the frame rate until the context ends or the player quits.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := a.now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			now := a.now()
			a.tick(now.Sub(last))
			last = now
		}
	}
}
