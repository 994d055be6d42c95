package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/pongtoe/internal/game"
)

// Action is what a key press asks for.
type Action int

const (
	ActionNone Action = iota
	ActionLeftUp
	ActionLeftDown
	ActionRightUp
	ActionRightDown
	ActionPause
	ActionRestart
	ActionToggleAI
	ActionSpawn
	ActionQuit
)

// KeyAction maps a key event to an action.
func KeyAction(ev *tcell.EventKey) Action {
	return keyAction(ev.Key(), ev.Rune())
}

func keyAction(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyUp:
		return ActionRightUp
	case tcell.KeyDown:
		return ActionRightDown
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
	default:
		return ActionNone
	}

	switch r {
	case 'w', 'W':
		return ActionLeftUp
	case 's', 'S':
		return ActionLeftDown
	case ' ':
		return ActionPause
	case 'r', 'R':
		return ActionRestart
	case 'a', 'A':
		return ActionToggleAI
	case 'n', 'N':
		return ActionSpawn
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// Terminals report key presses and repeats but no releases, so a held
// direction lapses unless a repeat arrives within holdWindow.
const holdWindow = 180 * time.Millisecond

type hold struct {
	dir   int
	until time.Time
}

// holds tracks the direction each paddle was last told to move.
type holds [2]hold

func (h *holds) press(side game.Side, dir int, now time.Time) {
	h[side] = hold{dir: dir, until: now.Add(holdWindow)}
}

func (h *holds) release(side game.Side) {
	h[side] = hold{}
}

// current returns the live direction for side, clearing it once lapsed.
func (h *holds) current(side game.Side, now time.Time) int {
	if h[side].dir != 0 && !now.Before(h[side].until) {
		h[side] = hold{}
	}
	return h[side].dir
}
