package game

import (
	"sort"
	"time"
)

// delayedAction runs against the world once the world clock reaches fireAt.
// Actions from an earlier match generation are dropped.
type delayedAction struct {
	fireAt     time.Duration
	generation int
	seq        int
	run        func(w *World)
}

func (w *World) schedule(after time.Duration, run func(w *World)) {
	w.seq++
	w.pending = append(w.pending, delayedAction{
		fireAt:     w.clock + after,
		generation: w.generation,
		seq:        w.seq,
		run:        run,
	})
}

// runDue fires every action whose time has come, oldest first.
func (w *World) runDue() {
	if len(w.pending) == 0 {
		return
	}
	var due []delayedAction
	kept := w.pending[:0]
	for _, a := range w.pending {
		if a.generation != w.generation {
			continue
		}
		if a.fireAt <= w.clock {
			due = append(due, a)
		} else {
			kept = append(kept, a)
		}
	}
	w.pending = kept
	sort.Slice(due, func(i, j int) bool {
		if due[i].fireAt == due[j].fireAt {
			return due[i].seq < due[j].seq
		}
		return due[i].fireAt < due[j].fireAt
	})
	for _, a := range due {
		if a.generation != w.generation {
			continue
		}
		a.run(w)
	}
}

// PendingActions is the number of scheduled actions not yet fired.
func (w *World) PendingActions() int {
	return len(w.pending)
}
