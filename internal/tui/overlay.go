package tui

import (
	"sort"
	"sync"
	"time"
)

type notice struct {
	text    string
	expires time.Time
}

// Overlay keeps timed notices keyed by kind. A new notice replaces the
// one with the same key.
type Overlay struct {
	mu      sync.Mutex
	notices map[string]notice
	now     func() time.Time
}

func NewOverlay() *Overlay {
	return &Overlay{notices: make(map[string]notice), now: time.Now}
}

func (o *Overlay) Notify(key, text string, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notices[key] = notice{text: text, expires: o.now().Add(d)}
}

// Active returns the texts still showing, ordered by key, and forgets
// expired ones.
func (o *Overlay) Active() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	keys := make([]string, 0, len(o.notices))
	for k, n := range o.notices {
		if !now.Before(n.expires) {
			delete(o.notices, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, o.notices[k].text)
	}
	return out
}
