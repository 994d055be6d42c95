package game

import (
	"reflect"
	"testing"
)

func TestPauseFreezesWorld(t *testing.T) {
	w, _, _ := newTestWorld()
	addToken(w, 1, NewVec2(200, 100), NewVec2(3, 2), MarkX, false)
	stepN(w, 5)

	if w.TogglePause() {
		t.Fatal("TogglePause reported running")
	}
	before := w.Snapshot()
	for i := 0; i < 120; i++ {
		if ev := w.Step(Frame); ev != nil {
			t.Fatalf("paused step returned events %+v", ev)
		}
	}
	if after := w.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("world changed while paused")
	}

	if !w.TogglePause() {
		t.Fatal("TogglePause did not resume")
	}
	clock := w.Clock()
	w.Step(Frame)
	if w.Clock() != clock+Frame {
		t.Errorf("clock = %v, want %v after resume", w.Clock(), clock+Frame)
	}
}

func TestStepIgnoresNonPositiveDelta(t *testing.T) {
	w, _, _ := newTestWorld()
	if ev := w.Step(0); ev != nil || w.Clock() != 0 {
		t.Errorf("Step(0) advanced the world: events=%v clock=%v", ev, w.Clock())
	}
}

func TestPaddleIntentClamped(t *testing.T) {
	w, _, _ := newTestWorld()

	w.SetIntent(SideLeft, -3)
	stepN(w, 100)
	if w.Left.Y != 0 {
		t.Errorf("left.Y = %.2f, want 0 at the top wall", w.Left.Y)
	}

	w.SetIntent(SideLeft, 5)
	w.Step(Frame)
	if w.Left.Y != w.Left.Speed {
		t.Errorf("left.Y = %.2f after one step down, want %.2f", w.Left.Y, w.Left.Speed)
	}
	stepN(w, 100)
	if w.Left.Y != FieldHeight-w.Left.H {
		t.Errorf("left.Y = %.2f, want clamped at %.0f", w.Left.Y, FieldHeight-w.Left.H)
	}
}

func TestPointerCentersPaddle(t *testing.T) {
	w, _, _ := newTestWorld()

	w.SetPointer(SideRight, 120)
	w.Step(Frame)
	if w.Right.Y != 70 {
		t.Errorf("right.Y = %.2f, want 70", w.Right.Y)
	}
	if w.Right.CenterY() != 120 {
		t.Errorf("right center = %.2f, want 120", w.Right.CenterY())
	}

	w.SetPointer(SideLeft, 5)
	w.Step(Frame)
	if w.Left.Y != 0 {
		t.Errorf("left.Y = %.2f, want clamped to 0", w.Left.Y)
	}
}

func TestSettingsLoadedAndSaved(t *testing.T) {
	store := &memoryStore{
		saved:  Settings{AIEnabled: false, Tally: Tally{X: 2, O: 1}},
		loaded: true,
	}
	w := NewWorld(testConfig(), &seqRand{})
	overlay := &recordingOverlay{}
	w.SetOverlay(overlay)
	w.AttachSettings(store)

	if w.AIEnabled || w.Tally.X != 2 || w.Tally.O != 1 {
		t.Fatalf("loaded ai=%v tally=%+v", w.AIEnabled, w.Tally)
	}

	if !w.ToggleAI() {
		t.Fatal("ToggleAI did not enable AI")
	}
	if store.saves != 1 || !store.saved.AIEnabled || store.saved.Tally.X != 2 {
		t.Errorf("saved %+v after %d saves", store.saved, store.saves)
	}
	if len(overlay.texts) != 1 || overlay.texts[0] != "AI on" {
		t.Errorf("overlay = %v, want AI on notice", overlay.texts)
	}
}

func TestEmptyStoreKeepsDefaults(t *testing.T) {
	w := NewWorld(testConfig(), &seqRand{})
	w.AttachSettings(&memoryStore{})
	if !w.AIEnabled {
		t.Error("AI disabled by an empty store")
	}
}

func TestResetClearsMatchState(t *testing.T) {
	w, _, _ := newTestWorld()
	w.Board.Place(0, MarkX)
	w.burst(NewVec2(100, 100), ColorPaddle)
	slowTokenNearCell(w, 100, 4, MarkO)
	w.Step(Frame)
	if w.PendingActions() == 0 {
		t.Fatal("snap scheduled no commit")
	}

	w.Reset()

	if w.PendingActions() != 0 {
		t.Errorf("pending = %d after reset, want 0", w.PendingActions())
	}
	if w.reserved != ([NumCells]bool{}) {
		t.Error("cell reservations survived reset")
	}
	if len(w.Particles) != 0 || countMarks(&w.Board, MarkX) != 0 {
		t.Error("particles or marks survived reset")
	}
	if len(w.Tokens) != 1 || w.Tokens[0].ID == 100 {
		t.Errorf("tokens after reset = %d, want one fresh spawn", len(w.Tokens))
	}
}

func TestParticlesCappedAndExpire(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticles = 20
	w := NewWorld(cfg, &seqRand{vals: []float64{0.5}})

	w.burst(NewVec2(10, 10), ColorPaddle)
	w.burst(NewVec2(10, 10), ColorPaddle)
	if len(w.Particles) != 20 {
		t.Fatalf("particles = %d, want capped at 20", len(w.Particles))
	}

	// Life is 32.5 frames with a constant 0.5 source.
	w.updateParticles(32)
	if len(w.Particles) != 20 {
		t.Errorf("particles = %d after 32 frames, want all alive", len(w.Particles))
	}
	w.updateParticles(1)
	if len(w.Particles) != 0 {
		t.Errorf("particles = %d, want all expired", len(w.Particles))
	}
}

func TestParticlesAgeDuringGameOver(t *testing.T) {
	w, _, _ := newTestWorld()
	w.GameOver = true
	w.burst(NewVec2(100, 100), ColorPaddle)
	n := len(w.Particles)

	stepN(w, 60)

	if n == 0 || len(w.Particles) != 0 {
		t.Errorf("particles %d -> %d, want all expired", n, len(w.Particles))
	}
}
