package game

import (
	"errors"
	"testing"
	"time"
)

func newTestRoom(mode RoomMode) *Room {
	left := &Seat{ID: "alice"}
	var right *Seat
	if mode == ModeVersus {
		right = &Seat{ID: "bob"}
	}
	return NewRoom("room_test", "tok", mode, left, right, testConfig(), &seqRand{vals: []float64{0.5}}, time.Minute)
}

func TestRoomSeatsSides(t *testing.T) {
	r := newTestRoom(ModeVersus)
	if r.Left.Side != "left" || r.Right.Side != "right" {
		t.Errorf("sides = %q/%q", r.Left.Side, r.Right.Side)
	}
	if r.SeatFor("bob") != r.Right || r.SeatFor("eve") != nil {
		t.Error("SeatFor returned the wrong seat")
	}
	if r.Summary().AIEnabled {
		t.Error("versus room has AI enabled")
	}
	if !newTestRoom(ModeAI).Summary().AIEnabled {
		t.Error("AI room has AI disabled")
	}
}

func TestRoomInputErrors(t *testing.T) {
	r := newTestRoom(ModeVersus)

	if err := r.ApplyInput("eve", Input{Type: "move", Dir: 1}); !errors.Is(err, ErrNotSeated) {
		t.Errorf("unseated input: err = %v", err)
	}
	if err := r.ApplyInput("alice", Input{Type: "fly"}); !errors.Is(err, ErrUnknownInput) {
		t.Errorf("unknown input: err = %v", err)
	}
	if err := r.ApplyInput("alice", Input{Type: "toggle_ai"}); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("toggle_ai in versus: err = %v", err)
	}

	r.close()
	if err := r.ApplyInput("alice", Input{Type: "move", Dir: 1}); !errors.Is(err, ErrRoomClosed) {
		t.Errorf("closed room: err = %v", err)
	}
}

func TestRoomWaitsUntilStarted(t *testing.T) {
	r := newTestRoom(ModeAI)
	before := r.Snapshot()

	r.Tick(Frame)
	if r.Snapshot().ClockMs != before.ClockMs {
		t.Error("waiting room advanced")
	}

	if !r.Start() {
		t.Fatal("Start refused a waiting room")
	}
	if r.Start() {
		t.Error("Start accepted twice")
	}
	r.Tick(100 * time.Millisecond)
	if r.Snapshot().ClockMs != 100 {
		t.Errorf("clock = %dms, want 100", r.Snapshot().ClockMs)
	}
	if r.GetStatus() != StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", r.GetStatus())
	}
}

func TestRoomInputsDrivePaddles(t *testing.T) {
	r := newTestRoom(ModeVersus)
	r.Start()

	if err := r.ApplyInput("bob", Input{Type: "pointer", Y: 100}); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyInput("alice", Input{Type: "move", Dir: -1}); err != nil {
		t.Fatal(err)
	}
	r.Tick(Frame)

	s := r.Snapshot()
	if s.Right.Y != 50 {
		t.Errorf("right.Y = %.2f, want 50 from bob's pointer", s.Right.Y)
	}
	if s.Left.Y != 200-PaddleSpeed {
		t.Errorf("left.Y = %.2f, want %.2f from alice's move", s.Left.Y, 200-PaddleSpeed)
	}
}

func TestAIRoomToggleAndRightPaddle(t *testing.T) {
	r := newTestRoom(ModeAI)
	r.Start()

	off := false
	if err := r.ApplyInput("alice", Input{Type: "toggle_ai", On: &off}); err != nil {
		t.Fatal(err)
	}
	if r.Summary().AIEnabled {
		t.Fatal("AI still on")
	}
	if err := r.ApplyInput("alice", Input{Type: "pointer", Side: "right", Y: 450}); err != nil {
		t.Fatal(err)
	}
	r.Tick(Frame)

	if y := r.Snapshot().Right.Y; y != FieldHeight-PaddleHeight {
		t.Errorf("right.Y = %.2f, want %.0f", y, FieldHeight-PaddleHeight)
	}
	f := r.Frame()
	if len(f.Notices) == 0 || f.Notices[0].Key != NoticeAI {
		t.Errorf("notices = %+v, want AI notice", f.Notices)
	}
}

func TestRoomFrameDrainsBuffers(t *testing.T) {
	r := newTestRoom(ModeVersus)
	r.Start()
	r.ApplyInput("alice", Input{Type: "spawn"})
	r.Tick(Frame)

	f1 := r.Frame()
	f2 := r.Frame()

	if f1.Seq != 1 || f2.Seq != 2 {
		t.Errorf("seqs = %d,%d, want 1,2", f1.Seq, f2.Seq)
	}
	if len(f2.Cues) != 0 || len(f2.Events) != 0 || len(f2.Notices) != 0 {
		t.Errorf("second frame not drained: %+v", f2)
	}
	if f1.Room != "tok" || f1.Status != StatusInProgress {
		t.Errorf("frame header = %s/%s", f1.Room, f1.Status)
	}
	if len(f1.State.Tokens) != 2 {
		t.Errorf("tokens in frame = %d, want 2 after manual spawn", len(f1.State.Tokens))
	}
}

func TestRoomCompletesAndRestarts(t *testing.T) {
	r := newTestRoom(ModeVersus)
	r.Start()
	r.mu.Lock()
	r.world.Tokens = nil
	r.world.Board.Place(3, MarkO)
	r.world.Board.Place(4, MarkO)
	slowTokenNearCell(r.world, 100, 5, MarkO)
	r.mu.Unlock()

	for i := 0; i < 30; i++ {
		r.Tick(Frame)
	}

	if r.GetStatus() != StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", r.GetStatus())
	}
	s := r.Summary()
	if s.Result != ResultO || s.Tally.O != 1 {
		t.Errorf("result=%q tally=%+v", s.Result, s.Tally)
	}

	if err := r.ApplyInput("bob", Input{Type: "restart"}); err != nil {
		t.Fatal(err)
	}
	s = r.Summary()
	if s.Status != StatusInProgress || s.MatchNumber != 2 {
		t.Errorf("after restart status=%s match=%d, want IN_PROGRESS 2", s.Status, s.MatchNumber)
	}
	if s.Marks != ([NumCells]Mark{}) {
		t.Error("board not cleared by restart")
	}
}

func TestRoomPauseToggles(t *testing.T) {
	r := newTestRoom(ModeAI)
	r.Start()
	r.ApplyInput("alice", Input{Type: "pause"})
	r.Tick(Frame)
	if r.Snapshot().Running || r.Snapshot().ClockMs != 0 {
		t.Error("paused room advanced")
	}
	r.ApplyInput("alice", Input{Type: "pause"})
	if !r.Snapshot().Running {
		t.Error("second pause did not resume")
	}
}

func TestSeatsReady(t *testing.T) {
	r := newTestRoom(ModeVersus)
	r.SetSeatConnected("alice", true)
	if r.SeatsReady() {
		t.Error("versus room ready with one seat")
	}
	r.SetSeatConnected("bob", true)
	if !r.SeatsReady() {
		t.Error("versus room not ready with both seats")
	}
	r.SetSeatConnected("bob", false)
	if r.SeatsReady() || r.Right.DisconnectedAt == nil {
		t.Error("disconnect not recorded")
	}

	ai := newTestRoom(ModeAI)
	ai.SetSeatConnected("alice", true)
	if !ai.SeatsReady() {
		t.Error("AI room needs only the left seat")
	}
}

func TestRoomCloseOnce(t *testing.T) {
	r := newTestRoom(ModeAI)
	stopped := 0
	r.stop = func() { stopped++ }

	if !r.close() {
		t.Fatal("first close failed")
	}
	if r.close() {
		t.Error("second close succeeded")
	}
	if stopped != 1 || r.GetStatus() != StatusClosed {
		t.Errorf("stopped=%d status=%s", stopped, r.GetStatus())
	}
	r.Restart()
	if r.GetStatus() != StatusClosed {
		t.Error("restart reopened a closed room")
	}
}

type slowStore struct {
	delay time.Duration
	saved chan Settings
}

func (s *slowStore) Load() (Settings, bool) { return Settings{}, false }

func (s *slowStore) Save(st Settings) {
	time.Sleep(s.delay)
	s.saved <- st
}

func TestSlowSettingsStoreDoesNotBlockRoom(t *testing.T) {
	r := newTestRoom(ModeAI)
	store := &slowStore{delay: 300 * time.Millisecond, saved: make(chan Settings, 4)}
	r.AttachSettings(store)
	go r.runJobs()
	defer r.close()

	start := time.Now()
	if err := r.ApplyInput("alice", Input{Type: "toggle_ai"}); err != nil {
		t.Fatalf("toggle_ai: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("toggle_ai took %v, want the save off the caller", elapsed)
	}

	select {
	case st := <-store.saved:
		if st.AIEnabled {
			t.Error("saved AI flag = true, want false after toggle")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("settings never saved")
	}
}

func TestSettingsSavedOnWinDoNotBlockTick(t *testing.T) {
	r := newTestRoom(ModeVersus)
	store := &slowStore{delay: 300 * time.Millisecond, saved: make(chan Settings, 4)}
	r.AttachSettings(store)
	go r.runJobs()
	defer r.close()
	r.Start()

	r.mu.Lock()
	w := r.world
	w.Tokens = nil
	w.Board.Place(0, MarkX)
	w.Board.Place(1, MarkX)
	slowTokenNearCell(w, 100, 2, MarkX)
	r.mu.Unlock()

	var worst time.Duration
	for i := 0; i < 30; i++ {
		start := time.Now()
		r.Tick(Frame)
		if d := time.Since(start); d > worst {
			worst = d
		}
	}

	if r.GetStatus() != StatusCompleted {
		t.Fatalf("status = %s, want completed", r.GetStatus())
	}
	if worst > 100*time.Millisecond {
		t.Errorf("worst tick = %v, want the save off the tick", worst)
	}
	select {
	case st := <-store.saved:
		if st.Tally.X != 1 {
			t.Errorf("saved tally = %+v, want one X win", st.Tally)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("settings never saved")
	}
}
