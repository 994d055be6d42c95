package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playmatatu/pongtoe/internal/game"
)

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "none.toml"))
	if _, ok := fs.Load(); ok {
		t.Error("missing file reported as saved")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	fs := NewFileStore(path)
	want := game.Settings{AIEnabled: true, Tally: game.Tally{X: 3, O: 1, Ties: 2}}

	fs.Save(want)

	got, ok := fs.Load()
	if !ok {
		t.Fatal("saved settings not loaded")
	}
	if got != want {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "ai_enabled = true") {
		t.Errorf("file content:\n%s", raw)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("ai_enabled = = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := NewFileStore(path).Load(); ok {
		t.Error("corrupt file loaded")
	}
}

func TestFileStoreFeedsWorld(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "s.toml"))
	fs.Save(game.Settings{AIEnabled: false, Tally: game.Tally{O: 4}})

	w := game.NewWorld(game.DefaultConfig(), game.NewSeededRand(1))
	w.AttachSettings(fs)
	if w.AIEnabled || w.Tally.O != 4 {
		t.Fatalf("world ai=%v tally=%+v", w.AIEnabled, w.Tally)
	}

	w.ToggleAI()
	got, _ := fs.Load()
	if !got.AIEnabled || got.Tally.O != 4 {
		t.Errorf("saved after toggle: %+v", got)
	}
}

func TestRedisStoreWithoutClient(t *testing.T) {
	s := NewRedisStore(nil, "player:alice")
	s.Save(game.Settings{AIEnabled: true})
	if _, ok := s.Load(); ok {
		t.Error("nil client loaded settings")
	}
	if Factory(nil) != nil {
		t.Error("factory built without redis")
	}
}

func TestRedisKeyAndDecode(t *testing.T) {
	if k := Key("player:alice"); k != "settings:player:alice" {
		t.Errorf("key = %q", k)
	}
	st, err := decode([]byte(`{"ai_enabled":true,"tally":{"x":1,"o":2,"ties":0}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !st.AIEnabled || st.Tally.O != 2 {
		t.Errorf("decoded %+v", st)
	}
	if _, err := decode([]byte("{")); err == nil {
		t.Error("decoded garbage")
	}
}
