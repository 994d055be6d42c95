package settings

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/playmatatu/pongtoe/internal/game"
)

// FileStore keeps settings in a TOML file. A missing or unreadable file loads
// as nothing saved.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is ~/.config/pongtoe/settings.toml, or the working directory
// when no config dir is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pongtoe.toml"
	}
	return filepath.Join(dir, "pongtoe", "settings.toml")
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (game.Settings, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s game.Settings
	if _, err := toml.DecodeFile(f.path, &s); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[SETTINGS] Failed to read %s: %v", f.path, err)
		}
		return game.Settings{}, false
	}
	return s, true
}

func (f *FileStore) Save(s game.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(s); err != nil {
		log.Printf("[SETTINGS] Failed to save %s: %v", f.path, err)
	}
}

func (f *FileStore) write(s game.Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := f.path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}
	if err := toml.NewEncoder(out).Encode(s); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close settings file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
