// Package prefs persists the user's pick list and automation toggles
// between runs.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Dragon-GCS/lolhelper/internal/state"
)

const (
	// version is bumped when the schema changes.
	version = 1

	fileName   = "autopick.json"
	appDirName = "lolhelper"
)

// document is the on-disk shape of autopick.json.
type document struct {
	Version            int                  `json:"version"`
	AutoPick           state.AutoPickConfig `json:"autoPick"`
	AcceptDelaySeconds int                  `json:"acceptDelaySeconds"`
	AutoSendAnalysis   bool                 `json:"autoSendAnalysis"`
}

// Store handles loading and saving preferences to disk.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. Pass an empty string to use the
// default XDG state path.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultDir()
	}
	return &Store{dir: dir}
}

// Path returns the full path to the preferences file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Load reads preferences from disk. A missing file yields zero
// preferences and ok=false so callers can apply their own defaults.
func (s *Store) Load() (p state.Preferences, ok bool, err error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state.Preferences{}, false, nil
		}
		return state.Preferences{}, false, fmt.Errorf("reading prefs: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return state.Preferences{}, false, fmt.Errorf("parsing prefs: %w", err)
	}
	return state.Preferences{
		AutoPick:           doc.AutoPick,
		AcceptDelaySeconds: doc.AcceptDelaySeconds,
		AutoSendAnalysis:   doc.AutoSendAnalysis,
	}, true, nil
}

// Save writes preferences using an atomic temp-file-then-rename pattern.
// The directory is created if it does not already exist.
func (s *Store) Save(p state.Preferences) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating prefs dir: %w", err)
	}

	doc := document{
		Version:            version,
		AutoPick:           p.AutoPick,
		AcceptDelaySeconds: p.AcceptDelaySeconds,
		AutoSendAnalysis:   p.AutoSendAnalysis,
	}
	if doc.AutoPick.Selected == nil {
		doc.AutoPick.Selected = []state.Champion{}
	}
	if doc.AutoPick.Unselected == nil {
		doc.AutoPick.Unselected = []state.Champion{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".autopick-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming prefs file: %w", err)
	}
	committed = true
	return nil
}

// defaultDir returns ~/.local/state/lolhelper, respecting XDG_STATE_HOME.
func defaultDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
