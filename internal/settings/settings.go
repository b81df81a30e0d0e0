// Package settings persists user preferences as a single JSON document.
// Reads fail soft: a missing or unparsable file yields the defaults.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cortex/internal/fsutil"
	"cortex/internal/models"
)

const (
	DefaultBackend = "hackclub"
	DefaultModel   = "hackclub/model1"

	ThemeDark        = "dark"
	ThemeTransparent = "transparent"
)

// Settings is the singleton preferences record. Every save overwrites the
// whole document; there is no history.
type Settings struct {
	Backend   string         `json:"backend"`
	ModelName string         `json:"model_name"`
	Theme     string         `json:"theme"`
	Profile   models.Profile `json:"profile"`
}

// Defaults returns the documented default settings.
func Defaults() Settings {
	return Settings{
		Backend:   DefaultBackend,
		ModelName: DefaultModel,
		Theme:     ThemeDark,
	}
}

// ValidTheme reports whether s names a known theme.
func ValidTheme(s string) bool {
	return s == ThemeDark || s == ThemeTransparent
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath resolves the settings file under the user config directory,
// falling back to ~/.config when the platform dir is unknown.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

func configDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "cortex"), nil
}

// Load reads the persisted settings. Absent or malformed storage yields the
// defaults; a partial document has its missing fields defaulted and an
// unknown theme normalized. Load never fails.
func (s *Store) Load() Settings {
	out := Defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return out
	}
	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return out
	}

	if loaded.Backend != "" {
		out.Backend = loaded.Backend
	}
	if loaded.ModelName != "" {
		out.ModelName = loaded.ModelName
	}
	if ValidTheme(loaded.Theme) {
		out.Theme = loaded.Theme
	}
	out.Profile = loaded.Profile
	return out
}

// Save overwrites the full record. The write-then-rename keeps a concurrent
// Load from ever seeing a half-written document.
func (s *Store) Save(cfg Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.AtomicWriteFile(s.path, data, 0o600)
}
