package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/log"
)

// Loader handles loading and merging settings from multiple sources.
type Loader struct {
	// userDir is the user-level config directory (e.g., ~/.infio)
	userDir string

	// projectDir is the project-level config directory (e.g., <vault>/.infio)
	projectDir string
}

// NewLoader creates a new settings loader for the vault at cwd.
// It defaults to:
//   - userDir: ~/.infio
//   - projectDir: <cwd>/.infio
func NewLoader(cwd string) *Loader {
	homeDir, _ := os.UserHomeDir()
	return &Loader{
		userDir:    filepath.Join(homeDir, ".infio"),
		projectDir: filepath.Join(cwd, ".infio"),
	}
}

// NewLoaderWithDirs creates a loader with explicit directories.
func NewLoaderWithDirs(userDir, projectDir string) *Loader {
	return &Loader{
		userDir:    userDir,
		projectDir: projectDir,
	}
}

// Sources returns the settings files in priority order (lowest to highest).
func (l *Loader) Sources() []string {
	return []string{
		filepath.Join(l.userDir, "settings.json"),
		filepath.Join(l.projectDir, "settings.json"),
		filepath.Join(l.projectDir, "settings.local.json"),
	}
}

// Load loads and merges settings from all sources over NewSettings().
// Priority (lowest to highest):
//  1. ~/.infio/settings.json
//  2. .infio/settings.json
//  3. .infio/settings.local.json
//
// Missing files are skipped. Malformed files are logged and skipped.
func (l *Loader) Load() (*Settings, error) {
	settings := NewSettings()
	for _, src := range l.Sources() {
		s, err := l.LoadFile(src)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Logger().Warn("Skipping settings file",
					zap.String("path", src),
					zap.Error(err))
			}
			continue
		}
		settings = MergeSettings(settings, s)
	}
	return settings, nil
}

// LoadFile loads settings from a specific file.
func (l *Loader) LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}
