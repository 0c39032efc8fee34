package mode

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanmxa/infio/internal/log"
)

//go:embed schema/modes.schema.json
var modesSchema string

// FileNames are the custom mode files looked up in each directory, first match wins.
var FileNames = []string{"modes.yaml", "modes.yml", "modes.json"}

// ValidationError reports a custom mode file that does not match the schema
// or contains patterns that fail to compile.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid custom modes: " + strings.Join(e.Problems, "; ")
	}
	return fmt.Sprintf("invalid custom modes in %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

// modesFile is the on-disk document.
type modesFile struct {
	CustomModes []Config `yaml:"customModes"`
}

// Loader finds and parses custom mode files.
// Project level (.infio/) overrides user level (~/.infio/) by slug.
type Loader struct {
	userDir    string
	projectDir string
}

// NewLoader creates a loader for ~/.infio and <cwd>/.infio.
func NewLoader(cwd string) *Loader {
	homeDir, _ := os.UserHomeDir()
	return &Loader{
		userDir:    filepath.Join(homeDir, ".infio"),
		projectDir: filepath.Join(cwd, ".infio"),
	}
}

// NewLoaderWithDirs creates a loader with explicit directories (for testing).
func NewLoaderWithDirs(userDir, projectDir string) *Loader {
	return &Loader{userDir: userDir, projectDir: projectDir}
}

// Dirs returns the directories searched, lowest priority first.
func (l *Loader) Dirs() []string {
	return []string{l.userDir, l.projectDir}
}

// Load reads the user and project mode files and merges them.
// Missing files are not an error.
func (l *Loader) Load() ([]Config, error) {
	user, err := loadDir(l.userDir, SourceGlobal)
	if err != nil {
		return nil, err
	}
	project, err := loadDir(l.projectDir, SourceProject)
	if err != nil {
		return nil, err
	}
	return Merge(user, project), nil
}

// Merge overlays project modes on user modes. A project mode replaces the
// user mode with the same slug in place; new slugs are appended.
func Merge(user, project []Config) []Config {
	out := make([]Config, 0, len(user)+len(project))
	index := make(map[ID]int, len(user)+len(project))
	for _, layer := range [][]Config{user, project} {
		for _, m := range layer {
			if i, ok := index[m.Slug]; ok {
				out[i] = m
				continue
			}
			index[m.Slug] = len(out)
			out = append(out, m)
		}
	}
	return out
}

func loadDir(dir string, source Source) ([]Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path, source)
	}
	return nil, nil
}

// LoadFile parses and validates a single custom mode file.
// YAML and JSON are both accepted.
func LoadFile(path string, source Source) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	modes, err := Parse(data)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
			return nil, verr
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range modes {
		modes[i].Source = source
	}
	log.Logger().Debug("Loaded custom modes",
		zap.String("path", path),
		zap.Int("count", len(modes)))
	return modes, nil
}

// Parse decodes a custom mode document and validates it.
func Parse(data []byte) ([]Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(modesSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, &ValidationError{Problems: problems}
	}

	var file modesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	var problems []string
	seen := make(map[ID]bool, len(file.CustomModes))
	for _, m := range file.CustomModes {
		if seen[m.Slug] {
			problems = append(problems, fmt.Sprintf("%s: duplicate slug", m.Slug))
		}
		seen[m.Slug] = true
		for _, g := range m.Groups {
			if !g.Group.Valid() {
				log.Logger().Warn("Custom mode references unknown tool group",
					zap.String("mode", string(m.Slug)),
					zap.String("group", string(g.Group)))
			}
			if err := g.Options.validate(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %s: %v", m.Slug, g.Group, err))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return file.CustomModes, nil
}
