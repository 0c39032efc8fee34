package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/log"
)

// ErrServerNotFound is returned when a scope has no entry for a server.
var ErrServerNotFound = errors.New("mcp server not found")

// ConfigSource is one mcp.json file and the scope it belongs to.
type ConfigSource struct {
	Scope Scope
	Path  string
}

// ConfigLoader reads and edits the mcp.json files of every scope.
type ConfigLoader struct {
	userDir    string // ~/.infio
	projectDir string // <vault>/.infio
}

// NewConfigLoader creates a loader for ~/.infio and <cwd>/.infio.
func NewConfigLoader(cwd string) *ConfigLoader {
	homeDir, _ := os.UserHomeDir()
	return NewConfigLoaderWithDirs(filepath.Join(homeDir, ".infio"), filepath.Join(cwd, ".infio"))
}

// NewConfigLoaderWithDirs creates a loader with explicit directories.
func NewConfigLoaderWithDirs(userDir, projectDir string) *ConfigLoader {
	return &ConfigLoader{userDir: userDir, projectDir: projectDir}
}

// Path returns the file backing scope. Unknown scopes map to the local file.
func (l *ConfigLoader) Path(scope Scope) string {
	switch scope {
	case ScopeUser:
		return filepath.Join(l.userDir, "mcp.json")
	case ScopeProject:
		return filepath.Join(l.projectDir, "mcp.json")
	default:
		return filepath.Join(l.projectDir, "mcp.local.json")
	}
}

// Sources lists the config files, lowest priority first.
func (l *ConfigLoader) Sources() []ConfigSource {
	return []ConfigSource{
		{ScopeUser, l.Path(ScopeUser)},
		{ScopeProject, l.Path(ScopeProject)},
		{ScopeLocal, l.Path(ScopeLocal)},
	}
}

// Load merges every scope into one server list sorted by name.
//
// A later scope replaces an earlier definition of the same server. An entry
// with neither command nor url is a toggle: it only sets Disabled on the
// definition it overrides, so a local file can switch off a shared server.
// A toggle with nothing to override is skipped.
//
// Missing files are skipped; a file that exists but does not parse is an error.
func (l *ConfigLoader) Load() ([]ServerConfig, error) {
	merged := make(map[string]ServerConfig)
	for _, src := range l.Sources() {
		file, err := readConfigFile(src.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.Path, err)
		}
		for name, cfg := range file.MCPServers {
			cfg.Name = name
			cfg.Scope = src.Scope
			if isToggle(cfg) {
				prev, ok := merged[name]
				if !ok {
					log.Logger().Warn("Skipping MCP server without command or url",
						zap.String("server", name),
						zap.String("path", src.Path))
					continue
				}
				prev.Disabled = cfg.Disabled
				merged[name] = prev
				continue
			}
			merged[name] = cfg
		}
	}

	servers := make([]ServerConfig, 0, len(merged))
	for _, cfg := range merged {
		servers = append(servers, cfg)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers, nil
}

func isToggle(cfg ServerConfig) bool {
	return cfg.Command == "" && cfg.URL == ""
}

// Save writes a server definition to scope, replacing any entry of that name.
func (l *ConfigLoader) Save(scope Scope, name string, cfg ServerConfig) error {
	cfg.Name = ""
	cfg.Scope = ""
	return l.update(scope, func(servers map[string]ServerConfig) error {
		servers[name] = cfg
		return nil
	})
}

// SetDisabled records in scope whether name is offered. Where scope has no
// definition of its own, a toggle entry is written.
func (l *ConfigLoader) SetDisabled(scope Scope, name string, disabled bool) error {
	return l.update(scope, func(servers map[string]ServerConfig) error {
		cfg := servers[name]
		cfg.Disabled = disabled
		servers[name] = cfg
		return nil
	})
}

// Remove deletes name from scope only.
func (l *ConfigLoader) Remove(scope Scope, name string) error {
	return l.update(scope, func(servers map[string]ServerConfig) error {
		if _, ok := servers[name]; !ok {
			return fmt.Errorf("%w: %s in %s scope", ErrServerNotFound, name, scope)
		}
		delete(servers, name)
		return nil
	})
}

// update applies fn to the servers of scope and writes the file back.
// A missing file starts empty; a malformed one is an error and is left untouched.
func (l *ConfigLoader) update(scope Scope, fn func(map[string]ServerConfig) error) error {
	path := l.Path(scope)
	file, err := readConfigFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if file.MCPServers == nil {
		file.MCPServers = make(map[string]ServerConfig)
	}
	if err := fn(file.MCPServers); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readConfigFile(path string) (MCPConfig, error) {
	var file MCPConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return file, err
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, err
	}
	return file, nil
}
