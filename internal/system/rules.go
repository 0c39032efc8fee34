package system

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/mode"
)

const (
	// maxImportDepth is the maximum recursion depth for @import resolution
	maxImportDepth = 5
)

var importRe = regexp.MustCompile(`(?m)^@([^\s@]+\.md)\s*$`)

// RuleFile represents a loaded rules file with metadata.
type RuleFile struct {
	Path    string // Full path to the file
	Size    int64  // File size in bytes
	Content string // File content
	Level   string // "global", "project", "mode" or "local"
}

// RulePaths holds categorized rules locations.
type RulePaths struct {
	Global       []string // User-level instruction files
	GlobalRules  string   // User-level rules directory
	Project      []string // Project-level instruction files
	ProjectRules string   // Project-level rules directory
	ModeRules    string   // Rules for the active mode only
	Local        []string // Local instruction files (not committed)
}

// GetRulePaths returns every location rules are read from for modeID.
func GetRulePaths(cwd string, modeID mode.ID) RulePaths {
	homeDir, _ := os.UserHomeDir()
	return RulePaths{
		Global: []string{
			filepath.Join(homeDir, ".infio", "INFIO.md"),
		},
		GlobalRules: filepath.Join(homeDir, ".infio", "rules"),
		Project: []string{
			filepath.Join(cwd, ".infio", "INFIO.md"),
			filepath.Join(cwd, "INFIO.md"),
		},
		ProjectRules: filepath.Join(cwd, ".infio", "rules"),
		ModeRules:    filepath.Join(cwd, ".infio", "rules-"+string(modeID)),
		Local: []string{
			filepath.Join(cwd, ".infio", "INFIO.local.md"),
		},
	}
}

// LoadRules loads rules content for a mode from standard locations.
//
// User level:
//   - ~/.infio/INFIO.md
//   - ~/.infio/rules/*.md
//
// Project level (first found wins):
//   - .infio/INFIO.md or INFIO.md
//   - .infio/rules/*.md
//   - .infio/rules-<mode>/*.md
//
// Project local (not committed to git):
//   - .infio/INFIO.local.md
//
// All sources are concatenated with @import resolution.
func LoadRules(cwd string, modeID mode.ID) string {
	files := LoadRuleFiles(GetRulePaths(cwd, modeID))
	if len(files) == 0 {
		return ""
	}

	var parts []string
	for _, f := range files {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, "\n\n")
}

// LoadRuleFiles loads all rules files with metadata.
// Returns files in order: global, global rules, project, project rules, mode rules, local.
func LoadRuleFiles(paths RulePaths) []RuleFile {
	var files []RuleFile
	seen := make(map[string]bool) // Track imported files to prevent cycles

	if f := loadRuleFile(paths.Global, "global", seen); f != nil {
		files = append(files, *f)
	}
	files = append(files, loadRulesDirectory(paths.GlobalRules, "global", seen)...)

	if f := loadRuleFile(paths.Project, "project", seen); f != nil {
		files = append(files, *f)
	}
	files = append(files, loadRulesDirectory(paths.ProjectRules, "project", seen)...)
	files = append(files, loadRulesDirectory(paths.ModeRules, "mode", seen)...)

	if f := loadRuleFile(paths.Local, "local", seen); f != nil {
		files = append(files, *f)
	}

	return files
}

// loadRuleFile loads the first existing file from sources with @import resolution.
func loadRuleFile(sources []string, level string, seen map[string]bool) *RuleFile {
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			continue
		}
		if seen[src] {
			continue
		}

		data, err := os.ReadFile(src)
		if err != nil {
			continue
		}

		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}

		seen[src] = true
		content = resolveImports(content, filepath.Dir(src), 0, seen)

		log.Logger().Debug("Loaded rules file",
			zap.String("path", src),
			zap.Int64("bytes", info.Size()),
			zap.String("level", level))

		return &RuleFile{
			Path:    src,
			Size:    info.Size(),
			Content: fmt.Sprintf("<!-- Source: %s -->\n%s", src, content),
			Level:   level,
		}
	}
	return nil
}

// loadRulesDirectory loads all .md files from a rules directory.
func loadRulesDirectory(dir string, level string, seen map[string]bool) []RuleFile {
	var files []RuleFile
	for _, path := range ListRulesFiles(dir) {
		if f := loadRuleFile([]string{path}, level, seen); f != nil {
			files = append(files, *f)
		}
	}
	return files
}

// ListRulesFiles returns all .md files in a rules directory, sorted.
func ListRulesFiles(rulesDir string) []string {
	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".md") {
			files = append(files, filepath.Join(rulesDir, name))
		}
	}
	sort.Strings(files)
	return files
}

// resolveImports processes @import statements in content.
// Syntax: @path/to/file.md or @./relative/path.md
// Max depth is limited to prevent infinite recursion.
func resolveImports(content string, basePath string, depth int, seen map[string]bool) string {
	if depth >= maxImportDepth {
		return content
	}

	return importRe.ReplaceAllStringFunc(content, func(match string) string {
		importPath := strings.TrimPrefix(strings.TrimSpace(match), "@")
		fullPath := filepath.Clean(filepath.Join(basePath, importPath))

		if seen[fullPath] {
			return fmt.Sprintf("<!-- Skipped (cycle): @%s -->", importPath)
		}

		data, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Sprintf("<!-- Import not found: @%s -->", importPath)
		}

		seen[fullPath] = true
		importedContent := strings.TrimSpace(string(data))

		log.Logger().Debug("Resolved import",
			zap.String("import", importPath),
			zap.String("fullPath", fullPath),
			zap.Int("depth", depth))

		importedContent = resolveImports(importedContent, filepath.Dir(fullPath), depth+1, seen)

		return fmt.Sprintf("<!-- Imported: %s -->\n%s", importPath, importedContent)
	})
}
