// Package diff provides the strategies that describe how the model should
// send file edits through apply_diff.
package diff

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/yanmxa/infio/internal/tool"
)

const (
	SearchReplaceName = "search-replace"
	UnifiedName       = "unified"
)

// DefaultFuzzyThreshold requires an exact match.
const DefaultFuzzyThreshold = 1.0

// defaultExamplePath is shown in usage examples when no path option is given.
const defaultExamplePath = "notes/weekly-review.md"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("diff").ParseFS(templateFS, "templates/*.tmpl"))

// New returns the strategy registered under name. An empty name means no
// strategy, in which case apply_diff is left out of the prompt.
func New(name string, fuzzyThreshold float64) (tool.DiffStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case SearchReplaceName:
		return &SearchReplace{FuzzyThreshold: fuzzyThreshold}, nil
	case UnifiedName:
		return &Unified{}, nil
	default:
		return nil, fmt.Errorf("unknown diff strategy %q", name)
	}
}

// Names lists the available strategies.
func Names() []string {
	return []string{SearchReplaceName, UnifiedName}
}

func examplePath(opts map[string]string) string {
	if p := opts["path"]; p != "" {
		return p
	}
	return defaultExamplePath
}

func execute(name string, data any) string {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		// Templates are embedded and fixed; a failure here is a programming error.
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return strings.TrimSpace(sb.String())
}
