package diff

import "math"

// SearchReplace asks the model for SEARCH/REPLACE blocks.
type SearchReplace struct {
	// FuzzyThreshold is the minimum similarity (0..1) accepted for a SEARCH
	// block. Values at or above 1 (or unset) require an exact match.
	FuzzyThreshold float64
}

func (s *SearchReplace) fuzzy() bool {
	return s.FuzzyThreshold > 0 && s.FuzzyThreshold < 1
}

// ToolDescription implements tool.DiffStrategy.
func (s *SearchReplace) ToolDescription(cwd string, opts map[string]string) string {
	return execute("search_replace.tmpl", struct {
		Cwd        string
		Path       string
		Fuzzy      bool
		Similarity int
	}{
		Cwd:        cwd,
		Path:       examplePath(opts),
		Fuzzy:      s.fuzzy(),
		Similarity: int(math.Round(s.FuzzyThreshold * 100)),
	})
}
