package config

import (
	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/tool"
)

// MergeSettings merges two Settings objects.
// Values from 'overlay' override values in 'base'.
// Strings override when non-empty, pointers when non-nil.
// For maps, overlay values are merged with base values.
func MergeSettings(base, overlay *Settings) *Settings {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}

	result := &Settings{
		Mode:                pickString(base.Mode, overlay.Mode),
		Model:               pickString(base.Model, overlay.Model),
		Experiments:         mergeFlags(base.Experiments, overlay.Experiments),
		DiffStrategy:        base.DiffStrategy,
		DiffFuzzyThreshold:  base.DiffFuzzyThreshold,
		FilesSearch:         mergeFilesSearch(base.FilesSearch, overlay.FilesSearch),
		SearchTool:          pickString(base.SearchTool, overlay.SearchTool),
		SupportsComputerUse: base.SupportsComputerUse,
		BrowserViewportSize: pickString(base.BrowserViewportSize, overlay.BrowserViewportSize),
		CustomInstructions:  pickString(base.CustomInstructions, overlay.CustomInstructions),
	}

	if overlay.DiffStrategy != nil {
		result.DiffStrategy = overlay.DiffStrategy
	}
	if overlay.DiffFuzzyThreshold != nil {
		result.DiffFuzzyThreshold = overlay.DiffFuzzyThreshold
	}
	if overlay.SupportsComputerUse != nil {
		result.SupportsComputerUse = overlay.SupportsComputerUse
	}

	return result
}

func pickString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeFilesSearch merges search settings field by field.
func mergeFilesSearch(base, overlay tool.FilesSearchSettings) tool.FilesSearchSettings {
	return tool.FilesSearchSettings{
		Method:       pickString(base.Method, overlay.Method),
		RegexBackend: pickString(base.RegexBackend, overlay.RegexBackend),
		MatchBackend: pickString(base.MatchBackend, overlay.MatchBackend),
		RipgrepPath:  pickString(base.RipgrepPath, overlay.RipgrepPath),
	}
}

// mergeFlags merges two experiment flag maps.
func mergeFlags(base, overlay experiment.Flags) experiment.Flags {
	result := make(experiment.Flags)

	// Copy base
	for k, v := range base {
		result[k] = v
	}

	// Overlay
	for k, v := range overlay {
		result[k] = v
	}

	return result
}
