// Package config provides multi-level settings management for Infio.
// Settings are loaded from multiple sources with the following priority (lowest to highest):
//  1. ~/.infio/settings.json (user level)
//  2. .infio/settings.json (project level)
//  3. .infio/settings.local.json (local level, not committed)
//  4. CLI flags
package config

import (
	"github.com/yanmxa/infio/internal/diff"
	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

// Settings represents the complete Infio configuration.
type Settings struct {
	// Mode is the mode a new session starts in (e.g., "write")
	Mode string `json:"mode,omitempty"`

	// Model is reported in the environment section of the prompt
	Model string `json:"model,omitempty"`

	// Experiments turns gated tools on or off
	Experiments experiment.Flags `json:"experiments,omitempty"`

	// DiffStrategy selects how apply_diff is described ("search-replace", "unified").
	// An explicit empty string in a higher level disables apply_diff.
	DiffStrategy *string `json:"diffStrategy,omitempty"`

	// DiffFuzzyThreshold is the minimum similarity for search-replace matches
	DiffFuzzyThreshold *float64 `json:"diffFuzzyThreshold,omitempty"`

	// FilesSearch configures search_files
	FilesSearch tool.FilesSearchSettings `json:"filesSearch,omitempty"`

	// SearchTool is the web search backend; empty disables search_web
	SearchTool string `json:"searchTool,omitempty"`

	// SupportsComputerUse enables browser_action
	SupportsComputerUse *bool `json:"supportsComputerUse,omitempty"`

	// BrowserViewportSize is passed to browser_action, e.g. "1280x800"
	BrowserViewportSize string `json:"browserViewportSize,omitempty"`

	// CustomInstructions are appended to every system prompt
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// NewSettings creates a new Settings instance with default values
func NewSettings() *Settings {
	strategy := diff.SearchReplaceName
	threshold := diff.DefaultFuzzyThreshold
	computerUse := false
	return &Settings{
		Experiments:         experiment.Defaults(),
		DiffStrategy:        &strategy,
		DiffFuzzyThreshold:  &threshold,
		FilesSearch:         tool.FilesSearchSettings{Method: tool.SearchMethodMatch},
		SupportsComputerUse: &computerUse,
	}
}

// ModeID returns the configured mode, or mode.DefaultMode when unset.
func (s *Settings) ModeID() mode.ID {
	if s == nil || s.Mode == "" {
		return mode.DefaultMode
	}
	return mode.ID(s.Mode)
}

// ExperimentFlags returns the configured experiments over their defaults.
func (s *Settings) ExperimentFlags() experiment.Flags {
	if s == nil {
		return experiment.Defaults()
	}
	return experiment.WithDefaults(s.Experiments)
}

// DiffStrategyName returns the configured strategy name ("" when disabled).
func (s *Settings) DiffStrategyName() string {
	if s == nil || s.DiffStrategy == nil {
		return ""
	}
	return *s.DiffStrategy
}

// FuzzyThreshold returns the configured threshold or the default.
func (s *Settings) FuzzyThreshold() float64 {
	if s == nil || s.DiffFuzzyThreshold == nil {
		return diff.DefaultFuzzyThreshold
	}
	return *s.DiffFuzzyThreshold
}

// ComputerUse reports whether browser_action is enabled.
func (s *Settings) ComputerUse() bool {
	return s != nil && s.SupportsComputerUse != nil && *s.SupportsComputerUse
}

// ToolArgs builds the describer arguments for a session rooted at cwd.
// The MCP hub is left for the caller to set.
func (s *Settings) ToolArgs(cwd string) (tool.Args, error) {
	strategy, err := diff.New(s.DiffStrategyName(), s.FuzzyThreshold())
	if err != nil {
		return tool.Args{}, err
	}
	args := tool.Args{
		Cwd:                 cwd,
		SearchSettings:      s.FilesSearch,
		SearchTool:          s.SearchTool,
		SupportsComputerUse: s.ComputerUse(),
		BrowserViewportSize: s.BrowserViewportSize,
	}
	if strategy != nil {
		args.DiffStrategy = strategy
	}
	return args, nil
}
