package permission

import (
	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

// experimentGates lists tools that are only offered while an experiment is on.
var experimentGates = map[tool.Name]experiment.ID{
	tool.SearchWeb:        experiment.SearchWeb,
	tool.SearchAndReplace: experiment.SearchAndReplace,
	tool.InsertContent:    experiment.InsertContent,
}

// modeRestrictions removes tools from built-in modes regardless of group grants.
// The research mode talks to MCP servers through resources only.
var modeRestrictions = map[mode.ID][]tool.Name{
	mode.Research: {tool.UseMCPTool},
}

// ExperimentFor returns the experiment gating name, if any.
func ExperimentFor(name tool.Name) (experiment.ID, bool) {
	id, ok := experimentGates[name]
	return id, ok
}

// IsRestricted reports whether name is explicitly denied in modeID.
func IsRestricted(name tool.Name, modeID mode.ID) bool {
	for _, n := range modeRestrictions[modeID] {
		if n == name {
			return true
		}
	}
	return false
}

// IsToolAllowed reports whether name may be offered in modeID.
// Always-available tools pass unconditionally. Every other tool must be
// granted by one of the mode's groups, have its experiment (if any) enabled,
// and not be restricted for the mode. An unresolvable mode allows nothing
// beyond the always-available tools.
func IsToolAllowed(name tool.Name, modeID mode.ID, customModes []mode.Config, flags experiment.Flags) bool {
	if tool.IsAlwaysAvailable(name) {
		return true
	}
	m, err := mode.Resolve(modeID, customModes)
	if err != nil {
		return false
	}
	return allowedIn(name, m, flags)
}

// allowedIn applies the gate to an already resolved mode.
func allowedIn(name tool.Name, m mode.Config, flags experiment.Flags) bool {
	if tool.IsAlwaysAvailable(name) {
		return true
	}
	if IsRestricted(name, m.Slug) {
		return false
	}
	if id, gated := experimentGates[name]; gated && !flags.Enabled(id) {
		return false
	}
	return len(grantingEntries(name, m)) > 0
}

// Allowed is IsToolAllowed for a mode the caller has already resolved.
func Allowed(name tool.Name, m mode.Config, flags experiment.Flags) bool {
	return allowedIn(name, m, flags)
}

// grantingEntries returns the mode's group entries whose group contains name.
func grantingEntries(name tool.Name, m mode.Config) []mode.GroupEntry {
	var entries []mode.GroupEntry
	for _, e := range m.Groups {
		for _, n := range tool.Expand(e.Group) {
			if n == name {
				entries = append(entries, e)
				break
			}
		}
	}
	return entries
}
