package mode

import "github.com/yanmxa/infio/internal/tool"

const (
	Ask      ID = "ask"
	Write    ID = "write"
	Research ID = "research"
)

// DefaultMode is the fallback when a requested mode cannot be resolved.
// It grants the smallest capability set of the built-ins.
const DefaultMode = Ask

var builtinModes = []Config{
	{
		Slug: Write,
		Name: "Write",
		RoleDefinition: "You are Infio, a versatile writing assistant working inside the user's note vault. " +
			"You draft, restructure and edit notes, keep links and formatting intact, and follow the conventions already used in the vault.",
		Groups: []GroupEntry{
			Group(tool.GroupRead),
			Group(tool.GroupEdit),
			Group(tool.GroupResearch),
			Group(tool.GroupMCP),
			Group(tool.GroupModes),
		},
		Source: SourceBuiltin,
	},
	{
		Slug: Ask,
		Name: "Ask",
		RoleDefinition: "You are Infio, a knowledgeable assistant that answers questions about the user's notes. " +
			"You read and search the vault to ground every answer and never modify files.",
		Groups: []GroupEntry{
			Group(tool.GroupRead),
		},
		Source: SourceBuiltin,
	},
	{
		Slug: Research,
		Name: "Research",
		RoleDefinition: "You are Infio, a research assistant. You combine the user's notes with sources from the web, " +
			"compare evidence, and cite where each finding came from.",
		Groups: []GroupEntry{
			Group(tool.GroupRead),
			Group(tool.GroupResearch),
			Group(tool.GroupBrowser),
			Group(tool.GroupMCP),
			Group(tool.GroupModes),
		},
		CustomInstructions: "Prefer primary sources. When a claim comes from the web, include the URL it came from.",
		Source:             SourceBuiltin,
	},
}

// Builtins returns a copy of the compiled-in modes.
func Builtins() []Config {
	return CloneAll(builtinModes)
}

// builtin looks up a compiled-in mode without copying.
func builtin(id ID) (Config, bool) {
	for _, m := range builtinModes {
		if m.Slug == id {
			return m, true
		}
	}
	return Config{}, false
}
