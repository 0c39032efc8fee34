// Package system builds the system prompt for a mode.
// It assembles the prompt from the mode's role, embedded guidance, the tool
// section produced by the Assembler, connected MCP servers, available modes,
// rules, environment information and user instructions.
package system

import (
	"embed"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/mcp"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// Config holds configuration for system prompt generation.
type Config struct {
	Mode        mode.ID
	CustomModes []mode.Config
	Experiments experiment.Flags

	// Args are passed to every tool describer; Args.Cwd is the vault root
	Args tool.Args

	// Hub lists connected MCP servers; it is also used as Args.MCPHub when that is unset
	Hub *mcp.Hub

	Model string
	IsGit bool
	Now   time.Time // zero means time.Now()

	// CustomInstructions apply to every mode (settings.customInstructions)
	CustomInstructions string

	// Rules is pre-loaded rules content; if empty, loaded from disk
	Rules     string
	SkipRules bool

	// Assembler renders the tool section; nil uses a copy of DefaultAssembler
	// that logs and omits tools whose describer fails
	Assembler *Assembler
}

// BuildPrompt builds the complete system prompt from a Config.
// An unknown mode falls back to mode.DefaultMode with a warning.
// Assembly order: role + tool use + tools + mcp + modes + rules + objective + env + custom instructions
func BuildPrompt(cfg Config) string {
	m, err := mode.Resolve(cfg.Mode, cfg.CustomModes)
	if err != nil {
		log.Logger().Warn("Falling back to default mode",
			zap.String("mode", string(cfg.Mode)),
			zap.String("fallback", string(mode.DefaultMode)),
			zap.Error(err))
		m, err = mode.Resolve(mode.DefaultMode, cfg.CustomModes)
		if err != nil {
			// DefaultMode is built in and always resolves.
			panic(err)
		}
	}

	args := cfg.Args
	if args.MCPHub == nil && cfg.Hub != nil {
		args.MCPHub = cfg.Hub
	}

	tools, err := promptAssembler(cfg.Assembler).Assemble(m.Slug, args, cfg.CustomModes, cfg.Experiments)
	if err != nil {
		log.Logger().Error("Tool section failed", zap.Error(err))
		tools = ToolsHeading
	}

	rules := cfg.Rules
	if rules == "" && !cfg.SkipRules {
		rules = LoadRules(args.Cwd, m.Slug)
	}

	parts := []string{
		m.RoleDefinition,
		load("tool_use.txt"),
		tools,
		formatMCPServers(m, cfg.Hub),
		formatModes(m, cfg.CustomModes),
		formatRules(m),
		load("objective.txt"),
		formatEnv(cfg, m),
		formatCustomInstructions(m, cfg.CustomInstructions, rules),
	}
	result := join(parts)

	log.Logger().Debug("System prompt assembled",
		zap.String("mode", string(m.Slug)),
		zap.Int("total_len", len(result)),
		zap.Int("tools_len", len(tools)),
		zap.Int("rules_len", len(rules)))

	return result
}

// promptAssembler returns a, or an assembler that logs describer failures and
// omits the tool.
func promptAssembler(a *Assembler) *Assembler {
	if a != nil {
		return a
	}
	return &Assembler{
		Registry: DefaultAssembler.Registry,
		OnDescribeError: func(name tool.Name, err error) error {
			log.Logger().Warn("Omitting tool with failing description",
				zap.String("tool", string(name)),
				zap.Error(err))
			return nil
		},
	}
}

// load reads a prompt file from the embedded filesystem.
func load(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// formatMCPServers lists connected servers when the mode can reach them.
func formatMCPServers(m mode.Config, hub *mcp.Hub) string {
	if !hub.Available() {
		return ""
	}
	if _, ok := m.Grants(tool.GroupMCP); !ok {
		return ""
	}
	servers := hub.FormatForPrompt()
	if servers == "" {
		servers = "(No MCP servers currently connected)"
	}
	return "# MCP Servers\n\n" +
		"The Model Context Protocol (MCP) enables communication with external servers that provide additional tools and resources. " +
		"When a server is connected, use its tools with use_mcp_tool and its resources with access_mcp_resource.\n\n" +
		servers
}

// formatModes lists every mode the user can switch to.
func formatModes(current mode.Config, customModes []mode.Config) string {
	var sb strings.Builder
	sb.WriteString("# Modes\n\nThese are the currently available modes:")
	for _, m := range mode.All(customModes) {
		fmt.Fprintf(&sb, "\n- %q mode (%s): %s", m.Name, m.Slug, firstSentence(m.RoleDefinition))
	}
	fmt.Fprintf(&sb, "\n\nYou are currently in %q mode (%s).", current.Name, current.Slug)
	return sb.String()
}

// formatRules appends mode-specific file restrictions to the embedded rules.
func formatRules(m mode.Config) string {
	rules := load("rules.txt")
	for _, e := range m.Groups {
		if e.Group != tool.GroupEdit || e.Options == nil || (e.Options.FileRegex == "" && e.Options.FileGlob == "") {
			continue
		}
		var patterns []string
		if e.Options.FileRegex != "" {
			patterns = append(patterns, "regex `"+e.Options.FileRegex+"`")
		}
		if e.Options.FileGlob != "" {
			patterns = append(patterns, "glob `"+e.Options.FileGlob+"`")
		}
		line := fmt.Sprintf("\n- In %s mode, %s tools may only touch files matching %s",
			m.Slug, e.Group, strings.Join(patterns, " and "))
		if e.Options.Description != "" {
			line += " (" + e.Options.Description + ")"
		}
		rules += line + "."
	}
	return rules
}

// formatEnv generates the dynamic environment section.
func formatEnv(cfg Config, m mode.Config) string {
	gitStatus := "No"
	if cfg.IsGit {
		gitStatus = "Yes"
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	model := cfg.Model
	if model == "" {
		model = "unknown"
	}
	return fmt.Sprintf(`# Environment

<env>
Working directory: %s
Is git repo: %s
Platform: %s
Date: %s
Model: %s
Current mode: %s (%s)
</env>`, cfg.Args.Cwd, gitStatus, runtime.GOOS,
		now.Format("2006-01-02"), model, m.Slug, m.Name)
}

// formatCustomInstructions combines mode, global and rules instructions.
func formatCustomInstructions(m mode.Config, global, rules string) string {
	var sections []string
	if s := strings.TrimSpace(m.CustomInstructions); s != "" {
		sections = append(sections, "Mode-specific Instructions:\n"+s)
	}
	if s := strings.TrimSpace(global); s != "" {
		sections = append(sections, "Global Instructions:\n"+s)
	}
	if s := strings.TrimSpace(rules); s != "" {
		sections = append(sections, "Rules:\n"+s)
	}
	if len(sections) == 0 {
		return ""
	}
	return "# User's Custom Instructions\n\n" +
		"The following additional instructions are provided by the user, and should be followed to the best of your ability without interfering with the tool use guidelines.\n\n" +
		strings.Join(sections, "\n\n")
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}

// join concatenates non-empty parts with double newlines.
func join(parts []string) string {
	var filtered []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			filtered = append(filtered, p)
		}
	}
	return strings.Join(filtered, "\n\n")
}
