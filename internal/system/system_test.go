package system

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/mcp"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	restore := log.SetLogger(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func baseConfig(id mode.ID) Config {
	return Config{
		Mode:      id,
		Args:      tool.Args{Cwd: "/vault"},
		Model:     "test-model",
		Now:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		SkipRules: true,
	}
}

func TestBuildPrompt_Sections(t *testing.T) {
	prompt := BuildPrompt(baseConfig(mode.Write))

	ordered := []string{
		"You are Infio, a versatile writing assistant",
		"# Tool Use",
		ToolsHeading,
		"# Modes",
		"# Rules",
		"# Objective",
		"# Environment",
	}
	last := -1
	for _, s := range ordered {
		idx := strings.Index(prompt, s)
		if idx < 0 {
			t.Errorf("prompt missing %q", s)
			continue
		}
		if idx < last {
			t.Errorf("%q appears out of order", s)
		}
		last = idx
	}

	for _, want := range []string{
		"Working directory: /vault",
		"Date: 2025-03-14",
		"Model: test-model",
		"Current mode: write (Write)",
		`You are currently in "Write" mode (write).`,
		`- "Research" mode (research): You are Infio, a research assistant.`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_FallsBackToDefaultMode(t *testing.T) {
	logs := observeLogs(t)

	prompt := BuildPrompt(baseConfig("ghost"))

	if !strings.Contains(prompt, "Current mode: ask (Ask)") {
		t.Error("unknown mode should fall back to ask")
	}
	if strings.Contains(prompt, "## write_to_file") {
		t.Error("fallback must not grant edit tools")
	}
	entries := logs.FilterMessage("Falling back to default mode").All()
	if len(entries) != 1 {
		t.Fatalf("expected one fallback warning, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("fallback logged at %s, want warn", entries[0].Level)
	}
	if err, ok := entries[0].ContextMap()["error"].(string); !ok || !strings.Contains(err, "ghost") {
		t.Errorf("warning should carry the not-found error, got %v", entries[0].ContextMap())
	}
}

func TestBuildPrompt_MCPServers(t *testing.T) {
	hub := mcp.NewHub()
	hub.AddServer(mcp.ServerConfig{Name: "calendar", Command: "calendar-mcp"})
	hub.SetStatus("calendar", mcp.StatusConnected, "")

	cfg := baseConfig(mode.Write)
	cfg.Hub = hub
	prompt := BuildPrompt(cfg)
	if !strings.Contains(prompt, "# MCP Servers") || !strings.Contains(prompt, "## calendar (`calendar-mcp`)") {
		t.Error("write mode with a hub should list MCP servers")
	}
	if !strings.Contains(prompt, "<server_name>calendar</server_name>") {
		t.Error("hub should be passed to the MCP tool describers")
	}

	cfg.Mode = mode.Ask
	if strings.Contains(BuildPrompt(cfg), "# MCP Servers") {
		t.Error("ask mode does not grant mcp and should not list servers")
	}
}

func TestBuildPrompt_CustomInstructions(t *testing.T) {
	cfg := baseConfig(mode.Research)
	cfg.CustomInstructions = "Answer in British English."
	cfg.Rules = "Always link sources."
	prompt := BuildPrompt(cfg)

	for _, want := range []string{
		"# User's Custom Instructions",
		"Mode-specific Instructions:\nPrefer primary sources.",
		"Global Instructions:\nAnswer in British English.",
		"Rules:\nAlways link sources.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	cfg = baseConfig(mode.Ask)
	if strings.Contains(BuildPrompt(cfg), "# User's Custom Instructions") {
		t.Error("no instructions should mean no custom instructions section")
	}
}

func TestBuildPrompt_FileRestrictionRule(t *testing.T) {
	cfg := baseConfig("journal")
	cfg.CustomModes = []mode.Config{{
		Slug:           "journal",
		Name:           "Journal",
		RoleDefinition: "You keep the user's journal.",
		Groups: []mode.GroupEntry{
			mode.Group(tool.GroupRead),
			mode.RestrictedGroup(tool.GroupEdit, mode.GroupOptions{
				FileGlob:    "journal/**/*.md",
				Description: "journal entries only",
			}),
		},
	}}
	prompt := BuildPrompt(cfg)

	want := "- In journal mode, edit tools may only touch files matching glob `journal/**/*.md` (journal entries only)."
	if !strings.Contains(prompt, want) {
		t.Errorf("prompt missing restriction rule %q", want)
	}
	if !strings.Contains(prompt, `- "Journal" mode (journal): You keep the user's journal.`) {
		t.Error("custom mode should be listed in the modes section")
	}
}

func TestPromptAssembler_LogsAndOmitsFailingTool(t *testing.T) {
	logs := observeLogs(t)

	a := promptAssembler(nil)
	a.Registry = headingRegistry()
	a.Registry.Register(tool.ListFiles, tool.DescriberFunc(func(tool.Args) (string, error) {
		return "", errors.New("template missing")
	}))

	out, err := a.Assemble(mode.Ask, tool.Args{}, nil, nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if strings.Contains(out, "## list_files") {
		t.Error("failing tool should be omitted")
	}
	entries := logs.FilterMessage("Omitting tool with failing description").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["tool"] != string(tool.ListFiles) {
		t.Errorf("warning should name list_files, got %v", entries[0].ContextMap())
	}
}
