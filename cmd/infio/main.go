package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/config"
	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/mcp"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

var (
	version = "0.1.0"
)

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()

	// Initialize logging (enabled via INFIO_DEBUG=1)
	_ = log.Init()
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "infio",
	Short:   "Infio - inspect the tools and prompts each mode offers",
	Version: version,
	Long: `Infio resolves which tools a mode may use and assembles the system prompt
that describes them.

Settings are read from:
  ~/.infio/settings.json        User-level
  ./.infio/settings.json        Project-level
  ./.infio/settings.local.json  Local-level (git-ignored)

Custom modes are read from ~/.infio/modes.yaml and ./.infio/modes.yaml.`,
	SilenceUsage: true,
}

// Session flags, shared by every subcommand.
var (
	flagMode         string
	flagCwd          string
	flagExperiments  []string
	flagDiffStrategy string
	flagSearchTool   string
	flagBrowser      bool
	flagViewport     string
	flagRender       bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagMode, "mode", "m", "", "Mode slug (defaults to settings, then ask)")
	pf.StringVar(&flagCwd, "cwd", "", "Vault root (defaults to the working directory)")
	pf.StringArrayVarP(&flagExperiments, "experiment", "x", nil, "Experiment flag (name=true|false)")
	pf.StringVar(&flagDiffStrategy, "diff-strategy", "", "Diff strategy (search-replace, unified, or none)")
	pf.StringVar(&flagSearchTool, "search-tool", "", "Web search backend; enables search_web")
	pf.BoolVar(&flagBrowser, "browser", false, "Enable browser_action")
	pf.StringVar(&flagViewport, "viewport", "", "Browser viewport size, e.g. 900x600")
	pf.BoolVar(&flagRender, "render", false, "Render markdown output for the terminal")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(mcpCmd)
}

// session is everything one invocation resolves against.
type session struct {
	cwd      string
	settings *config.Settings
	store    *mode.Store
	hub      *mcp.Hub
	mode     mode.ID
	flags    experiment.Flags
	args     tool.Args
}

// loadSession merges settings with the command-line flags.
func loadSession(cmd *cobra.Command) (*session, error) {
	cwd, err := resolveCwd()
	if err != nil {
		return nil, err
	}

	settings, err := config.NewLoader(cwd).Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := applyFlags(cmd, settings); err != nil {
		return nil, err
	}

	store, err := mode.NewStore(mode.NewLoader(cwd))
	if err != nil {
		return nil, err
	}

	hub, err := mcp.LoadHub(cwd)
	if err != nil {
		log.Logger().Warn("MCP config unavailable", zap.Error(err))
		hub = mcp.NewHub()
	}

	args, err := settings.ToolArgs(cwd)
	if err != nil {
		return nil, err
	}
	args.MCPHub = hub

	return &session{
		cwd:      cwd,
		settings: settings,
		store:    store,
		hub:      hub,
		mode:     settings.ModeID(),
		flags:    settings.ExperimentFlags(),
		args:     args,
	}, nil
}

// resolveCwd returns the absolute vault root.
func resolveCwd() (string, error) {
	if flagCwd != "" {
		return filepath.Abs(flagCwd)
	}
	return os.Getwd()
}

// applyFlags layers explicitly set flags over the loaded settings.
func applyFlags(cmd *cobra.Command, s *config.Settings) error {
	pf := cmd.Flags()
	if flagMode != "" {
		s.Mode = flagMode
	}
	if pf.Changed("diff-strategy") {
		name := flagDiffStrategy
		if name == "none" {
			name = ""
		}
		s.DiffStrategy = &name
	}
	if flagSearchTool != "" {
		s.SearchTool = flagSearchTool
	}
	if pf.Changed("browser") {
		s.SupportsComputerUse = &flagBrowser
	}
	if flagViewport != "" {
		s.BrowserViewportSize = flagViewport
	}

	overrides, err := parseExperiments(flagExperiments)
	if err != nil {
		return err
	}
	if s.Experiments == nil {
		s.Experiments = make(experiment.Flags)
	}
	for id, on := range overrides {
		s.Experiments[id] = on
	}
	return nil
}

// parseExperiments parses name=bool pairs. A bare name means true.
func parseExperiments(pairs []string) (experiment.Flags, error) {
	flags := make(experiment.Flags)
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		id := experiment.ID(strings.TrimSpace(name))
		if !experiment.IsKnown(id) {
			return nil, fmt.Errorf("unknown experiment %q (known: %s)", name, knownExperiments())
		}
		on := true
		if found {
			v, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("experiment %s: %w", name, err)
			}
			on = v
		}
		flags[id] = on
	}
	return flags, nil
}

func knownExperiments() string {
	var names []string
	for _, id := range experiment.Known() {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}

// isGitRepo reports whether dir holds a .git entry.
func isGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// output prints markdown, rendered through glamour when --render is set.
func output(cmd *cobra.Command, markdown string) error {
	if flagRender {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		rendered, err := renderer.Render(markdown)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		markdown = rendered
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), markdown)
	return err
}
