package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanmxa/infio/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP (Model Context Protocol) servers",
	Long: `Manage the MCP servers offered to modes that grant the mcp group.

Configuration files are stored at:
  ~/.infio/mcp.json           User-level (global)
  ./.infio/mcp.json           Project-level (shared with the vault)
  ./.infio/mcp.local.json     Local-level (personal, git-ignored)`,
}

var (
	mcpTransport string
	mcpScope     string
	mcpEnvVars   []string
	mcpHeaders   []string
)

func init() {
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpAddJSONCmd)
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpEnableCmd)
	mcpCmd.AddCommand(mcpDisableCmd)

	mcpAddCmd.Flags().StringVarP(&mcpTransport, "transport", "t", "stdio", "Transport type (stdio, http, sse)")
	mcpAddCmd.Flags().StringVarP(&mcpScope, "scope", "s", "local", "Config scope (user, project, local)")
	mcpAddCmd.Flags().StringArrayVarP(&mcpEnvVars, "env", "e", nil, "Environment variables (KEY=value)")
	mcpAddCmd.Flags().StringArrayVarP(&mcpHeaders, "header", "H", nil, "HTTP headers (Key: Value)")

	mcpAddJSONCmd.Flags().StringVarP(&mcpScope, "scope", "s", "local", "Config scope (user, project, local)")
	mcpRemoveCmd.Flags().StringVarP(&mcpScope, "scope", "s", "local", "Config scope (user, project, local)")
	mcpEnableCmd.Flags().StringVarP(&mcpScope, "scope", "s", "local", "Config scope (user, project, local)")
	mcpDisableCmd.Flags().StringVarP(&mcpScope, "scope", "s", "local", "Config scope (user, project, local)")
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <name> [-- <command> [args...]] or add <name> <url>",
	Short: "Add an MCP server",
	Long: `Add an MCP server configuration.

Examples:
  infio mcp add calendar -- npx -y @example/calendar-mcp
  infio mcp add library --transport http http://localhost:9000/mcp`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		var config mcp.ServerConfig
		config.Type = mcp.TransportType(mcpTransport)

		switch config.Type {
		case mcp.TransportSTDIO:
			dash := cmd.ArgsLenAtDash()
			if dash < 0 || dash >= len(args) {
				return fmt.Errorf("STDIO transport requires: infio mcp add <name> -- <command> [args...]")
			}
			config.Command = args[dash]
			config.Args = args[dash+1:]

		case mcp.TransportHTTP, mcp.TransportSSE:
			if len(args) < 2 {
				return fmt.Errorf("%s transport requires a URL: infio mcp add --transport %s <name> <url>", mcpTransport, mcpTransport)
			}
			config.URL = args[1]
			config.Headers = parseKeyValues(mcpHeaders, ":")

		default:
			return fmt.Errorf("unsupported transport type: %s", mcpTransport)
		}

		config.Env = parseKeyValues(mcpEnvVars, "=")
		return saveServer(cmd, name, config)
	},
}

var mcpAddJSONCmd = &cobra.Command{
	Use:   "add-json <name> <json>",
	Short: "Add an MCP server from JSON configuration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var config mcp.ServerConfig
		if err := json.Unmarshal([]byte(args[1]), &config); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		return saveServer(cmd, args[0], config)
	},
}

func saveServer(cmd *cobra.Command, name string, config mcp.ServerConfig) error {
	cwd, err := resolveCwd()
	if err != nil {
		return err
	}
	if err := mcp.NewConfigLoader(cwd).Save(parseScope(mcpScope), name, config); err != nil {
		return fmt.Errorf("failed to save server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added MCP server '%s' to %s scope\n", name, parseScope(mcpScope))
	return nil
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd()
		if err != nil {
			return err
		}
		hub, err := mcp.LoadHub(cwd)
		if err != nil {
			return fmt.Errorf("failed to load configs: %w", err)
		}

		servers := hub.Servers()
		out := cmd.OutOrStdout()
		if len(servers) == 0 {
			fmt.Fprintln(out, "No MCP servers configured.")
			return nil
		}

		fmt.Fprintf(out, "MCP Servers (%d configured, %d offered):\n\n", len(servers), len(hub.ServerNames()))
		for _, s := range servers {
			config := s.Config
			location := config.URL
			if config.GetType() == mcp.TransportSTDIO {
				location = strings.TrimSpace(config.Command + " " + strings.Join(config.Args, " "))
			}
			state := string(config.GetType())
			if config.Disabled {
				state += ", disabled"
			}
			fmt.Fprintf(out, "  %s [%s] (%s)\n", config.Name, state, config.Scope)
			fmt.Fprintf(out, "    %s\n", location)
		}
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCP server from one scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := resolveCwd()
		if err != nil {
			return err
		}
		scope := parseScope(mcpScope)
		if err := mcp.NewConfigLoader(cwd).Remove(scope, args[0]); err != nil {
			return fmt.Errorf("failed to remove server: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed MCP server '%s' from %s scope\n", args[0], scope)
		return nil
	},
}

var mcpEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Offer an MCP server again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDisabled(cmd, args[0], false)
	},
}

var mcpDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Keep an MCP server configured but stop offering it",
	Long: `Keep an MCP server configured but stop offering it.

The default local scope lets you switch off a server shared in the project's
mcp.json without editing that file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDisabled(cmd, args[0], true)
	},
}

func setDisabled(cmd *cobra.Command, name string, disabled bool) error {
	cwd, err := resolveCwd()
	if err != nil {
		return err
	}
	scope := parseScope(mcpScope)
	if err := mcp.NewConfigLoader(cwd).SetDisabled(scope, name, disabled); err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	state := "Enabled"
	if disabled {
		state = "Disabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s MCP server '%s' in %s scope\n", state, name, scope)
	return nil
}

func parseScope(s string) mcp.Scope {
	switch strings.ToLower(s) {
	case "user", "global":
		return mcp.ScopeUser
	case "project":
		return mcp.ScopeProject
	default:
		return mcp.ScopeLocal
	}
}

// parseKeyValues parses a slice of "key=value" or "key:value" strings into a map
func parseKeyValues(items []string, sep string) map[string]string {
	if len(items) == 0 {
		return nil
	}
	result := make(map[string]string, len(items))
	for _, item := range items {
		if key, value, ok := strings.Cut(item, sep); ok {
			result[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return result
}
