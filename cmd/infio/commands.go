package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/permission"
	"github.com/yanmxa/infio/internal/system"
	"github.com/yanmxa/infio/internal/tool"
)

var (
	toolsDescribe bool
	checkPath     string
	modesWatch    bool
)

func init() {
	toolsCmd.Flags().BoolVarP(&toolsDescribe, "describe", "d", false, "Print the full tool section instead of names")
	checkCmd.Flags().StringVarP(&checkPath, "path", "p", "", "File the tool would touch")
	modesCmd.Flags().BoolVarP(&modesWatch, "watch", "w", false, "Reprint the table when mode files change")
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available in a mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		custom := s.store.Snapshot()

		if toolsDescribe {
			section, err := system.Assemble(s.mode, s.args, custom, s.flags)
			if err != nil {
				return err
			}
			return output(cmd, section)
		}

		names, err := system.ResolveTools(s.mode, custom, s.flags)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, describeOrigin(name))
		}
		return w.Flush()
	},
}

// describeOrigin names what makes a tool available.
func describeOrigin(name tool.Name) string {
	if tool.IsAlwaysAvailable(name) {
		return "always"
	}
	var groups []string
	for _, g := range tool.GroupsOf(name) {
		groups = append(groups, string(g))
	}
	return strings.Join(groups, ",")
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt for a mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		prompt := system.BuildPrompt(system.Config{
			Mode:               s.mode,
			CustomModes:        s.store.Snapshot(),
			Experiments:        s.flags,
			Args:               s.args,
			Hub:                s.hub,
			Model:              s.settings.Model,
			IsGit:              isGitRepo(s.cwd),
			CustomInstructions: s.settings.CustomInstructions,
		})
		return output(cmd, prompt)
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List built-in and custom modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		if err := printModes(cmd, s.store.Snapshot(), s.mode); err != nil {
			return err
		}
		if !modesWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s.store.OnChange(func(custom []mode.Config) {
			fmt.Fprintln(cmd.OutOrStdout())
			_ = printModes(cmd, custom, s.mode)
		})
		return s.store.Watch(ctx)
	},
}

func printModes(cmd *cobra.Command, custom []mode.Config, current mode.ID) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tSLUG\tNAME\tSOURCE\tGROUPS")
	for _, m := range mode.All(custom) {
		marker := ""
		if m.Slug == current {
			marker = "*"
		}
		var groups []string
		for _, e := range m.Groups {
			g := string(e.Group)
			if e.Options != nil {
				g += "(restricted)"
			}
			groups = append(groups, g)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, m.Slug, m.Name, m.Source, strings.Join(groups, ","))
	}
	return w.Flush()
}

var checkCmd = &cobra.Command{
	Use:   "check [tool]",
	Short: "Check whether a mode may use a tool",
	Long: `Check whether a mode may use a tool.

With --path, the file qualifiers of the mode's groups are checked too.
Without a tool, the decision for every tool is listed.

Examples:
  infio check --mode research
  infio check write_to_file --mode write
  infio check use_mcp_tool --mode research
  infio check write_to_file --mode journal --path journal/2025/03-14.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}

		var params map[string]any
		if checkPath != "" {
			params = map[string]any{permission.PathParam: checkPath}
		}

		if len(args) == 0 {
			checker, err := permission.ForMode(s.mode, s.store.Snapshot(), s.flags)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range tool.All() {
				fmt.Fprintf(w, "%s\t%s\n", name, checker.Check(string(name), params))
			}
			return w.Flush()
		}

		name, ok := tool.ParseName(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		if err := permission.ValidateToolUse(name, s.mode, s.store.Snapshot(), s.flags, params); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is allowed in %s mode\n", name, s.mode)
		return nil
	},
}
