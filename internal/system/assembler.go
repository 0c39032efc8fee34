package system

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/permission"
	"github.com/yanmxa/infio/internal/tool"
)

// ToolsHeading opens the tool section of the prompt.
const ToolsHeading = "# Tools"

// Assembler turns a mode into the tool section of the system prompt.
// It holds no mutable state; concurrent calls are safe as long as the
// custom mode table and flags passed in are not mutated during a call.
type Assembler struct {
	// Registry renders tool descriptions. Nil means tool.DefaultRegistry.
	Registry *tool.Registry

	// OnDescribeError is called when a describer fails. Returning nil omits
	// the tool and continues; returning an error aborts assembly with it.
	// When unset, describer errors abort assembly.
	OnDescribeError func(name tool.Name, err error) error
}

// DefaultAssembler uses the default registry and propagates describer errors.
var DefaultAssembler = &Assembler{}

func (a *Assembler) registry() *tool.Registry {
	if a == nil || a.Registry == nil {
		return tool.DefaultRegistry
	}
	return a.Registry
}

// ResolveTools returns the tools offered in modeID: every tool of every
// granted group that passes the capability gate, followed by the
// always-available tools, with duplicates removed in first-seen order.
// Resolution errors, including *mode.NotFoundError, are returned unchanged.
func (a *Assembler) ResolveTools(modeID mode.ID, customModes []mode.Config, flags experiment.Flags) ([]tool.Name, error) {
	m, err := mode.Resolve(modeID, customModes)
	if err != nil {
		return nil, err
	}
	return resolveTools(m, flags), nil
}

func resolveTools(m mode.Config, flags experiment.Flags) []tool.Name {
	var names []tool.Name
	for _, entry := range m.Groups {
		members := tool.Expand(entry.Group)
		if members == nil {
			log.Logger().Debug("Skipping unknown tool group",
				zap.String("mode", string(m.Slug)),
				zap.String("group", string(entry.Group)))
			continue
		}
		for _, n := range members {
			if permission.Allowed(n, m, flags) {
				names = append(names, n)
			}
		}
	}
	names = append(names, tool.AlwaysAvailable()...)
	return dedupe(names)
}

// dedupe keeps the first occurrence of each name.
func dedupe(names []tool.Name) []tool.Name {
	seen := make(map[tool.Name]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Assemble renders the tool section for modeID. Tools whose describer
// returns an empty string are omitted. With no describable tools the result
// is the heading alone.
func (a *Assembler) Assemble(modeID mode.ID, args tool.Args, customModes []mode.Config, flags experiment.Flags) (string, error) {
	names, err := a.ResolveTools(modeID, customModes, flags)
	if err != nil {
		return "", err
	}

	reg := a.registry()
	descriptions := make([]string, 0, len(names))
	for _, n := range names {
		desc, err := reg.Describe(n, args)
		if err != nil {
			err = fmt.Errorf("describe %s: %w", n, err)
			if a == nil || a.OnDescribeError == nil {
				return "", err
			}
			if herr := a.OnDescribeError(n, err); herr != nil {
				return "", herr
			}
			continue
		}
		if strings.TrimSpace(desc) == "" {
			continue
		}
		descriptions = append(descriptions, desc)
	}

	if len(descriptions) == 0 {
		return ToolsHeading, nil
	}
	return ToolsHeading + "\n\n" + strings.Join(descriptions, "\n\n"), nil
}

// Assemble renders the tool section with the DefaultAssembler.
func Assemble(modeID mode.ID, args tool.Args, customModes []mode.Config, flags experiment.Flags) (string, error) {
	return DefaultAssembler.Assemble(modeID, args, customModes, flags)
}

// ResolveTools lists the tools offered in modeID with the DefaultAssembler.
func ResolveTools(modeID mode.ID, customModes []mode.Config, flags experiment.Flags) ([]tool.Name, error) {
	return DefaultAssembler.ResolveTools(modeID, customModes, flags)
}
