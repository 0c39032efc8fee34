package permission

import (
	"fmt"
	"strings"

	"github.com/yanmxa/infio/internal/experiment"
	"github.com/yanmxa/infio/internal/mode"
	"github.com/yanmxa/infio/internal/tool"
)

// PathParam is the tool parameter checked against a group's file qualifier.
const PathParam = "path"

// ToolNotAllowedError reports a call to a tool the mode does not offer.
type ToolNotAllowedError struct {
	Tool tool.Name
	Mode mode.ID
}

func (e *ToolNotAllowedError) Error() string {
	return fmt.Sprintf("tool %q is not allowed in %s mode", e.Tool, e.Mode)
}

// FileRestrictionError reports an edit outside the files a mode may touch.
type FileRestrictionError struct {
	Tool        tool.Name
	Mode        mode.ID
	Path        string
	Patterns    []string
	Description string
}

func (e *FileRestrictionError) Error() string {
	msg := fmt.Sprintf("%s mode can only edit files matching %s, got %s",
		e.Mode, strings.Join(e.Patterns, " or "), e.Path)
	if e.Description != "" {
		msg += " (" + e.Description + ")"
	}
	return msg
}

// ValidateToolUse checks a concrete tool call against the mode.
// Besides the gate it enforces fileRegex/fileGlob qualifiers on the groups
// granting the tool, using the call's path parameter.
func ValidateToolUse(name tool.Name, modeID mode.ID, customModes []mode.Config, flags experiment.Flags, params map[string]any) error {
	if tool.IsAlwaysAvailable(name) {
		return nil
	}
	m, err := mode.Resolve(modeID, customModes)
	if err != nil {
		return err
	}
	return validateIn(name, m, flags, params)
}

func validateIn(name tool.Name, m mode.Config, flags experiment.Flags, params map[string]any) error {
	if !allowedIn(name, m, flags) {
		return &ToolNotAllowedError{Tool: name, Mode: m.Slug}
	}

	path, _ := params[PathParam].(string)
	if path == "" {
		return nil
	}

	// Only edit grants carry file qualifiers; any other grant is unrestricted.
	var rejected []*mode.GroupOptions
	for _, e := range grantingEntries(name, m) {
		if e.Group != tool.GroupEdit {
			return nil
		}
		ok, err := e.Options.Allows(path)
		if err != nil {
			return fmt.Errorf("%s mode: %w", m.Slug, err)
		}
		if ok {
			return nil
		}
		rejected = append(rejected, e.Options)
	}

	ferr := &FileRestrictionError{Tool: name, Mode: m.Slug, Path: path}
	for _, o := range rejected {
		if o.FileRegex != "" {
			ferr.Patterns = append(ferr.Patterns, o.FileRegex)
		}
		if o.FileGlob != "" {
			ferr.Patterns = append(ferr.Patterns, o.FileGlob)
		}
		if ferr.Description == "" {
			ferr.Description = o.Description
		}
	}
	return ferr
}

type modeChecker struct {
	mode  mode.Config
	flags experiment.Flags
}

func (c modeChecker) Check(name string, params map[string]any) Decision {
	n, ok := tool.ParseName(name)
	if !ok {
		return Reject
	}
	if validateIn(n, c.mode, c.flags, params) != nil {
		return Reject
	}
	return Permit
}

// ForMode returns a Checker that permits exactly the calls ValidateToolUse accepts.
func ForMode(modeID mode.ID, customModes []mode.Config, flags experiment.Flags) (Checker, error) {
	m, err := mode.Resolve(modeID, customModes)
	if err != nil {
		return nil, err
	}
	return modeChecker{mode: m.Clone(), flags: flags.Clone()}, nil
}
