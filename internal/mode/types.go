// Package mode resolves operating modes to the tool groups they grant.
// Built-in modes are compiled in; custom modes are loaded from YAML or JSON
// files and take precedence over a built-in mode with the same slug.
package mode

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/yanmxa/infio/internal/tool"
)

// ID is a mode slug such as "ask" or "write".
type ID string

// Source records where a mode definition came from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceGlobal  Source = "global"  // ~/.infio/modes.yaml
	SourceProject Source = "project" // .infio/modes.yaml
)

// GroupOptions qualifies a granted group.
type GroupOptions struct {
	// FileRegex restricts file-touching tools to paths matching this regular expression
	FileRegex string `yaml:"fileRegex,omitempty" json:"fileRegex,omitempty"`

	// FileGlob restricts file-touching tools to paths matching this doublestar glob
	FileGlob string `yaml:"fileGlob,omitempty" json:"fileGlob,omitempty"`

	// Description explains the restriction to the model, e.g. "Markdown files only"
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Allows reports whether path satisfies every pattern set on o.
// A nil receiver allows everything.
func (o *GroupOptions) Allows(path string) (bool, error) {
	if o == nil {
		return true, nil
	}
	if o.FileRegex != "" {
		re, err := regexp.Compile(o.FileRegex)
		if err != nil {
			return false, fmt.Errorf("invalid fileRegex %q: %w", o.FileRegex, err)
		}
		if !re.MatchString(path) {
			return false, nil
		}
	}
	if o.FileGlob != "" {
		ok, err := doublestar.Match(o.FileGlob, filepath.ToSlash(path))
		if err != nil {
			return false, fmt.Errorf("invalid fileGlob %q: %w", o.FileGlob, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// validate checks that the patterns compile.
func (o *GroupOptions) validate() error {
	if o == nil {
		return nil
	}
	if o.FileRegex != "" {
		if _, err := regexp.Compile(o.FileRegex); err != nil {
			return fmt.Errorf("invalid fileRegex %q: %w", o.FileRegex, err)
		}
	}
	if o.FileGlob != "" && !doublestar.ValidatePattern(o.FileGlob) {
		return fmt.Errorf("invalid fileGlob %q", o.FileGlob)
	}
	return nil
}

// GroupEntry grants one tool group, optionally qualified.
// In YAML it is either a bare name ("read") or a pair ([edit, {fileRegex: ...}]).
type GroupEntry struct {
	Group   tool.GroupName
	Options *GroupOptions
}

// Group returns an unqualified entry.
func Group(g tool.GroupName) GroupEntry {
	return GroupEntry{Group: g}
}

// RestrictedGroup returns an entry qualified by opts.
func RestrictedGroup(g tool.GroupName, opts GroupOptions) GroupEntry {
	return GroupEntry{Group: g, Options: &opts}
}

// UnmarshalYAML accepts both the bare and the pair form.
func (e *GroupEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		e.Group = tool.GroupName(value.Value)
		e.Options = nil
		return nil
	case yaml.SequenceNode:
		if len(value.Content) != 2 || value.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: group entry must be [name, options]", value.Line)
		}
		var opts GroupOptions
		if err := value.Content[1].Decode(&opts); err != nil {
			return fmt.Errorf("line %d: group options: %w", value.Line, err)
		}
		e.Group = tool.GroupName(value.Content[0].Value)
		e.Options = &opts
		return nil
	default:
		return fmt.Errorf("line %d: group entry must be a name or [name, options]", value.Line)
	}
}

// MarshalYAML writes the bare form when there are no options.
func (e GroupEntry) MarshalYAML() (interface{}, error) {
	if e.Options == nil {
		return string(e.Group), nil
	}
	return []interface{}{string(e.Group), e.Options}, nil
}

// Config is the full definition of one mode.
type Config struct {
	Slug               ID           `yaml:"slug"`
	Name               string       `yaml:"name"`
	RoleDefinition     string       `yaml:"roleDefinition"`
	CustomInstructions string       `yaml:"customInstructions,omitempty"`
	Groups             []GroupEntry `yaml:"groups"`

	// Source is set by whoever produced the config
	Source Source `yaml:"-"`
}

// Grants returns the entry granting g, if any. The first matching entry wins.
func (c Config) Grants(g tool.GroupName) (GroupEntry, bool) {
	for _, e := range c.Groups {
		if e.Group == g {
			return e, true
		}
	}
	return GroupEntry{}, false
}

// GroupNames returns the granted group names in declaration order.
func (c Config) GroupNames() []tool.GroupName {
	names := make([]tool.GroupName, 0, len(c.Groups))
	for _, e := range c.Groups {
		names = append(names, e.Group)
	}
	return names
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Groups = make([]GroupEntry, len(c.Groups))
	for i, e := range c.Groups {
		out.Groups[i] = e
		if e.Options != nil {
			opts := *e.Options
			out.Groups[i].Options = &opts
		}
	}
	return out
}

// CloneAll deep-copies a mode table.
func CloneAll(modes []Config) []Config {
	if modes == nil {
		return nil
	}
	out := make([]Config, len(modes))
	for i, m := range modes {
		out[i] = m.Clone()
	}
	return out
}
