package mode

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/yanmxa/infio/internal/tool"
)

const auditYAML = `customModes:
  - slug: audit
    name: Audit
    roleDefinition: You review notes for accuracy.
    groups:
      - read
      - - edit
        - fileRegex: \.md$
          description: Markdown only
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParse_GroupForms(t *testing.T) {
	modes, err := Parse([]byte(auditYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(modes) != 1 {
		t.Fatalf("expected 1 mode, got %d", len(modes))
	}
	m := modes[0]
	if m.Slug != "audit" || m.Name != "Audit" {
		t.Errorf("unexpected mode %+v", m)
	}
	if len(m.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(m.Groups))
	}
	if m.Groups[0].Group != tool.GroupRead || m.Groups[0].Options != nil {
		t.Errorf("groups[0] = %+v, want bare read", m.Groups[0])
	}
	edit := m.Groups[1]
	if edit.Group != tool.GroupEdit || edit.Options == nil {
		t.Fatalf("groups[1] = %+v, want restricted edit", edit)
	}
	if edit.Options.FileRegex != `\.md$` || edit.Options.Description != "Markdown only" {
		t.Errorf("options = %+v", edit.Options)
	}
}

func TestParse_JSON(t *testing.T) {
	data := `{"customModes":[{"slug":"reviewer","name":"Reviewer","roleDefinition":"r","groups":["read",["edit",{"fileGlob":"**/*.md"}]]}]}`
	modes, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(modes) != 1 || modes[0].Groups[1].Options.FileGlob != "**/*.md" {
		t.Errorf("unexpected result %+v", modes)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing groups", "customModes:\n  - slug: a\n    name: A\n    roleDefinition: r\n"},
		{"bad slug", "customModes:\n  - slug: 'has space'\n    name: A\n    roleDefinition: r\n    groups: [read]\n"},
		{"unknown option", "customModes:\n  - slug: a\n    name: A\n    roleDefinition: r\n    groups:\n      - [edit, {pathRegex: x}]\n"},
		{"bad regex", "customModes:\n  - slug: a\n    name: A\n    roleDefinition: r\n    groups:\n      - [edit, {fileRegex: '('}]\n"},
		{"duplicate slug", "customModes:\n  - {slug: a, name: A, roleDefinition: r, groups: [read]}\n  - {slug: a, name: B, roleDefinition: r, groups: [read]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Problems) == 0 {
				t.Error("ValidationError has no problems")
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	modes, err := Parse(nil)
	if err != nil || modes != nil {
		t.Errorf("Parse(nil) = %v, %v", modes, err)
	}
}

func TestParse_UnknownGroupTolerated(t *testing.T) {
	data := "customModes:\n  - {slug: a, name: A, roleDefinition: r, groups: [read, telepathy]}\n"
	modes, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unknown groups should not fail parsing: %v", err)
	}
	if len(modes[0].Groups) != 2 {
		t.Errorf("groups = %v", modes[0].Groups)
	}
}

func TestLoader_ProjectOverridesUser(t *testing.T) {
	tmpDir := t.TempDir()
	userDir := filepath.Join(tmpDir, "user", ".infio")
	projectDir := filepath.Join(tmpDir, "project", ".infio")

	writeFile(t, filepath.Join(userDir, "modes.yaml"), `customModes:
  - {slug: audit, name: User Audit, roleDefinition: r, groups: [read]}
  - {slug: journal, name: Journal, roleDefinition: r, groups: [read, edit]}
`)
	writeFile(t, filepath.Join(projectDir, "modes.json"),
		`{"customModes":[{"slug":"audit","name":"Project Audit","roleDefinition":"r","groups":["read"]}]}`)

	modes, err := NewLoaderWithDirs(userDir, projectDir).Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(modes) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(modes))
	}
	if modes[0].Name != "Project Audit" || modes[0].Source != SourceProject {
		t.Errorf("modes[0] = %s (%s), want Project Audit (project)", modes[0].Name, modes[0].Source)
	}
	if modes[1].Slug != "journal" || modes[1].Source != SourceGlobal {
		t.Errorf("modes[1] = %s (%s), want journal (global)", modes[1].Slug, modes[1].Source)
	}
}

func TestLoader_MissingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	modes, err := NewLoaderWithDirs(filepath.Join(tmpDir, "a"), filepath.Join(tmpDir, "b")).Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(modes) != 0 {
		t.Errorf("expected no modes, got %d", len(modes))
	}
}

func TestLoader_InvalidFileReportsPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "modes.yaml")
	writeFile(t, path, "customModes:\n  - slug: a\n")

	_, err := NewLoaderWithDirs(tmpDir, filepath.Join(tmpDir, "none")).Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should mention %s", err, path)
	}
}

func TestGroupEntry_MarshalRoundTrip(t *testing.T) {
	m := Config{
		Slug:           "audit",
		Name:           "Audit",
		RoleDefinition: "r",
		Groups: []GroupEntry{
			Group(tool.GroupRead),
			RestrictedGroup(tool.GroupEdit, GroupOptions{FileRegex: `\.md$`}),
		},
	}
	out, err := yaml.Marshal(modesFile{CustomModes: []Config{m}})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	modes, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse of marshalled output failed: %v\n%s", err, out)
	}
	if modes[0].Groups[1].Options == nil || modes[0].Groups[1].Options.FileRegex != `\.md$` {
		t.Errorf("restricted group lost in round trip:\n%s", out)
	}
}
