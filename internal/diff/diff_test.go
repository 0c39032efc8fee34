package diff

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"search-replace", false, false},
		{" Unified ", false, false},
		{"patience", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name, 0.9)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if (s == nil) != tt.wantNil {
				t.Errorf("New(%q) = %v, wantNil %v", tt.name, s, tt.wantNil)
			}
		})
	}
}

func TestSearchReplaceDescription(t *testing.T) {
	exact := (&SearchReplace{}).ToolDescription("/vault", nil)
	if !strings.Contains(exact, "## apply_diff") || !strings.Contains(exact, "<<<<<<< SEARCH") {
		t.Errorf("missing core content:\n%s", exact)
	}
	if !strings.Contains(exact, "/vault") {
		t.Error("description should mention the working directory")
	}
	if !strings.Contains(exact, "<path>"+defaultExamplePath+"</path>") {
		t.Error("description should use the default example path")
	}
	if strings.Contains(exact, "similarity") {
		t.Error("exact strategy should not mention similarity")
	}

	fuzzy := (&SearchReplace{FuzzyThreshold: 0.85}).ToolDescription("/vault", map[string]string{"path": "inbox.md"})
	if !strings.Contains(fuzzy, "85% similarity") {
		t.Errorf("fuzzy strategy should state its threshold:\n%s", fuzzy)
	}
	if !strings.Contains(fuzzy, "<path>inbox.md</path>") {
		t.Error("path option should override the example path")
	}
}

func TestUnifiedDescription(t *testing.T) {
	out := (&Unified{}).ToolDescription("/vault", nil)
	for _, want := range []string{
		"--- a/" + defaultExamplePath,
		"+++ b/" + defaultExamplePath,
		"-- [ ] Inbox zero",
		"+- [x] Inbox zero",
		"+- [ ] Archive old projects",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("unified description missing %q:\n%s", want, out)
		}
	}
}

func TestUnifiedDiffNoChange(t *testing.T) {
	if got := UnifiedDiff("a.md", "same\n", "same\n"); got != "" {
		t.Errorf("UnifiedDiff of identical input = %q, want empty", got)
	}
}
