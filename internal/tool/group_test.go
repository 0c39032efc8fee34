package tool

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		group GroupName
		want  []Name
	}{
		{GroupRead, []Name{ReadFile, SearchFiles, ListFiles}},
		{GroupEdit, []Name{ApplyDiff, WriteToFile, InsertContent, SearchAndReplace}},
		{GroupResearch, []Name{SearchWeb, FetchURLsContent}},
		{GroupBrowser, []Name{BrowserAction}},
		{GroupMCP, []Name{UseMCPTool, AccessMCPResource}},
		{GroupModes, []Name{SwitchMode}},
		{GroupName("command"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.group), func(t *testing.T) {
			if got := Expand(tt.group); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand(%q) = %v, want %v", tt.group, got, tt.want)
			}
		})
	}
}

func TestExpandReturnsCopy(t *testing.T) {
	got := Expand(GroupRead)
	got[0] = "mutated"
	if Expand(GroupRead)[0] != ReadFile {
		t.Error("Expand should not expose the catalogue")
	}
	always := AlwaysAvailable()
	always[0] = "mutated"
	if AlwaysAvailable()[0] != AskFollowupQuestion {
		t.Error("AlwaysAvailable should not expose the catalogue")
	}
}

func TestAlwaysAvailable(t *testing.T) {
	want := []Name{AskFollowupQuestion, AttemptCompletion}
	if got := AlwaysAvailable(); !reflect.DeepEqual(got, want) {
		t.Errorf("AlwaysAvailable() = %v, want %v", got, want)
	}
	if !IsAlwaysAvailable(AttemptCompletion) || IsAlwaysAvailable(ReadFile) {
		t.Error("IsAlwaysAvailable mismatch")
	}
}

func TestCatalogueReferencesKnownTools(t *testing.T) {
	for _, g := range Groups() {
		if !g.Valid() {
			t.Errorf("group %q not valid", g)
		}
		for _, n := range Expand(g) {
			if !n.Valid() {
				t.Errorf("group %q references unknown tool %q", g, n)
			}
		}
	}
}

func TestGroupsOf(t *testing.T) {
	if got := GroupsOf(WriteToFile); !reflect.DeepEqual(got, []GroupName{GroupEdit}) {
		t.Errorf("GroupsOf(write_to_file) = %v", got)
	}
	if got := GroupsOf(AttemptCompletion); got != nil {
		t.Errorf("GroupsOf(attempt_completion) = %v, want nil", got)
	}
}
