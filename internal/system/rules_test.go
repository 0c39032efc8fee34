package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yanmxa/infio/internal/mode"
)

func TestResolveImports(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "infio-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create test files
	mainContent := `# Main File
@imported.md
Some content after import`

	importedContent := `## Imported Content
This was imported from another file.`

	if err := os.WriteFile(filepath.Join(tmpDir, "main.md"), []byte(mainContent), 0644); err != nil {
		t.Fatalf("Failed to write main.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "imported.md"), []byte(importedContent), 0644); err != nil {
		t.Fatalf("Failed to write imported.md: %v", err)
	}

	// Test import resolution
	seen := make(map[string]bool)
	result := resolveImports(mainContent, tmpDir, 0, seen)

	// Verify import was resolved
	if !strings.Contains(result, "<!-- Imported: imported.md -->") {
		t.Errorf("Expected import comment, got: %s", result)
	}
	if !strings.Contains(result, "This was imported from another file.") {
		t.Errorf("Expected imported content, got: %s", result)
	}
	if !strings.Contains(result, "Some content after import") {
		t.Errorf("Expected content after import, got: %s", result)
	}
}

func TestResolveImportsCycle(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "infio-test-cycle")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create files that reference each other (cycle)
	file1Content := `# File 1
@file2.md`

	file2Content := `# File 2
@file1.md`

	if err := os.WriteFile(filepath.Join(tmpDir, "file1.md"), []byte(file1Content), 0644); err != nil {
		t.Fatalf("Failed to write file1.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "file2.md"), []byte(file2Content), 0644); err != nil {
		t.Fatalf("Failed to write file2.md: %v", err)
	}

	// Test cycle detection
	seen := make(map[string]bool)
	seen[filepath.Join(tmpDir, "file1.md")] = true // Simulate file1.md already seen
	result := resolveImports(file1Content, tmpDir, 0, seen)

	// file2 should be imported, but file1 should be skipped (cycle)
	if !strings.Contains(result, "# File 2") {
		t.Errorf("Expected file2 content, got: %s", result)
	}
	// The cycle comment includes the @ prefix from the original match
	if !strings.Contains(result, "Skipped (cycle)") {
		t.Errorf("Expected cycle skip comment, got: %s", result)
	}
}

func TestResolveImportsNotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "infio-test-notfound")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	content := `# Test
@nonexistent.md`

	seen := make(map[string]bool)
	result := resolveImports(content, tmpDir, 0, seen)

	// The not found comment includes the path from the match
	if !strings.Contains(result, "Import not found") {
		t.Errorf("Expected not found comment, got: %s", result)
	}
}

func TestResolveImportsMaxDepth(t *testing.T) {
	content := `@deep.md`

	seen := make(map[string]bool)
	// Start at max depth - should not process imports
	result := resolveImports(content, "/tmp", maxImportDepth, seen)

	// Should return content unchanged
	if result != content {
		t.Errorf("Expected unchanged content at max depth, got: %s", result)
	}
}

func TestLoadRulesDirectory(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "infio-test-rules")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	rulesDir := filepath.Join(tmpDir, "rules")
	if err := os.MkdirAll(rulesDir, 0755); err != nil {
		t.Fatalf("Failed to create rules dir: %v", err)
	}

	// Create rule files
	if err := os.WriteFile(filepath.Join(rulesDir, "linking.md"), []byte("# Linking Rules"), 0644); err != nil {
		t.Fatalf("Failed to write coding.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(rulesDir, "tagging.md"), []byte("# Tagging Rules"), 0644); err != nil {
		t.Fatalf("Failed to write security.md: %v", err)
	}
	// Non-md file should be ignored
	if err := os.WriteFile(filepath.Join(rulesDir, "readme.txt"), []byte("Ignore me"), 0644); err != nil {
		t.Fatalf("Failed to write readme.txt: %v", err)
	}

	seen := make(map[string]bool)
	files := loadRulesDirectory(rulesDir, "project", seen)

	if len(files) != 2 {
		t.Errorf("Expected 2 rule files, got %d", len(files))
	}

	// Check files are loaded in alphabetical order
	if len(files) > 0 && !strings.Contains(files[0].Path, "linking.md") {
		t.Errorf("Expected linking.md first (alphabetical), got: %s", files[0].Path)
	}
	if len(files) > 1 && !strings.Contains(files[1].Path, "tagging.md") {
		t.Errorf("Expected tagging.md second, got: %s", files[1].Path)
	}
}

func TestResolveImportsNested(t *testing.T) {
	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "infio-test-nested")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create nested import chain: a.md -> b.md -> c.md
	aContent := `# Level A
@b.md
After B import`

	bContent := `## Level B
@c.md
After C import`

	cContent := `### Level C
Deepest content`

	if err := os.WriteFile(filepath.Join(tmpDir, "a.md"), []byte(aContent), 0644); err != nil {
		t.Fatalf("Failed to write a.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b.md"), []byte(bContent), 0644); err != nil {
		t.Fatalf("Failed to write b.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "c.md"), []byte(cContent), 0644); err != nil {
		t.Fatalf("Failed to write c.md: %v", err)
	}

	// Test nested import resolution
	seen := make(map[string]bool)
	result := resolveImports(aContent, tmpDir, 0, seen)

	// Verify all levels are imported
	if !strings.Contains(result, "<!-- Imported: b.md -->") {
		t.Errorf("Expected b.md import comment, got: %s", result)
	}
	if !strings.Contains(result, "<!-- Imported: c.md -->") {
		t.Errorf("Expected c.md import comment, got: %s", result)
	}
	if !strings.Contains(result, "Deepest content") {
		t.Errorf("Expected deepest content from c.md, got: %s", result)
	}
	if !strings.Contains(result, "After C import") {
		t.Errorf("Expected content after C import from b.md, got: %s", result)
	}
	if !strings.Contains(result, "After B import") {
		t.Errorf("Expected content after B import from a.md, got: %s", result)
	}
}

func TestResolveImportsRelativePath(t *testing.T) {
	// Create temp directory with subdirectory
	tmpDir, err := os.MkdirTemp("", "infio-test-relative")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	subDir := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	// Create files with relative path import
	mainContent := `# Main
@./subdir/nested.md`

	nestedContent := `## Nested
Nested content here`

	if err := os.WriteFile(filepath.Join(tmpDir, "main.md"), []byte(mainContent), 0644); err != nil {
		t.Fatalf("Failed to write main.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "nested.md"), []byte(nestedContent), 0644); err != nil {
		t.Fatalf("Failed to write nested.md: %v", err)
	}

	// Test relative path import resolution
	seen := make(map[string]bool)
	result := resolveImports(mainContent, tmpDir, 0, seen)

	if !strings.Contains(result, "<!-- Imported: ./subdir/nested.md -->") {
		t.Errorf("Expected nested import comment, got: %s", result)
	}
	if !strings.Contains(result, "Nested content here") {
		t.Errorf("Expected nested content, got: %s", result)
	}
}

func TestGetRulePaths(t *testing.T) {
	paths := GetRulePaths("/vault", mode.Write)

	if len(paths.Project) != 2 {
		t.Errorf("Expected 2 project paths, got %d", len(paths.Project))
	}
	if len(paths.Local) != 1 || !strings.HasSuffix(paths.Local[0], "INFIO.local.md") {
		t.Errorf("Expected INFIO.local.md in local paths, got: %v", paths.Local)
	}
	if paths.ModeRules != filepath.Join("/vault", ".infio", "rules-write") {
		t.Errorf("Unexpected mode rules dir: %s", paths.ModeRules)
	}
}

func TestLoadRuleFiles(t *testing.T) {
	tmpDir := t.TempDir()
	infioDir := filepath.Join(tmpDir, ".infio")
	for _, dir := range []string{
		filepath.Join(infioDir, "rules"),
		filepath.Join(infioDir, "rules-write"),
		filepath.Join(infioDir, "rules-ask"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	files := map[string]string{
		filepath.Join(infioDir, "INFIO.md"):                "# Vault Notes\n@extra.md\nEnd of notes",
		filepath.Join(infioDir, "extra.md"):                "This was imported",
		filepath.Join(infioDir, "rules", "links.md"):       "Use wiki links.",
		filepath.Join(infioDir, "rules-write", "style.md"): "Write in plain English.",
		filepath.Join(infioDir, "rules-ask", "answers.md"): "Cite note titles.",
		filepath.Join(infioDir, "INFIO.local.md"):          "Local only.",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	paths := GetRulePaths(tmpDir, mode.Write)
	paths.Global = nil
	paths.GlobalRules = filepath.Join(tmpDir, "no-home")

	loaded := LoadRuleFiles(paths)
	wantLevels := []string{"project", "project", "mode", "local"}
	if len(loaded) != len(wantLevels) {
		t.Fatalf("Expected %d files, got %d", len(wantLevels), len(loaded))
	}
	for i, level := range wantLevels {
		if loaded[i].Level != level {
			t.Errorf("files[%d].Level = %s, want %s", i, loaded[i].Level, level)
		}
	}
	if !strings.Contains(loaded[0].Content, "This was imported") {
		t.Errorf("Expected imported content, got: %s", loaded[0].Content)
	}
	for _, f := range loaded {
		if strings.Contains(f.Content, "Cite note titles.") {
			t.Error("rules for another mode should not be loaded")
		}
	}
}
