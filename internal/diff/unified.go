package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

const (
	exampleBefore = "# Weekly review\n- [ ] Inbox zero\n- [ ] Plan next week\n"
	exampleAfter  = "# Weekly review\n- [x] Inbox zero\n- [ ] Plan next week\n- [ ] Archive old projects\n"
)

// Unified asks the model for unified diffs.
type Unified struct{}

// ToolDescription implements tool.DiffStrategy.
func (u *Unified) ToolDescription(cwd string, opts map[string]string) string {
	path := examplePath(opts)
	return execute("unified.tmpl", struct {
		Cwd     string
		Path    string
		Example string
	}{
		Cwd:     cwd,
		Path:    path,
		Example: UnifiedDiff(path, exampleBefore, exampleAfter),
	})
}

// UnifiedDiff renders the unified diff between before and after.
func UnifiedDiff(path, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+path, "b/"+path, before, edits))
}
