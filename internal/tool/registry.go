package tool

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps tool names to their describers
type Registry struct {
	mu         sync.RWMutex
	describers map[Name]Describer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		describers: make(map[Name]Describer),
	}
}

// Register adds or replaces the describer for name
func (r *Registry) Register(name Name, d Describer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.describers[name] = d
}

// Get retrieves the describer for name
func (r *Registry) Get(name Name) (Describer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.describers[name]
	return d, ok
}

// Describe renders the description of name for args.
// Names without a describer render as "" so callers can skip them.
func (r *Registry) Describe(name Name, args Args) (string, error) {
	d, ok := r.Get(name)
	if !ok {
		return "", nil
	}
	return d.Describe(args)
}

// Validate checks that every known tool has a describer.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var missing []string
	for _, n := range allNames {
		if _, ok := r.describers[n]; !ok {
			missing = append(missing, string(n))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tools without describer: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DefaultRegistry holds the built-in describer of every tool
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range []Name{
		ReadFile,
		WriteToFile,
		ListFiles,
		AskFollowupQuestion,
		AttemptCompletion,
		SwitchMode,
		InsertContent,
		SearchAndReplace,
		FetchURLsContent,
	} {
		r.Register(n, templateDescriber{name: n})
	}
	r.Register(SearchFiles, DescriberFunc(describeSearchFiles))
	r.Register(ApplyDiff, DescriberFunc(describeApplyDiff))
	r.Register(UseMCPTool, DescriberFunc(describeUseMCPTool))
	r.Register(AccessMCPResource, DescriberFunc(describeAccessMCPResource))
	r.Register(SearchWeb, DescriberFunc(describeSearchWeb))
	r.Register(BrowserAction, DescriberFunc(describeBrowserAction))
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

// Describe renders a tool from the default registry
func Describe(name Name, args Args) (string, error) {
	return DefaultRegistry.Describe(name, args)
}
