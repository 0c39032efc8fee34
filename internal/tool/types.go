package tool

// Name identifies a tool the assistant can be offered.
type Name string

const (
	ReadFile            Name = "read_file"
	WriteToFile         Name = "write_to_file"
	SearchFiles         Name = "search_files"
	ListFiles           Name = "list_files"
	AskFollowupQuestion Name = "ask_followup_question"
	AttemptCompletion   Name = "attempt_completion"
	SwitchMode          Name = "switch_mode"
	InsertContent       Name = "insert_content"
	UseMCPTool          Name = "use_mcp_tool"
	AccessMCPResource   Name = "access_mcp_resource"
	SearchAndReplace    Name = "search_and_replace"
	ApplyDiff           Name = "apply_diff"
	SearchWeb           Name = "search_web"
	FetchURLsContent    Name = "fetch_urls_content"
	BrowserAction       Name = "browser_action"
)

// allNames lists every tool in declaration order.
var allNames = []Name{
	ReadFile,
	WriteToFile,
	SearchFiles,
	ListFiles,
	AskFollowupQuestion,
	AttemptCompletion,
	SwitchMode,
	InsertContent,
	UseMCPTool,
	AccessMCPResource,
	SearchAndReplace,
	ApplyDiff,
	SearchWeb,
	FetchURLsContent,
	BrowserAction,
}

// All returns every known tool name.
func All() []Name {
	return append([]Name(nil), allNames...)
}

// ParseName maps a raw identifier to a known tool name.
func ParseName(s string) (Name, bool) {
	for _, n := range allNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Valid reports whether n is a known tool name.
func (n Name) Valid() bool {
	_, ok := ParseName(string(n))
	return ok
}

// File search methods understood by search_files.
const (
	SearchMethodMatch    = "match"
	SearchMethodRegex    = "regex"
	SearchMethodSemantic = "semantic"
	SearchMethodAuto     = "auto"
)

// FilesSearchSettings configures how search_files is described.
type FilesSearchSettings struct {
	Method       string `json:"method,omitempty"`       // match, regex, semantic, auto
	RegexBackend string `json:"regexBackend,omitempty"` // coreplugin, ripgrep
	MatchBackend string `json:"matchBackend,omitempty"` // omnisearch, coreplugin
	RipgrepPath  string `json:"ripgrepPath,omitempty"`
}

// DiffStrategy describes how patch-style edits are expressed.
// It is supplied by the caller and never registered globally.
type DiffStrategy interface {
	ToolDescription(cwd string, opts map[string]string) string
}

// MCPHub is the view of a live MCP hub that descriptions need.
type MCPHub interface {
	// Available reports whether at least one enabled server is configured.
	// It must be false for a nil hub.
	Available() bool
	ServerNames() []string
}

// Args are the invocation parameters shared by every describer for one assembly.
type Args struct {
	Cwd                 string
	SearchSettings      FilesSearchSettings
	SearchTool          string // active web search backend; empty disables search_web
	SupportsComputerUse bool
	DiffStrategy        DiffStrategy
	BrowserViewportSize string
	MCPHub              MCPHub
	ToolOptions         map[string]string
}

// Describer renders the calling convention of one tool.
// An empty result with a nil error means the tool does not apply to args.
type Describer interface {
	Describe(args Args) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(args Args) (string, error)

// Describe calls f(args).
func (f DescriberFunc) Describe(args Args) (string, error) {
	return f(args)
}
