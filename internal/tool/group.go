package tool

// GroupName identifies a bundle of tools granted together by a mode.
type GroupName string

const (
	GroupRead     GroupName = "read"
	GroupEdit     GroupName = "edit"
	GroupResearch GroupName = "research"
	GroupBrowser  GroupName = "browser"
	GroupMCP      GroupName = "mcp"
	GroupModes    GroupName = "modes"
)

// groupOrder is the declaration order of the catalogue.
var groupOrder = []GroupName{
	GroupRead,
	GroupEdit,
	GroupResearch,
	GroupBrowser,
	GroupMCP,
	GroupModes,
}

var toolGroups = map[GroupName][]Name{
	GroupRead:     {ReadFile, SearchFiles, ListFiles},
	GroupEdit:     {ApplyDiff, WriteToFile, InsertContent, SearchAndReplace},
	GroupResearch: {SearchWeb, FetchURLsContent},
	GroupBrowser:  {BrowserAction},
	GroupMCP:      {UseMCPTool, AccessMCPResource},
	GroupModes:    {SwitchMode},
}

// alwaysAvailable tools are offered in every mode and are never gated.
var alwaysAvailable = []Name{
	AskFollowupQuestion,
	AttemptCompletion,
}

// Groups returns every group name in catalogue order.
func Groups() []GroupName {
	return append([]GroupName(nil), groupOrder...)
}

// Valid reports whether g is a catalogued group.
func (g GroupName) Valid() bool {
	_, ok := toolGroups[g]
	return ok
}

// Expand returns the tools of group g in declaration order.
// Unknown groups expand to nil.
func Expand(g GroupName) []Name {
	tools, ok := toolGroups[g]
	if !ok {
		return nil
	}
	return append([]Name(nil), tools...)
}

// AlwaysAvailable returns the tools offered regardless of mode.
func AlwaysAvailable() []Name {
	return append([]Name(nil), alwaysAvailable...)
}

// IsAlwaysAvailable reports whether n is offered regardless of mode.
func IsAlwaysAvailable(n Name) bool {
	for _, t := range alwaysAvailable {
		if t == n {
			return true
		}
	}
	return false
}

// GroupsOf returns the groups that contain n, in catalogue order.
func GroupsOf(n Name) []GroupName {
	var groups []GroupName
	for _, g := range groupOrder {
		for _, t := range toolGroups[g] {
			if t == n {
				groups = append(groups, g)
				break
			}
		}
	}
	return groups
}
