package tool

// defaultViewportSize is used by browser_action when no size is configured.
const defaultViewportSize = "900x600"

// describeApplyDiff delegates to the configured diff strategy.
func describeApplyDiff(args Args) (string, error) {
	if args.DiffStrategy == nil {
		return "", nil
	}
	return args.DiffStrategy.ToolDescription(args.Cwd, args.ToolOptions), nil
}

func describeUseMCPTool(args Args) (string, error) {
	server, ok := mcpServer(args.MCPHub)
	if !ok {
		return "", nil
	}
	return render(UseMCPTool, descriptionData{Args: args, Server: server})
}

func describeAccessMCPResource(args Args) (string, error) {
	server, ok := mcpServer(args.MCPHub)
	if !ok {
		return "", nil
	}
	return render(AccessMCPResource, descriptionData{Args: args, Server: server})
}

// mcpServer returns the server named in usage examples, or false when the hub
// has nothing to offer.
func mcpServer(hub MCPHub) (string, bool) {
	if hub == nil || !hub.Available() {
		return "", false
	}
	names := hub.ServerNames()
	if len(names) == 0 || names[0] == "" {
		return "", false
	}
	return names[0], true
}

func describeSearchWeb(args Args) (string, error) {
	if args.SearchTool == "" {
		return "", nil
	}
	return render(SearchWeb, descriptionData{Args: args, Backend: args.SearchTool})
}

func describeBrowserAction(args Args) (string, error) {
	if !args.SupportsComputerUse {
		return "", nil
	}
	viewport := args.BrowserViewportSize
	if viewport == "" {
		viewport = defaultViewportSize
	}
	return render(BrowserAction, descriptionData{Args: args, Viewport: viewport})
}
