// Package mcp holds Model Context Protocol server configuration and a snapshot
// of what each server exposes. Connecting to servers is the caller's job; the
// snapshot only feeds tool descriptions and the system prompt.
package mcp

import mcpgo "github.com/mark3labs/mcp-go/mcp"

// TransportType defines the type of MCP transport
type TransportType string

const (
	TransportSTDIO TransportType = "stdio"
	TransportHTTP  TransportType = "http"
	TransportSSE   TransportType = "sse"
)

// Scope defines where the MCP configuration is stored
type Scope string

const (
	ScopeUser    Scope = "user"    // ~/.infio/mcp.json (global)
	ScopeProject Scope = "project" // ./.infio/mcp.json (shared with the vault)
	ScopeLocal   Scope = "local"   // ./.infio/mcp.local.json (personal, git-ignored)
)

// ServerConfig represents an MCP server configuration
type ServerConfig struct {
	// Name is the unique identifier for this server
	Name string `json:"name,omitempty"`

	// Type is the transport type (stdio, http, sse). Default is stdio.
	Type TransportType `json:"type,omitempty"`

	// STDIO transport fields
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`

	// HTTP/SSE transport fields
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	// Disabled servers are kept in config but never offered to the model
	Disabled bool `json:"disabled,omitempty"`

	// Scope indicates where this config was loaded from
	Scope Scope `json:"-"`
}

// GetType returns the transport type, defaulting to stdio if not set
func (c *ServerConfig) GetType() TransportType {
	if c.Type == "" {
		if c.URL != "" {
			return TransportHTTP
		}
		return TransportSTDIO
	}
	return c.Type
}

// MCPConfig represents the mcp.json configuration file format
type MCPConfig struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// ServerStatus represents the current status of an MCP server connection
type ServerStatus string

const (
	StatusDisconnected ServerStatus = "disconnected"
	StatusConnecting   ServerStatus = "connecting"
	StatusConnected    ServerStatus = "connected"
	StatusError        ServerStatus = "error"
)

// Server is one entry of the hub snapshot.
type Server struct {
	Config    ServerConfig     `json:"config"`
	Status    ServerStatus     `json:"status"`
	Error     string           `json:"error,omitempty"`
	Tools     []mcpgo.Tool     `json:"tools,omitempty"`
	Resources []mcpgo.Resource `json:"resources,omitempty"`
}
