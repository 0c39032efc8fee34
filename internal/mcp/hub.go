package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/log"
	"github.com/yanmxa/infio/internal/tool"
)

var _ tool.MCPHub = (*Hub)(nil)

// Hub is a thread-safe snapshot of configured MCP servers and what they expose.
// All methods are safe on a nil *Hub.
type Hub struct {
	mu      sync.RWMutex
	servers map[string]*Server
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{servers: make(map[string]*Server)}
}

// NewHubFromConfigs creates a hub with every configured server disconnected.
func NewHubFromConfigs(configs []ServerConfig) *Hub {
	h := NewHub()
	for _, cfg := range configs {
		h.AddServer(cfg)
	}
	return h
}

// LoadHub reads the merged server configs for cwd and returns a hub over them.
func LoadHub(cwd string) (*Hub, error) {
	configs, err := NewConfigLoader(cwd).Load()
	if err != nil {
		return nil, err
	}
	return NewHubFromConfigs(configs), nil
}

// AddServer adds or replaces a server, resetting its state.
func (h *Hub) AddServer(cfg ServerConfig) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.servers[cfg.Name] = &Server{Config: cfg, Status: StatusDisconnected}
}

// server returns the entry for name, creating it if needed. Caller holds the lock.
func (h *Hub) server(name string) *Server {
	s, ok := h.servers[name]
	if !ok {
		s = &Server{Config: ServerConfig{Name: name}, Status: StatusDisconnected}
		h.servers[name] = s
	}
	return s
}

// SetStatus records the connection state of a server.
func (h *Hub) SetStatus(name string, status ServerStatus, errMsg string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.server(name)
	s.Status = status
	s.Error = errMsg
	if status == StatusError {
		log.Logger().Warn("MCP server error",
			zap.String("server", name),
			zap.String("error", errMsg))
	}
}

// SetTools replaces the tools a server exposes.
func (h *Hub) SetTools(name string, tools []mcpgo.Tool) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.server(name).Tools = append([]mcpgo.Tool(nil), tools...)
}

// SetResources replaces the resources a server exposes.
func (h *Hub) SetResources(name string, resources []mcpgo.Resource) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.server(name).Resources = append([]mcpgo.Resource(nil), resources...)
}

// Servers returns a copy of every server, sorted by name.
func (h *Hub) Servers() []Server {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Server, 0, len(h.servers))
	for _, s := range h.servers {
		cp := *s
		cp.Tools = append([]mcpgo.Tool(nil), s.Tools...)
		cp.Resources = append([]mcpgo.Resource(nil), s.Resources...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Config.Name < out[j].Config.Name })
	return out
}

// Available reports whether any enabled server is configured. False on a nil hub.
func (h *Hub) Available() bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.servers {
		if !s.Config.Disabled {
			return true
		}
	}
	return false
}

// ServerNames returns the enabled servers, sorted.
func (h *Hub) ServerNames() []string {
	var names []string
	for _, s := range h.Servers() {
		if s.Config.Disabled {
			continue
		}
		names = append(names, s.Config.Name)
	}
	return names
}

// FormatForPrompt describes every connected, enabled server with its tools
// and resources. It returns "" when there is nothing to describe.
func (h *Hub) FormatForPrompt() string {
	var sections []string
	for _, s := range h.Servers() {
		if s.Config.Disabled || s.Status != StatusConnected {
			continue
		}
		sections = append(sections, formatServer(s))
	}
	return strings.Join(sections, "\n\n")
}

func formatServer(s Server) string {
	var sb strings.Builder
	sb.WriteString("## " + s.Config.Name)
	if target := serverTarget(s.Config); target != "" {
		sb.WriteString(" (`" + target + "`)")
	}

	if len(s.Tools) > 0 {
		sb.WriteString("\n\n### Available Tools")
		for _, t := range s.Tools {
			sb.WriteString("\n- " + t.Name)
			if t.Description != "" {
				sb.WriteString(": " + t.Description)
			}
			if schema := inputSchema(t); schema != "" {
				sb.WriteString("\n    Input Schema:\n    ")
				sb.WriteString(strings.ReplaceAll(schema, "\n", "\n    "))
			}
		}
	}

	if len(s.Resources) > 0 {
		sb.WriteString("\n\n### Direct Resources")
		for _, r := range s.Resources {
			sb.WriteString("\n- " + r.URI)
			if r.Name != "" {
				sb.WriteString(" (" + r.Name + ")")
			}
			if r.Description != "" {
				sb.WriteString(": " + r.Description)
			}
		}
	}
	return sb.String()
}

func serverTarget(cfg ServerConfig) string {
	if cfg.GetType() == TransportSTDIO {
		return strings.TrimSpace(cfg.Command + " " + strings.Join(cfg.Args, " "))
	}
	return cfg.URL
}

func inputSchema(t mcpgo.Tool) string {
	if len(t.RawInputSchema) > 0 {
		return string(t.RawInputSchema)
	}
	if len(t.InputSchema.Properties) == 0 {
		return ""
	}
	data, err := json.MarshalIndent(t.InputSchema, "", "  ")
	if err != nil {
		return fmt.Sprintf("(unavailable: %v)", err)
	}
	return string(data)
}
