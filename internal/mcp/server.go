package mcp

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/recase/internal/config"
)

// KnownTypes lists the tool families that disabled_types may name.
var KnownTypes = []string{"text", "entity"}

type handlerMethod func(*Handlers, context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

type toolEntry struct {
	def    mcp.Tool
	method handlerMethod
}

// toolRegistry is every tool the server can expose, in registration order.
var toolRegistry = []toolEntry{
	{convertToolDef, (*Handlers).HandleConvert},
	{convertAllToolDef, (*Handlers).HandleConvertAll},
	{renameFileToolDef, (*Handlers).HandleRenameFile},
	{addToolDef, (*Handlers).HandleAdd},
	{fetchToolDef, (*Handlers).HandleFetch},
	{listToolDef, (*Handlers).HandleList},
	{treeToolDef, (*Handlers).HandleTree},
	{renameToolDef, (*Handlers).HandleRename},
	{deleteToolDef, (*Handlers).HandleDelete},
	{purgeToolDef, (*Handlers).HandlePurge},
	{importToolDef, (*Handlers).HandleImport},
	{exportToolDef, (*Handlers).HandleExport},
}

func (e toolEntry) bind(h *Handlers) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return e.method(h, ctx, req)
	}
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, len(toolRegistry))
	for i, e := range toolRegistry {
		names[i] = e.def.Name
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the entries of names that are not tools.
func ValidateDisabledTools(names []string) []string {
	return unknownNames(names, AllToolNames())
}

// ValidateDisabledTypes returns the entries of names that are not tool types.
func ValidateDisabledTypes(names []string) []string {
	return unknownNames(names, KnownTypes)
}

func unknownNames(names, known []string) []string {
	unknown := []string{}
	for _, n := range names {
		if !slices.Contains(known, n) {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

// GetTypeForTool returns the family prefix of a tool name ("entity_tree" is "entity").
func GetTypeForTool(toolName string) string {
	typ, _, found := strings.Cut(toolName, "_")
	if !found || typ == "" {
		return ""
	}
	return typ
}

// ExpandTypesToTools returns the names of all tools in the given families.
func ExpandTypesToTools(types []string) []string {
	var tools []string
	for _, e := range toolRegistry {
		if slices.Contains(types, GetTypeForTool(e.def.Name)) {
			tools = append(tools, e.def.Name)
		}
	}
	return tools
}

// NewServer builds the recase MCP server. Tools named in cfg.DisabledTools,
// or whose family is in cfg.DisabledTypes, are not registered.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer("recase", version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	h := NewHandlers(db, cfg)
	disabled := append(ExpandTypesToTools(cfg.DisabledTypes), cfg.DisabledTools...)
	for _, e := range toolRegistry {
		if !slices.Contains(disabled, e.def.Name) {
			s.AddTool(e.def, e.bind(h))
		}
	}
	return s
}

// Run serves the MCP protocol over stdin and stdout until the client disconnects.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(db, cfg, version))
}
