package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/errors"
	"github.com/hpungsan/recase/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// ConvertRequest represents the arguments for text_convert.
type ConvertRequest struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// ConvertAllRequest represents the arguments for text_convert_all.
type ConvertAllRequest struct {
	Text string `json:"text"`
}

// RenameFileRequest represents the arguments for text_rename_file.
type RenameFileRequest struct {
	Path     string `json:"path"`
	Style    string `json:"style,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// AddRequest represents the arguments for entity_add.
type AddRequest struct {
	Name      string `json:"name"`
	Workspace string `json:"workspace,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Editable  *bool  `json:"editable,omitempty"`
}

// AddressRequest holds the fields that address one entity.
type AddressRequest struct {
	ID        string `json:"id,omitempty"`
	Workspace string `json:"workspace,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// FetchRequest represents the arguments for entity_fetch.
type FetchRequest struct {
	AddressRequest
	IncludeDeleted bool `json:"include_deleted,omitempty"`
}

// ListRequest represents the arguments for entity_list.
type ListRequest struct {
	Workspace      string `json:"workspace,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// TreeRequest represents the arguments for entity_tree.
type TreeRequest struct {
	AddressRequest
	MaxDepth int `json:"max_depth,omitempty"`
}

// RenameRequest represents the arguments for entity_rename.
type RenameRequest struct {
	AddressRequest
	Style    string `json:"style,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// DeleteRequest represents the arguments for entity_delete.
type DeleteRequest struct {
	AddressRequest
}

// PurgeRequest represents the arguments for entity_purge.
type PurgeRequest struct {
	Workspace     *string `json:"workspace,omitempty"`
	OlderThanDays *int    `json:"older_than_days,omitempty"`
}

// ImportRequest represents the arguments for entity_import.
type ImportRequest struct {
	Path      string `json:"path"`
	Workspace string `json:"workspace,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// ExportRequest represents the arguments for entity_export.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Workspace      *string `json:"workspace,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// call decodes the tool arguments into Req, runs fn and wraps its result.
// Argument errors become INVALID_REQUEST; fn errors keep their own code.
func call[Req, Out any](req mcp.CallToolRequest, fn func(Req) (Out, error)) (*mcp.CallToolResult, error) {
	in, err := decode[Req](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	out, err := fn(in)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleConvert renders text in one style (text_convert).
func (h *Handlers) HandleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in ConvertRequest) (*ops.ConvertOutput, error) {
		return ops.Convert(h.cfg, ops.ConvertInput{Style: in.Style, Text: in.Text})
	})
}

// HandleConvertAll renders text in every style (text_convert_all).
func (h *Handlers) HandleConvertAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in ConvertAllRequest) (*ops.ConvertAllOutput, error) {
		return ops.ConvertAll(in.Text), nil
	})
}

func (h *Handlers) HandleRenameFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in RenameFileRequest) (*ops.RenameFileOutput, error) {
		return ops.RenameFile(ctx, h.cfg, ops.RenameFileInput{Path: in.Path, Style: in.Style, MaxDepth: in.MaxDepth})
	})
}

func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in AddRequest) (*ops.AddOutput, error) {
		return ops.Add(ctx, h.db, h.cfg, ops.AddInput{
			Workspace: in.Workspace,
			ParentID:  in.ParentID,
			Name:      in.Name,
			Kind:      in.Kind,
			Editable:  in.Editable,
		})
	})
}

func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in FetchRequest) (*ops.FetchOutput, error) {
		a := in.AddressRequest
		return ops.Fetch(ctx, h.db, ops.FetchInput{
			ID: a.ID, Workspace: a.Workspace, ParentID: a.ParentID, Name: a.Name,
			IncludeDeleted: in.IncludeDeleted,
		})
	})
}

func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in ListRequest) (*ops.ListOutput, error) {
		return ops.List(ctx, h.db, ops.ListInput(in))
	})
}

func (h *Handlers) HandleTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in TreeRequest) (*ops.TreeOutput, error) {
		a := in.AddressRequest
		return ops.Tree(ctx, h.db, ops.TreeInput{
			ID: a.ID, Workspace: a.Workspace, ParentID: a.ParentID, Name: a.Name,
			MaxDepth: in.MaxDepth,
		})
	})
}

// HandleRename applies a style to an entity subtree (entity_rename).
func (h *Handlers) HandleRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in RenameRequest) (*ops.RenameOutput, error) {
		a := in.AddressRequest
		return ops.Rename(ctx, h.db, h.cfg, ops.RenameInput{
			ID: a.ID, Workspace: a.Workspace, ParentID: a.ParentID, Name: a.Name,
			Style:    in.Style,
			DryRun:   in.DryRun,
			MaxDepth: in.MaxDepth,
		})
	})
}

func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in DeleteRequest) (*ops.DeleteOutput, error) {
		return ops.Delete(ctx, h.db, ops.DeleteInput(in.AddressRequest))
	})
}

func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in PurgeRequest) (*ops.PurgeOutput, error) {
		return ops.Purge(ctx, h.db, ops.PurgeInput(in))
	})
}

func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in ImportRequest) (*ops.ImportOutput, error) {
		return ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
			Path:      in.Path,
			Workspace: in.Workspace,
			ParentID:  in.ParentID,
			Mode:      ops.ImportMode(in.Mode),
		})
	})
}

func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(req, func(in ExportRequest) (*ops.ExportOutput, error) {
		return ops.Export(ctx, h.db, h.cfg, ops.ExportInput(in))
	})
}

// errorResult creates an MCP error result from any error.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := errors.As(err); ok {
		// Keep wrapping context such as the node path of a failed rename
		message := rErr.Message
		if prefix := strings.TrimSuffix(err.Error(), rErr.Error()); prefix != err.Error() && rErr.Code != errors.ErrInternal {
			message = prefix + message
		}
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": message,
			"status":  rErr.Status,
		}
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
