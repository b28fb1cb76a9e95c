package web

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/hpungsan/recase/internal/casing"
	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/ops"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	logger *slog.Logger
}

// StylesResponse is the body of GET /api/styles.
type StylesResponse struct {
	Styles  []string `json:"styles"`
	Default string   `json:"default,omitempty"`
}

// AddRequest is the body of POST /api/entities.
type AddRequest struct {
	Workspace string `json:"workspace"`
	ParentID  string `json:"parent_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Editable  *bool  `json:"editable"`
}

// RenameRequest is the body of POST /api/entities/{id}/rename.
type RenameRequest struct {
	Style    string `json:"style"`
	DryRun   bool   `json:"dry_run"`
	MaxDepth int    `json:"max_depth"`
}

// HandleStyles handles GET /api/styles.
func (h *Handlers) HandleStyles(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, StylesResponse{
		Styles:  casing.StyleNames(),
		Default: h.cfg.DefaultStyle,
	})
}

// HandleConvert handles GET /api/convert?style=&text=. With all=true the text
// is rendered in every style and style is ignored.
func (h *Handlers) HandleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if parseBoolParam(r, "all") {
		renderJSON(w, http.StatusOK, ops.ConvertAll(q.Get("text")))
		return
	}

	result, err := ops.Convert(h.cfg, ops.ConvertInput{Style: q.Get("style"), Text: q.Get("text")})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleList handles GET /api/entities: roots of ?workspace= or children of ?parent_id=.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", ops.DefaultListLimit)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	offset, err := parseIntParam(r, "offset", 0)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	result, err := ops.List(r.Context(), h.db, ops.ListInput{
		Workspace:      r.URL.Query().Get("workspace"),
		ParentID:       r.URL.Query().Get("parent_id"),
		Limit:          limit,
		Offset:         offset,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAdd handles POST /api/entities.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	result, err := ops.Add(r.Context(), h.db, h.cfg, ops.AddInput{
		Workspace: req.Workspace,
		ParentID:  req.ParentID,
		Name:      req.Name,
		Kind:      req.Kind,
		Editable:  req.Editable,
	})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleFetch handles GET /api/entities/{id}.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDelete handles DELETE /api/entities/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleTree handles GET /api/entities/{id}/tree?max_depth=.
func (h *Handlers) HandleTree(w http.ResponseWriter, r *http.Request) {
	maxDepth, err := parseIntParam(r, "max_depth", 0)
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	result, err := ops.Tree(r.Context(), h.db, ops.TreeInput{ID: r.PathValue("id"), MaxDepth: maxDepth})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRename handles POST /api/entities/{id}/rename with body {style, dry_run, max_depth}.
func (h *Handlers) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, h.logger, err)
		return
	}

	result, err := ops.Rename(r.Context(), h.db, h.cfg, ops.RenameInput{
		ID:       r.PathValue("id"),
		Style:    req.Style,
		DryRun:   req.DryRun,
		MaxDepth: req.MaxDepth,
	})
	if err != nil {
		renderError(w, r, h.logger, err)
		return
	}
	if !req.DryRun && result.Renamed > 0 {
		h.logger.Info("renamed subtree", "id", result.ID, "style", result.Style, "renamed", result.Renamed)
	}
	renderJSON(w, http.StatusOK, result)
}
