package ops

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// MaxImportBytes caps the size of an import file.
const MaxImportBytes = 8 << 20

// maxSuffixAttempts bounds the search for a free name in rename mode.
const maxSuffixAttempts = 1000

// ImportMode controls sibling-name collision behavior during import.
type ImportMode string

const (
	ImportModeError  ImportMode = "error"  // fail on collision (atomic)
	ImportModeMerge  ImportMode = "merge"  // reuse the existing sibling and import children under it
	ImportModeRename ImportMode = "rename" // auto-suffix name on collision
)

// Import formats, derived from the file extension.
const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path      string     // required; .md/.markdown outline or .yaml/.yml tree
	Workspace string     // default: "default"; inherited from the parent when ParentID is set
	ParentID  string     // optional; empty imports as workspace roots
	Mode      ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Format   string   `json:"format"`
	Imported int      `json:"imported"`
	Merged   int      `json:"merged"`
	Renamed  int      `json:"renamed"`
	RootIDs  []string `json:"root_ids"`
}

// Import reads a hierarchy from a file and inserts it in one transaction.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeMerge && input.Mode != ImportModeRename {
		return nil, errors.NewInvalidRequest("mode must be one of: error, merge, rename")
	}

	nodes, format, err := ReadOutlineFile(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	imp := &importer{ctx: ctx, tx: tx, cfg: cfg, mode: input.Mode, now: time.Now().Unix()}
	out := &ImportOutput{Format: format, RootIDs: []string{}}

	// Resolve the attachment point once; children inherit its workspace.
	parent := &entity.Entity{}
	if pid := strings.TrimSpace(input.ParentID); pid != "" {
		p, err := db.GetByID(ctx, tx, pid, false)
		if err != nil {
			return nil, err
		}
		if ws := strings.TrimSpace(input.Workspace); ws != "" && entity.Normalize(ws) != p.WorkspaceNorm {
			return nil, errors.NewInvalidRequest("workspace does not match the parent's workspace")
		}
		parent = p
	} else {
		parent.WorkspaceRaw = strings.TrimSpace(input.Workspace)
		if parent.WorkspaceRaw == "" {
			parent.WorkspaceRaw = DefaultWorkspace
		}
		parent.WorkspaceNorm = entity.Normalize(parent.WorkspaceRaw)
	}

	for _, n := range nodes {
		id, err := imp.insert(n, parent)
		if err != nil {
			return nil, err
		}
		out.RootIDs = append(out.RootIDs, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	committed = true

	out.Imported = imp.imported
	out.Merged = imp.merged
	out.Renamed = imp.renamed
	return out, nil
}

// ReadOutlineFile validates, reads and parses an import file.
// Returns the parsed forest and its format name.
func ReadOutlineFile(path string, cfg *config.Config) ([]*entity.OutlineNode, string, error) {
	if err := ValidatePath(path, PathCheckRead, ImportExtensions, cfg); err != nil {
		return nil, "", err
	}

	file, err := openNoFollow(path, os.O_RDONLY, 0)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, "", err
		}
		return nil, "", errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, "", errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		return nil, "", errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportBytes))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return entity.ParseOutline(data), FormatMarkdown, nil
	default:
		nodes, err := entity.ParseTreeYAML(data)
		return nodes, FormatYAML, err
	}
}

type importer struct {
	ctx  context.Context
	tx   *sql.Tx
	cfg  *config.Config
	mode ImportMode
	now  int64

	imported, merged, renamed int
}

// insert adds n under parent (parent.ID empty means workspace root) and
// recurses into its children. Returns the id n ended up with.
func (imp *importer) insert(n *entity.OutlineNode, parent *entity.Entity) (string, error) {
	if err := entity.ValidateName(n.Name, imp.cfg.NameMaxChars); err != nil {
		return "", err
	}

	var parentID *string
	if parent.ID != "" {
		parentID = &parent.ID
	}

	name := n.Name
	existing, err := db.GetByName(imp.ctx, imp.tx, parent.WorkspaceNorm, parentID, entity.Normalize(name))
	switch {
	case err == nil && imp.mode == ImportModeMerge:
		imp.merged++
		return existing.ID, imp.insertChildren(n, existing)
	case err == nil && imp.mode == ImportModeRename:
		name, err = imp.freeName(parent.WorkspaceNorm, parentID, n.Name)
		if err != nil {
			return "", err
		}
		imp.renamed++
	case err == nil:
		return "", errors.NewNameAlreadyExists(parent.WorkspaceRaw, n.Name)
	case !errors.Is(err, errors.ErrNotFound):
		return "", err
	}

	id, err := generateULID()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	e := &entity.Entity{
		ID:            id,
		ParentID:      parentID,
		WorkspaceRaw:  parent.WorkspaceRaw,
		WorkspaceNorm: parent.WorkspaceNorm,
		NameRaw:       name,
		NameNorm:      entity.Normalize(name),
		Kind:          entity.NormalizeKind(n.Kind),
		Editable:      n.Editable,
		CreatedAt:     imp.now,
		UpdatedAt:     imp.now,
	}
	if err := insertEntity(imp.ctx, imp.tx, e); err != nil {
		return "", err
	}
	imp.imported++

	return id, imp.insertChildren(n, e)
}

func (imp *importer) insertChildren(n *entity.OutlineNode, parent *entity.Entity) error {
	for _, c := range n.Children {
		if imp.ctx.Err() != nil {
			return errors.NewCancelled("import")
		}
		if _, err := imp.insert(c, parent); err != nil {
			return err
		}
	}
	return nil
}

// freeName finds "name-2", "name-3", ... that no active sibling uses.
func (imp *importer) freeName(workspaceNorm string, parentID *string, name string) (string, error) {
	for i := 2; i < maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		_, err := db.GetByName(imp.ctx, imp.tx, workspaceNorm, parentID, entity.Normalize(candidate))
		if errors.Is(err, errors.ErrNotFound) {
			if err := entity.ValidateName(candidate, imp.cfg.NameMaxChars); err != nil {
				return "", err
			}
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.NewNameAlreadyExists(workspaceNorm, name)
}
