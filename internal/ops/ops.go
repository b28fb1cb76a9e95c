package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// DefaultWorkspace is used when no workspace is given.
const DefaultWorkspace = "default"

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Address represents a validated entity address.
type Address struct {
	ByID      bool
	ID        string
	Workspace string  // normalized, defaulted to "default" for name-mode
	ParentID  *string // nil addresses a workspace root
	Name      string  // normalized
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Rules:
// - Must specify exactly one addressing mode: id OR (workspace + parent + name)
// - If id provided with name, workspace or parent → ErrAmbiguousAddressing
// - If neither id nor name provided → ErrInvalidRequest
func ValidateAddress(id, workspace, parentID, name string) (*Address, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	workspace = strings.TrimSpace(workspace)
	parentID = strings.TrimSpace(parentID)

	hasID := id != ""
	hasName := name != ""

	// Strict: id must be alone, no other addressing fields
	if hasID && (hasName || workspace != "" || parentID != "") {
		return nil, errors.NewAmbiguousAddressing()
	}

	if !hasID && !hasName {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}

	if hasID {
		return &Address{
			ByID: true,
			ID:   id,
		}, nil
	}

	workspaceNorm := entity.Normalize(workspace)
	if workspaceNorm == "" {
		workspaceNorm = DefaultWorkspace
	}

	addr := &Address{
		Workspace: workspaceNorm,
		Name:      entity.Normalize(name),
	}
	if parentID != "" {
		addr.ParentID = &parentID
	}
	return addr, nil
}

// EntityView is the JSON shape of an entity returned by operations.
type EntityView struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Workspace string  `json:"workspace"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Editable  bool    `json:"editable"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
	DeletedAt *int64  `json:"deleted_at,omitempty"`
}

func viewOf(e *entity.Entity) EntityView {
	return EntityView{
		ID:        e.ID,
		ParentID:  e.ParentID,
		Workspace: e.WorkspaceRaw,
		Name:      e.NameRaw,
		Kind:      e.Kind,
		Editable:  e.Editable,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}
}

// clampLimit applies list defaults and bounds.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// entropy is shared so ids minted in the same millisecond still sort in
// creation order. Subtree and list ordering rely on it.
var entropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
