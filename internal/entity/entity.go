package entity

// DefaultKind is stored when an entity is added without a kind.
const DefaultKind = "node"

// Entity is a named element in a workspace hierarchy.
type Entity struct {
	// ID is a ULID that uniquely identifies this entity
	ID string

	// ParentID is the parent entity's ID; nil for workspace roots
	ParentID *string

	// WorkspaceRaw is the original workspace string as provided by the user
	WorkspaceRaw string

	// WorkspaceNorm is the normalized workspace (lowercased, trimmed, collapsed spaces)
	WorkspaceNorm string

	// NameRaw is the current display name
	NameRaw string

	// NameNorm is the lookup key for NameRaw, unique among active siblings
	NameNorm string

	// Kind is free text such as "class", "package" or "heading"
	Kind string

	// Editable is false for entities that batch renames must skip
	Editable bool

	// CreatedAt is the Unix timestamp when the entity was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the entity was last renamed
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// SetName updates the display name and its lookup key.
func (e *Entity) SetName(name string) {
	e.NameRaw = name
	e.NameNorm = Normalize(name)
}

// Summary is the listing view of an entity.
type Summary struct {
	ID         string  `json:"id"`
	ParentID   *string `json:"parent_id,omitempty"`
	Workspace  string  `json:"workspace"`
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Editable   bool    `json:"editable"`
	ChildCount int     `json:"child_count"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
	DeletedAt  *int64  `json:"deleted_at,omitempty"`
}
