package entity

// ExportSchemaVersion is written in the export header line.
const ExportSchemaVersion = "1.0"

// ExportRecord represents an entity record in JSONL export format.
type ExportRecord struct {
	// Header detection field - true only for header line
	RecaseExport bool `json:"_recase_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Entity fields
	ID            string  `json:"id,omitempty"`
	ParentID      *string `json:"parent_id,omitempty"`
	WorkspaceRaw  string  `json:"workspace_raw,omitempty"`
	WorkspaceNorm string  `json:"workspace_norm,omitempty"` // recomputed on read
	NameRaw       string  `json:"name_raw,omitempty"`
	NameNorm      string  `json:"name_norm,omitempty"` // recomputed on read
	Kind          string  `json:"kind,omitempty"`
	Editable      bool    `json:"editable"`
	CreatedAt     int64   `json:"created_at,omitempty"`
	UpdatedAt     int64   `json:"updated_at,omitempty"`
	DeletedAt     *int64  `json:"deleted_at,omitempty"`
}

// ExportHeader returns the first line of an export file.
func ExportHeader(exportedAt int64) *ExportRecord {
	return &ExportRecord{
		RecaseExport:  true,
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    exportedAt,
	}
}

// ToEntity converts an ExportRecord to an Entity, recomputing derived fields.
func (r *ExportRecord) ToEntity() *Entity {
	return &Entity{
		ID:            r.ID,
		ParentID:      r.ParentID,
		WorkspaceRaw:  r.WorkspaceRaw,
		WorkspaceNorm: Normalize(r.WorkspaceRaw),
		NameRaw:       r.NameRaw,
		NameNorm:      Normalize(r.NameRaw),
		Kind:          NormalizeKind(r.Kind),
		Editable:      r.Editable,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DeletedAt:     r.DeletedAt,
	}
}

// ToExportRecord converts an Entity to an ExportRecord for export.
func ToExportRecord(e *Entity) *ExportRecord {
	return &ExportRecord{
		ID:            e.ID,
		ParentID:      e.ParentID,
		WorkspaceRaw:  e.WorkspaceRaw,
		WorkspaceNorm: e.WorkspaceNorm,
		NameRaw:       e.NameRaw,
		NameNorm:      e.NameNorm,
		Kind:          e.Kind,
		Editable:      e.Editable,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		DeletedAt:     e.DeletedAt,
	}
}
