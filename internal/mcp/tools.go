package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/recase/internal/casing"
)

var styleDescription = "Casing style: " + strings.Join(casing.StyleNames(), ", ") +
	". Spellings such as \"PascalCase\" or \"kebab-case\" are accepted. Falls back to the configured default_style."

var convertToolDef = mcp.NewTool("text_convert",
	mcp.WithDescription("Convert text to one casing style. Separators and case changes split words; acronyms such as ID or HTTP are preserved in Pascal, camel and title styles."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Text to convert")),
	mcp.WithString("style", mcp.Description(styleDescription)),
)

var convertAllToolDef = mcp.NewTool("text_convert_all",
	mcp.WithDescription("Convert text to every casing style at once."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Text to convert")),
)

var renameFileToolDef = mcp.NewTool("text_rename_file",
	mcp.WithDescription("Parse a markdown outline (.md) or YAML tree (.yaml) and return the hierarchy with every editable name converted. The file is not modified and nothing is stored."),
	mcp.WithString("path", mcp.Required(), mcp.Description("File path; must be in an allowed directory")),
	mcp.WithString("style", mcp.Description(styleDescription)),
	mcp.WithNumber("max_depth", mcp.Description("Levels to rename per root, root is level 1 (default: unlimited)")),
)

var addToolDef = mcp.NewTool("entity_add",
	mcp.WithDescription("Add a named entity. Without parent_id it becomes a workspace root; children inherit the parent's workspace. Names are unique among active siblings, ignoring case and spacing."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
	mcp.WithString("workspace", mcp.Description("Workspace (default: \"default\")")),
	mcp.WithString("parent_id", mcp.Description("Parent entity id")),
	mcp.WithString("kind", mcp.Description("Free-text kind such as class or package (default: node)")),
	mcp.WithBoolean("editable", mcp.Description("Whether batch renames may change this entity (default: true)")),
)

var fetchToolDef = mcp.NewTool("entity_fetch",
	mcp.WithDescription("Fetch one entity by id, or by workspace + parent_id + name."),
	mcp.WithString("id", mcp.Description("Entity id")),
	mcp.WithString("workspace", mcp.Description("Workspace for name lookup")),
	mcp.WithString("parent_id", mcp.Description("Parent id for name lookup; omit for roots")),
	mcp.WithString("name", mcp.Description("Name for name lookup")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted entities (id lookup only)")),
)

var listToolDef = mcp.NewTool("entity_list",
	mcp.WithDescription("List the children of an entity, or the roots of a workspace, with pagination."),
	mcp.WithString("workspace", mcp.Description("Workspace whose roots to list (default: \"default\")")),
	mcp.WithString("parent_id", mcp.Description("List this entity's children instead of roots")),
	mcp.WithNumber("limit", mcp.Description("Page size (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted entities")),
)

var treeToolDef = mcp.NewTool("entity_tree",
	mcp.WithDescription("Return an entity and its descendants as nested JSON."),
	mcp.WithString("id", mcp.Description("Entity id")),
	mcp.WithString("workspace", mcp.Description("Workspace for name lookup")),
	mcp.WithString("parent_id", mcp.Description("Parent id for name lookup")),
	mcp.WithString("name", mcp.Description("Name for name lookup")),
	mcp.WithNumber("max_depth", mcp.Description("Levels to include, root is level 1 (default: unlimited)")),
)

var renameToolDef = mcp.NewTool("entity_rename",
	mcp.WithDescription("Apply a casing style to an entity and all its editable descendants in one transaction. Non-editable entities are skipped but their children are still renamed. If any new name collides with a sibling, nothing is changed."),
	mcp.WithString("id", mcp.Description("Root entity id")),
	mcp.WithString("workspace", mcp.Description("Workspace for name lookup")),
	mcp.WithString("parent_id", mcp.Description("Parent id for name lookup")),
	mcp.WithString("name", mcp.Description("Name for name lookup")),
	mcp.WithString("style", mcp.Description(styleDescription)),
	mcp.WithBoolean("dry_run", mcp.Description("Report changes without writing them")),
	mcp.WithNumber("max_depth", mcp.Description("Levels to rename, root is level 1 (default: unlimited)")),
)

var deleteToolDef = mcp.NewTool("entity_delete",
	mcp.WithDescription("Soft-delete an entity and its descendants."),
	mcp.WithString("id", mcp.Description("Entity id")),
	mcp.WithString("workspace", mcp.Description("Workspace for name lookup")),
	mcp.WithString("parent_id", mcp.Description("Parent id for name lookup")),
	mcp.WithString("name", mcp.Description("Name for name lookup")),
)

var purgeToolDef = mcp.NewTool("entity_purge",
	mcp.WithDescription("Permanently remove soft-deleted entities."),
	mcp.WithString("workspace", mcp.Description("Only purge this workspace")),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge entities deleted more than N days ago")),
)

var importToolDef = mcp.NewTool("entity_import",
	mcp.WithDescription("Import a markdown outline (.md: headings become nested entities) or a YAML tree (.yaml: name/kind/editable/children) in one transaction."),
	mcp.WithString("path", mcp.Required(), mcp.Description("File path; must be in an allowed directory")),
	mcp.WithString("workspace", mcp.Description("Workspace for new roots (default: \"default\")")),
	mcp.WithString("parent_id", mcp.Description("Attach imported roots under this entity")),
	mcp.WithString("mode", mcp.Enum("error", "merge", "rename"),
		mcp.Description("Sibling collision handling: error (default, atomic), merge (reuse existing), rename (suffix -2, -3, ...)")),
)

var exportToolDef = mcp.NewTool("entity_export",
	mcp.WithDescription("Export entities to a JSONL file: a header line then one record per entity."),
	mcp.WithString("path", mcp.Description("Output path (default: ~/.recase/exports/<workspace>-<timestamp>.jsonl)")),
	mcp.WithString("workspace", mcp.Description("Only export this workspace")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted entities")),
)
