package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/recase/internal/errors"
)

// TestFullWorkflow exercises the complete entity lifecycle:
// import → fetch → tree → rename → list → export → delete → purge → fetch (not found)
func TestFullWorkflow(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	ctx := context.Background()
	ws := "workflow-test"

	// 1. Import
	importOut, err := Import(ctx, database, cfg, ImportInput{
		Path:      writeFile(t, tmpDir, "api.md", "# User API\n## Get User By ID\n## List HTTP Sessions\n"),
		Workspace: ws,
	})
	require.NoError(t, err)
	require.Len(t, importOut.RootIDs, 1)
	require.Equal(t, 3, importOut.Imported)
	rootID := importOut.RootIDs[0]

	// 2. Fetch a child by name
	child, err := Fetch(ctx, database, FetchInput{Workspace: ws, ParentID: rootID, Name: "get user by id"})
	require.NoError(t, err)
	require.Equal(t, "Get User By ID", child.Name)

	// 3. Tree
	tree, err := Tree(ctx, database, TreeInput{ID: rootID})
	require.NoError(t, err)
	require.Equal(t, 3, tree.Count)

	// 4. Rename (dry run first, then for real)
	dry, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "camel", DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 3, dry.Renamed)

	renameOut, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "camel"})
	require.NoError(t, err)
	require.Equal(t, dry.Changes, renameOut.Changes)

	// 5. List reflects new names, acronyms preserved
	listOut, err := List(ctx, database, ListInput{ParentID: rootID})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 2)
	require.Equal(t, "getUserByID", listOut.Items[0].Name)
	require.Equal(t, "listHTTPSessions", listOut.Items[1].Name)

	// 6. Export
	exportOut, err := Export(ctx, database, cfg, ExportInput{Path: filepath.Join(tmpDir, "api.jsonl"), Workspace: &ws})
	require.NoError(t, err)
	require.Equal(t, 3, exportOut.Count)

	// 7. Delete the whole subtree
	deleteOut, err := Delete(ctx, database, DeleteInput{ID: rootID})
	require.NoError(t, err)
	require.Equal(t, 3, deleteOut.Count)

	listOut, err = List(ctx, database, ListInput{Workspace: ws})
	require.NoError(t, err)
	require.Empty(t, listOut.Items)

	// 8. Purge
	purgeOut, err := Purge(ctx, database, PurgeInput{Workspace: &ws})
	require.NoError(t, err)
	require.Equal(t, 3, purgeOut.Purged)

	// 9. Fetch (not found)
	_, err = Fetch(ctx, database, FetchInput{ID: rootID, IncludeDeleted: true})
	require.True(t, errors.Is(err, errors.ErrNotFound), "expected NOT_FOUND, got %v", err)
}
