package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hpungsan/recase/internal/errors"
)

// nameOf returns the current display name of an entity.
func nameOf(t *testing.T, database *sql.DB, id string) string {
	t.Helper()
	out, err := Fetch(context.Background(), database, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch(%s) failed: %v", id, err)
	}
	return out.Name
}

func TestRename_Subtree(t *testing.T) {
	database, cfg, _ := setupTest(t)
	rootID, getID, loadID, deleteID := addSampleTree(t, database, cfg)

	out, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "snake"})
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if out.ID != rootID || out.Style != "snake" || out.DryRun {
		t.Errorf("output = {%s %s %v}, want {%s snake false}", out.ID, out.Style, out.DryRun, rootID)
	}
	if out.Renamed != 4 || out.Unchanged != 0 || out.Skipped != 0 {
		t.Errorf("counts = %d/%d/%d, want 4/0/0", out.Renamed, out.Unchanged, out.Skipped)
	}

	want := map[string]string{
		rootID:   "user_service",
		getID:    "get_user",
		loadID:   "load_profile",
		deleteID: "delete_user",
	}
	for id, name := range want {
		if got := nameOf(t, database, id); got != name {
			t.Errorf("name of %s = %q, want %q", id, got, name)
		}
	}

	// Pre-order paths use the names as they were before the run
	wantPaths := []string{
		"User Service",
		"User Service/Get User",
		"User Service/Get User/Load Profile",
		"User Service/Delete User",
	}
	if len(out.Changes) != len(wantPaths) {
		t.Fatalf("len(Changes) = %d, want %d", len(out.Changes), len(wantPaths))
	}
	for i, p := range wantPaths {
		if out.Changes[i].Path != p {
			t.Errorf("Changes[%d].Path = %q, want %q", i, out.Changes[i].Path, p)
		}
	}
}

func TestRename_LookupFollowsNewName(t *testing.T) {
	database, cfg, _ := setupTest(t)
	ctx := context.Background()
	rootID, getID, _, _ := addSampleTree(t, database, cfg)

	if _, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "kebab"}); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	out, err := Fetch(ctx, database, FetchInput{Workspace: "payments", ParentID: rootID, Name: "get-user"})
	if err != nil {
		t.Fatalf("Fetch by new name failed: %v", err)
	}
	if out.ID != getID {
		t.Errorf("ID = %q, want %q", out.ID, getID)
	}
	if _, err := Fetch(ctx, database, FetchInput{Workspace: "payments", ParentID: rootID, Name: "Get User"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Fetch by old name error = %v, want NOT_FOUND", err)
	}
}

func TestRename_Idempotent(t *testing.T) {
	database, cfg, _ := setupTest(t)
	ctx := context.Background()
	rootID, _, _, _ := addSampleTree(t, database, cfg)

	if _, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "camel"}); err != nil {
		t.Fatalf("first Rename failed: %v", err)
	}
	out, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "camel"})
	if err != nil {
		t.Fatalf("second Rename failed: %v", err)
	}
	if out.Renamed != 0 || out.Unchanged != 4 {
		t.Errorf("second pass renamed %d, unchanged %d; want 0, 4", out.Renamed, out.Unchanged)
	}
	if len(out.Changes) != 0 {
		t.Errorf("Changes = %v, want none", out.Changes)
	}
}

func TestRename_DryRun(t *testing.T) {
	database, cfg, _ := setupTest(t)
	rootID, getID, _, _ := addSampleTree(t, database, cfg)

	out, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "screaming_snake", DryRun: true})
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if !out.DryRun || out.Renamed != 4 {
		t.Errorf("DryRun = %v, Renamed = %d; want true, 4", out.DryRun, out.Renamed)
	}
	if out.Changes[1].To != "GET_USER" {
		t.Errorf("Changes[1].To = %q, want %q", out.Changes[1].To, "GET_USER")
	}

	if got := nameOf(t, database, getID); got != "Get User" {
		t.Errorf("dry run changed name to %q", got)
	}
}

func TestRename_MaxDepth(t *testing.T) {
	database, cfg, _ := setupTest(t)
	rootID, getID, loadID, _ := addSampleTree(t, database, cfg)

	out, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "pascal", MaxDepth: 2})
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if out.Renamed != 3 {
		t.Errorf("Renamed = %d, want 3", out.Renamed)
	}
	if got := nameOf(t, database, getID); got != "GetUser" {
		t.Errorf("level 2 name = %q, want %q", got, "GetUser")
	}
	if got := nameOf(t, database, loadID); got != "Load Profile" {
		t.Errorf("level 3 name = %q, want unchanged", got)
	}
}

func TestRename_SkipsNonEditable(t *testing.T) {
	database, cfg, _ := setupTest(t)

	rootID := mustAdd(t, database, cfg, AddInput{Name: "app"})
	vendorID := mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "Vendor Code", Editable: boolPtr(false)})
	libID := mustAdd(t, database, cfg, AddInput{ParentID: vendorID, Name: "Json Lib"})

	out, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "kebab"})
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if out.Skipped != 1 || out.Unchanged != 1 || out.Renamed != 1 {
		t.Errorf("counts renamed/unchanged/skipped = %d/%d/%d, want 1/1/1", out.Renamed, out.Unchanged, out.Skipped)
	}
	if got := nameOf(t, database, vendorID); got != "Vendor Code" {
		t.Errorf("non-editable name = %q, want unchanged", got)
	}
	if got := nameOf(t, database, libID); got != "json-lib" {
		t.Errorf("child of non-editable = %q, want %q", got, "json-lib")
	}
}

func TestRename_SwapSucceeds(t *testing.T) {
	database, cfg, _ := setupTest(t)

	rootID := mustAdd(t, database, cfg, AddInput{Name: "pair"})
	abID := mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "ab"})
	baID := mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "ba"})

	// Each sibling takes the other's name; only the final state must be unique
	if _, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "reverse"}); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got := nameOf(t, database, abID); got != "ba" {
		t.Errorf("ab renamed to %q, want %q", got, "ba")
	}
	if got := nameOf(t, database, baID); got != "ab" {
		t.Errorf("ba renamed to %q, want %q", got, "ab")
	}
}

func TestRename_CollisionRollsBack(t *testing.T) {
	database, cfg, _ := setupTest(t)

	rootID := mustAdd(t, database, cfg, AddInput{Name: "Models"})
	camelID := mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "userId"})
	mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "user_id"})

	_, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "snake"})
	if !errors.Is(err, errors.ErrNameAlreadyExists) {
		t.Fatalf("Rename error = %v, want NAME_ALREADY_EXISTS", err)
	}

	if got := nameOf(t, database, rootID); got != "Models" {
		t.Errorf("root name = %q, want rollback to %q", got, "Models")
	}
	if got := nameOf(t, database, camelID); got != "userId" {
		t.Errorf("colliding name = %q, want rollback to %q", got, "userId")
	}
}

func TestRename_ResultTooLong(t *testing.T) {
	database, cfg, _ := setupTest(t)
	cfg.NameMaxChars = 10

	rootID := mustAdd(t, database, cfg, AddInput{Name: "helloWorld"})

	_, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "snake"})
	if !errors.Is(err, errors.ErrNameTooLong) {
		t.Fatalf("Rename error = %v, want NAME_TOO_LONG", err)
	}
	rErr, _ := errors.As(err)
	if rErr.Details["path"] != "helloWorld" {
		t.Errorf("Details[path] = %v, want %q", rErr.Details["path"], "helloWorld")
	}
	if got := nameOf(t, database, rootID); got != "helloWorld" {
		t.Errorf("name = %q, want unchanged", got)
	}
}

func TestRename_EmptyResultRejected(t *testing.T) {
	database, cfg, _ := setupTest(t)

	rootID := mustAdd(t, database, cfg, AddInput{Name: "!!!"})

	_, err := Rename(context.Background(), database, cfg, RenameInput{ID: rootID, Style: "kebab", DryRun: true})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Rename error = %v, want INVALID_REQUEST", err)
	}
}

func TestRename_InputErrors(t *testing.T) {
	database, cfg, _ := setupTest(t)
	ctx := context.Background()
	rootID := mustAdd(t, database, cfg, AddInput{Name: "root"})

	tests := []struct {
		name  string
		input RenameInput
		code  errors.ErrorCode
	}{
		{"unknown style", RenameInput{ID: rootID, Style: "sentence"}, errors.ErrUnknownStyle},
		{"missing style", RenameInput{ID: rootID}, errors.ErrInvalidRequest},
		{"negative depth", RenameInput{ID: rootID, Style: "snake", MaxDepth: -1}, errors.ErrInvalidRequest},
		{"ambiguous", RenameInput{ID: rootID, Name: "root", Style: "snake"}, errors.ErrAmbiguousAddressing},
		{"not found", RenameInput{ID: "01MISSING", Style: "snake"}, errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rename(ctx, database, cfg, tt.input)
			if !errors.Is(err, tt.code) {
				t.Errorf("Rename error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRename_Cancelled(t *testing.T) {
	database, cfg, _ := setupTest(t)
	rootID, getID, _, _ := addSampleTree(t, database, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Rename(ctx, database, cfg, RenameInput{ID: rootID, Style: "snake"}); err == nil {
		t.Fatal("Rename with cancelled context should fail")
	}
	if got := nameOf(t, database, getID); got != "Get User" {
		t.Errorf("name = %q, want unchanged after cancellation", got)
	}
}
