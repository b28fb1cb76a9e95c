package ops

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/errors"
)

// backdateDeletion moves an entity's deleted_at into the past.
func backdateDeletion(t *testing.T, database *sql.DB, id string, days int) {
	t.Helper()
	ts := time.Now().AddDate(0, 0, -days).Unix()
	if _, err := database.Exec("UPDATE entities SET deleted_at = ? WHERE id = ?", ts, id); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}
}

// addDeleted adds and soft-deletes an entity, returning its id.
func addDeleted(t *testing.T, database *sql.DB, input AddInput) string {
	t.Helper()
	id := mustAdd(t, database, config.DefaultConfig(), input)
	if _, err := Delete(context.Background(), database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	return id
}

func TestPurge_AllDeleted(t *testing.T) {
	database, cfg, _ := setupTest(t)
	ctx := context.Background()

	rootID := mustAdd(t, database, cfg, AddInput{Name: "root"})
	mustAdd(t, database, cfg, AddInput{ParentID: rootID, Name: "child"})
	if _, err := Delete(ctx, database, DeleteInput{ID: rootID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := Purge(ctx, database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 2 {
		t.Errorf("Purged = %d, want 2", out.Purged)
	}
	if out.Message != "Permanently deleted 2 entities" {
		t.Errorf("Message = %q", out.Message)
	}

	if _, err := Fetch(ctx, database, FetchInput{ID: rootID, IncludeDeleted: true}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Fetch purged error = %v, want NOT_FOUND", err)
	}
}

func TestPurge_WorkspaceFilter(t *testing.T) {
	database, _, _ := setupTest(t)
	ctx := context.Background()

	addDeleted(t, database, AddInput{Workspace: "alpha", Name: "a"})
	betaID := addDeleted(t, database, AddInput{Workspace: "beta", Name: "b"})

	out, err := Purge(ctx, database, PurgeInput{Workspace: stringPtr("ALPHA")})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}
	if !strings.Contains(out.Message, `from workspace "ALPHA"`) {
		t.Errorf("Message = %q, should name the workspace", out.Message)
	}

	if _, err := Fetch(ctx, database, FetchInput{ID: betaID, IncludeDeleted: true}); err != nil {
		t.Errorf("other workspace entity should survive: %v", err)
	}
}

func TestPurge_OlderThanDays(t *testing.T) {
	database, _, _ := setupTest(t)
	ctx := context.Background()

	oldID := addDeleted(t, database, AddInput{Name: "old"})
	backdateDeletion(t, database, oldID, 10)
	recentID := addDeleted(t, database, AddInput{Name: "recent"})

	out, err := Purge(ctx, database, PurgeInput{OlderThanDays: intPtr(7)})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}
	if !strings.Contains(out.Message, "more than 7 days ago") {
		t.Errorf("Message = %q, should mention the age filter", out.Message)
	}
	if _, err := Fetch(ctx, database, FetchInput{ID: recentID, IncludeDeleted: true}); err != nil {
		t.Errorf("recently deleted entity should survive: %v", err)
	}
}

func TestPurge_NoDeleted(t *testing.T) {
	database, cfg, _ := setupTest(t)

	activeID := mustAdd(t, database, cfg, AddInput{Name: "active"})

	out, err := Purge(context.Background(), database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 0 || out.Message != "No deleted entities to purge" {
		t.Errorf("output = %+v", out)
	}
	if _, err := Fetch(context.Background(), database, FetchInput{ID: activeID}); err != nil {
		t.Errorf("active entity should survive: %v", err)
	}
}

func TestPurge_InvalidInput(t *testing.T) {
	database, _, _ := setupTest(t)
	ctx := context.Background()

	if _, err := Purge(ctx, database, PurgeInput{OlderThanDays: intPtr(-1)}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("negative days error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Purge(ctx, database, PurgeInput{Workspace: stringPtr("   ")}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank workspace error = %v, want INVALID_REQUEST", err)
	}
}

func TestFormatPurgeMessage(t *testing.T) {
	tests := []struct {
		count     int
		workspace *string
		days      *int
		want      string
	}{
		{0, stringPtr("w"), intPtr(3), "No deleted entities to purge"},
		{1, nil, nil, "Permanently deleted 1 entity"},
		{3, stringPtr("Api"), nil, `Permanently deleted 3 entities from workspace "Api"`},
		{2, nil, intPtr(7), "Permanently deleted 2 entities (deleted more than 7 days ago)"},
	}
	for _, tc := range tests {
		if got := formatPurgeMessage(tc.count, tc.workspace, tc.days); got != tc.want {
			t.Errorf("formatPurgeMessage(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}

func TestPurgeCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	if got, err := purgeCutoff(nil, now); got != nil || err != nil {
		t.Errorf("nil days = %v, %v; want nil, nil", got, err)
	}
	got, err := purgeCutoff(intPtr(7), now)
	if err != nil {
		t.Fatalf("purgeCutoff(7) error = %v", err)
	}
	if want := now.AddDate(0, 0, -7).Unix(); *got != want {
		t.Errorf("cutoff = %d, want %d", *got, want)
	}
}
