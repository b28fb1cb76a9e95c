package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// readExport returns the header and entity records of an export file.
func readExport(t *testing.T, path string) (*entity.ExportRecord, []*entity.ExportRecord) {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export file: %v", err)
	}
	defer file.Close()

	var records []*entity.ExportRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec entity.ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Failed to parse line %d: %v", len(records)+1, err)
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("export file is empty")
	}
	return records[0], records[1:]
}

func TestExport_HappyPath(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	rootID, getID, _, _ := addSampleTree(t, database, cfg)

	exportPath := filepath.Join(tmpDir, "export.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if out.Path != exportPath {
		t.Errorf("Path = %q, want %q", out.Path, exportPath)
	}
	if out.Count != 4 {
		t.Errorf("Count = %d, want 4", out.Count)
	}

	header, records := readExport(t, exportPath)
	if !header.RecaseExport || header.SchemaVersion != entity.ExportSchemaVersion {
		t.Errorf("header = %+v", header)
	}
	if header.ExportedAt != out.ExportedAt {
		t.Errorf("exported_at = %d, want %d", header.ExportedAt, out.ExportedAt)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}

	// ULID order puts parents before the children added after them
	if records[0].ID != rootID || records[1].ID != getID {
		t.Errorf("first ids = [%s %s], want [%s %s]", records[0].ID, records[1].ID, rootID, getID)
	}
	if records[0].ParentID != nil {
		t.Error("root record should have no parent_id")
	}
	if records[1].ParentID == nil || *records[1].ParentID != rootID {
		t.Errorf("parent_id = %v, want %q", records[1].ParentID, rootID)
	}
	if records[1].RecaseExport {
		t.Error("entity records must not carry the header flag")
	}

	e := records[1].ToEntity()
	if e.NameNorm != "get user" || e.WorkspaceNorm != "payments" {
		t.Errorf("ToEntity norms = %q/%q", e.NameNorm, e.WorkspaceNorm)
	}
}

func TestExport_EditableAlwaysWritten(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	mustAdd(t, database, cfg, AddInput{Name: "locked", Editable: boolPtr(false)})

	exportPath := filepath.Join(tmpDir, "export.jsonl")
	if _, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"editable":false`) {
		t.Errorf("export should carry editable:false, got:\n%s", data)
	}
}

func TestExport_WorkspaceFilter(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	mustAdd(t, database, cfg, AddInput{Workspace: "alpha", Name: "a"})
	mustAdd(t, database, cfg, AddInput{Workspace: "beta", Name: "b"})

	exportPath := filepath.Join(tmpDir, "alpha.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath, Workspace: stringPtr("ALPHA")})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("Count = %d, want 1", out.Count)
	}
	_, records := readExport(t, exportPath)
	if records[0].WorkspaceRaw != "alpha" {
		t.Errorf("workspace = %q, want alpha", records[0].WorkspaceRaw)
	}
}

func TestExport_IncludeDeleted(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	ctx := context.Background()
	mustAdd(t, database, cfg, AddInput{Name: "keep"})
	goneID := mustAdd(t, database, cfg, AddInput{Name: "gone"})
	if _, err := Delete(ctx, database, DeleteInput{ID: goneID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	active, err := Export(ctx, database, cfg, ExportInput{Path: filepath.Join(tmpDir, "active.jsonl")})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if active.Count != 1 {
		t.Errorf("active Count = %d, want 1", active.Count)
	}

	allPath := filepath.Join(tmpDir, "all.jsonl")
	all, err := Export(ctx, database, cfg, ExportInput{Path: allPath, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("all Count = %d, want 2", all.Count)
	}
	_, records := readExport(t, allPath)
	if records[1].DeletedAt == nil {
		t.Error("deleted record should carry deleted_at")
	}
}

func TestExport_Empty(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)

	exportPath := filepath.Join(tmpDir, "empty.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 0 {
		t.Errorf("Count = %d, want 0", out.Count)
	}
	_, records := readExport(t, exportPath)
	if len(records) != 0 {
		t.Errorf("records = %d, want header only", len(records))
	}
}

func TestExport_FilePermissions(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)

	exportPath := filepath.Join(tmpDir, "export.jsonl")
	if _, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	info, err := os.Stat(exportPath)
	if err != nil {
		t.Fatalf("Failed to stat export file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestExport_OverwritesExisting(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	exportPath := writeFile(t, tmpDir, "export.jsonl", "stale\n")
	mustAdd(t, database, cfg, AddInput{Name: "fresh"})

	if _, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	_, records := readExport(t, exportPath)
	if len(records) != 1 || records[0].NameRaw != "fresh" {
		t.Errorf("records = %v, want the fresh export", records)
	}

	// No temp files left behind
	matches, _ := filepath.Glob(filepath.Join(tmpDir, "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left: %v", matches)
	}
}

func TestExport_DefaultPath(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	t.Setenv("HOME", tmpDir)

	out, err := Export(context.Background(), database, cfg, ExportInput{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	expectedDir := filepath.Join(tmpDir, ".recase", "exports")
	if filepath.Dir(out.Path) != expectedDir {
		t.Errorf("Path = %q, should be in %q", out.Path, expectedDir)
	}
	if !strings.HasPrefix(filepath.Base(out.Path), "all-") {
		t.Errorf("Path = %q, should start with 'all-'", out.Path)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("export file should exist at default path: %v", err)
	}
}

func TestExport_DefaultPathWithWorkspace(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	t.Setenv("HOME", tmpDir)

	out, err := Export(context.Background(), database, cfg, ExportInput{Workspace: stringPtr("MyWorkspace")})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(out.Path), "my-workspace-") {
		t.Errorf("Path = %q, should start with the kebab-cased workspace", out.Path)
	}
}

func TestExport_PathRejected(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"traversal with ..", "/tmp/../../../etc/cron.d/malicious.jsonl"},
		{"relative traversal", "../../../etc/passwd.jsonl"},
		{"wrong extension", filepath.Join(tmpDir, "export.txt")},
		{"subdirectory", filepath.Join(tmpDir, "nested", "export.jsonl")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Export(context.Background(), database, cfg, ExportInput{Path: tc.path})
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("Export error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestExport_Cancelled(t *testing.T) {
	database, cfg, tmpDir := setupTest(t)
	mustAdd(t, database, cfg, AddInput{Name: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exportPath := filepath.Join(tmpDir, "export.jsonl")
	if _, err := Export(ctx, database, cfg, ExportInput{Path: exportPath}); err == nil {
		t.Fatal("Export with cancelled context should fail")
	}
	if _, err := os.Stat(exportPath); !os.IsNotExist(err) {
		t.Error("cancelled export should not leave a file behind")
	}
}
