package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/recase/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the database file inside the base directory.
const FileName = "recase.db"

// migrations[i] moves the schema from user_version i to i+1.
var migrations = [...]string{
	`CREATE TABLE entities (
	  id              TEXT PRIMARY KEY,
	  parent_id       TEXT,
	  workspace_raw   TEXT NOT NULL,
	  workspace_norm  TEXT NOT NULL,
	  name_raw        TEXT NOT NULL,
	  name_norm       TEXT NOT NULL,
	  kind            TEXT NOT NULL,
	  editable        INTEGER NOT NULL DEFAULT 1,
	  created_at      INTEGER NOT NULL,
	  updated_at      INTEGER NOT NULL,
	  deleted_at      INTEGER
	);

	-- Live siblings are unique by normalized name; roots share parent ''.
	CREATE UNIQUE INDEX idx_entities_sibling_name
	ON entities(workspace_norm, COALESCE(parent_id, ''), name_norm)
	WHERE deleted_at IS NULL;

	CREATE INDEX idx_entities_parent
	ON entities(parent_id)
	WHERE deleted_at IS NULL;

	CREATE INDEX idx_entities_workspace_roots
	ON entities(workspace_norm, id)
	WHERE parent_id IS NULL;`,
}

// CurrentSchemaVersion is the user_version after all migrations have run.
const CurrentSchemaVersion = len(migrations)

// Init opens (creating if needed) baseDir/recase.db in WAL mode and migrates it.
// baseDir and its exports subdirectory are created with mode 0700.
func Init(baseDir string) (*sql.DB, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, "exports")} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		_ = os.Chmod(dir, 0700)
	}

	dbPath := filepath.Join(baseDir, FileName)
	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		db.Close()
		return nil, fmt.Errorf("expected WAL mode, got %s", journalMode)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies db_max_open_conns and db_max_idle_conns when set.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate runs each pending migration in its own transaction together with
// the user_version bump, so a failed step leaves the previous version intact.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: failed to set user_version: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}
	return nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion overwrites the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
