package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string  // optional, default: ~/.recase/exports/<workspace>-<timestamp>.jsonl
	Workspace      *string // optional filter by workspace
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes entities to a JSONL file: a header line, then one record per
// entity in id order. An existing file is replaced only if the export succeeds.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	path := input.Path
	if path == "" {
		var err error
		if path, err = defaultExportPath(input.Workspace, now); err != nil {
			return nil, err
		}
	}
	// Default paths are validated too.
	if err := ValidatePath(path, PathCheckWrite, ExportExtensions, cfg); err != nil {
		return nil, err
	}

	var workspaceNorm *string
	if input.Workspace != nil {
		norm := entity.Normalize(*input.Workspace)
		workspaceNorm = &norm
	}

	count := 0
	err := writeFileAtomic(path, func(w io.Writer) error {
		if err := writeJSONLine(w, entity.ExportHeader(now.Unix())); err != nil {
			return err
		}
		return db.StreamForExport(ctx, database, workspaceNorm, input.IncludeDeleted, func(e *entity.Entity) error {
			if ctx.Err() != nil {
				return errors.NewCancelled("export")
			}
			count++
			return writeJSONLine(w, entity.ToExportRecord(e))
		})
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{Path: path, Count: count, ExportedAt: now.Unix()}, nil
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// defaultExportPath returns ~/.recase/exports/<workspace>-<timestamp>.jsonl,
// or all-<timestamp>.jsonl without a workspace filter.
func defaultExportPath(workspace *string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	stem := "all"
	if workspace != nil && *workspace != "" {
		stem = filenameStem(*workspace)
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl", stem, now.Format("2006-01-02T150405"))), nil
}

// writeFileAtomic streams write into a sibling temp file (mode 0600), syncs it
// and renames it over path. On any error the temp file is removed and an
// existing file at path is left untouched.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	suffix, err := generateULID()
	if err != nil {
		return errors.NewInternal(err)
	}
	tmp := path + "." + suffix + ".tmp"
	f, err := openNoFollow(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}
	defer func() {
		if f != nil {
			f.Close()
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.NewInternal(err)
	}
	if err = f.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Windows cannot rename an open file.
	closeErr := f.Close()
	f = nil
	if closeErr != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", closeErr))
	}

	// os.Rename would follow a symlinked destination.
	if isSymlink(path) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	if err = os.Rename(tmp, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				err = errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows")
				return err
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}
