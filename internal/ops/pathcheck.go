package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/recase/internal/casing"
	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import, rename-file
	PathCheckWrite                      // export
)

// File extensions accepted by import and export.
var (
	ImportExtensions = []string{".md", ".markdown", ".yaml", ".yml"}
	ExportExtensions = []string{".jsonl"}
)

// pathPolicy is the set of directories files may be read from or written to.
type pathPolicy struct {
	dirs   []string // absolute, symlinks resolved
	unsafe bool     // skip the directory rule; symlink rules still apply
}

func newPathPolicy(cfg *config.Config) (*pathPolicy, error) {
	if cfg != nil && cfg.AllowUnsafePaths {
		return &pathPolicy{unsafe: true}, nil
	}

	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	candidates := []string{exportsDir}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				candidates = append(candidates, p)
			}
		}
	}

	p := &pathPolicy{dirs: make([]string, 0, len(candidates))}
	for _, d := range candidates {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		// A symlinked allowed_paths entry matches its target.
		if isSymlink(abs) {
			if abs, err = filepath.EvalSymlinks(abs); err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
		}
		p.dirs = append(p.dirs, abs)
	}
	return p, nil
}

// allows reports whether dir is exactly one of the allowed directories.
// Subdirectories are not allowed, so no intermediate component can be swapped
// for a symlink between the check and the open.
func (p *pathPolicy) allows(dir string) bool {
	return slices.Contains(p.dirs, filepath.Clean(dir))
}

func (p *pathPolicy) check(path string, mode PathCheckMode, exts []string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !hasExtension(cleaned, exts) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have one of the extensions %v", exts))
	}
	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if !p.unsafe {
		parent := filepath.Dir(absPath)
		if !p.allows(parent) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", p.dirs))
		}
		if isSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}
	// Files are opened with O_NOFOLLOW; rejecting here gives the clearer error.
	if isSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// ValidatePath checks a file path for import, export or rename-file:
// no ".." components, one of exts as extension, parent directory exactly
// ~/.recase/exports or an allowed_paths entry (unless allow_unsafe_paths),
// and neither the file nor its directory may be a symlink.
func ValidatePath(path string, mode PathCheckMode, exts []string, cfg *config.Config) error {
	p, err := newPathPolicy(cfg)
	if err != nil {
		return err
	}
	return p.check(path, mode, exts)
}

// DefaultExportsDir returns the default exports directory (~/.recase/exports).
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, config.RepoDirName, "exports"), nil
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func hasExtension(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// containsTraversal reports whether any component of path is "..",
// splitting on "/" as well as the OS separator.
func containsTraversal(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// filenameStem turns a workspace name into a file name prefix. Kebab output
// holds only letters, digits and dashes, so it cannot escape the directory.
func filenameStem(workspace string) string {
	if stem := casing.Kebab(workspace); stem != "" {
		return stem
	}
	return "unnamed"
}
