package config

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config file names, in lookup order. TOML wins when both exist.
const (
	TOMLFile = "config.toml"
	JSONFile = "config.json"
)

// RepoDirName is the per-repository config directory.
const RepoDirName = ".recase"

// Config is the merged result of the global and repository config files.
type Config struct {
	// DefaultStyle applies when a convert or rename call names no style.
	// Empty makes the style mandatory.
	DefaultStyle string `json:"default_style,omitempty" toml:"default_style,omitempty"`

	// NameMaxChars caps entity names, counted in runes.
	NameMaxChars int `json:"name_max_chars" toml:"name_max_chars"`

	// AllowedPaths are extra absolute directories that import, export and
	// rename-file may touch besides ~/.recase/exports. Relative entries are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty" toml:"allowed_paths,omitempty"`

	// AllowUnsafePaths lifts the directory allowlist. Symlinks and
	// extensions are still checked.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty" toml:"allow_unsafe_paths,omitempty"`

	// Connection pool limits; zero keeps the database/sql default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" toml:"db_max_open_conns,omitempty"`
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" toml:"db_max_idle_conns,omitempty"`

	// MCP tools to leave unregistered, by name or by family ("text", "entity").
	DisabledTools []string `json:"disabled_tools,omitempty" toml:"disabled_tools,omitempty"`
	DisabledTypes []string `json:"disabled_types,omitempty" toml:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NameMaxChars: 255,
	}
}

// Load reads baseDir/config.toml (or config.json) over the defaults.
// A missing file yields DefaultConfig.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(configFileIn(baseDir))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo layers defaults, the global config in globalDir, and the
// nearest .recase config found above startDir, in that order.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(configFileIn(globalDir))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig returns the config file of the closest .recase directory at or
// above startDir, or "" when there is none.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		if path := configFileIn(filepath.Join(dir, RepoDirName)); path != "" {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// configFileIn returns the config file present in dir, or "" if none.
func configFileIn(dir string) string {
	for _, name := range []string{TOMLFile, JSONFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFileRaw decodes one config file by extension. An empty or missing path
// gives a zero Config, not the defaults, so Merge can layer it.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

// Merge layers overlay on top of base. Non-zero overlay scalars win, booleans
// are OR-ed, and lists are concatenated with duplicates removed.
func Merge(base, overlay *Config) *Config {
	return &Config{
		DefaultStyle:     cmp.Or(strings.TrimSpace(overlay.DefaultStyle), base.DefaultStyle),
		NameMaxChars:     cmp.Or(overlay.NameMaxChars, base.NameMaxChars),
		DBMaxOpenConns:   cmp.Or(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:   cmp.Or(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		AllowUnsafePaths: base.AllowUnsafePaths || overlay.AllowUnsafePaths,
		AllowedPaths:     mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths),
		DisabledTools:    mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
		DisabledTypes:    mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes),
	}
}

// mergeStringSlice returns the trimmed, non-empty entries of a then b in first
// occurrence order, or nil when there are none.
func mergeStringSlice(a, b []string) []string {
	var result []string
	for _, s := range slices.Concat(a, b) {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(result, s) {
			result = append(result, s)
		}
	}
	return result
}
