package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// storeCommands are subcommands that need the entity store.
var storeCommands = map[string]bool{
	"add": true, "fetch": true, "list": true, "tree": true,
	"rename": true, "delete": true, "purge": true,
	"import": true, "export": true, "serve": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if storeCommands[arg] || textCommandNames()[arg] {
		return true
	}
	return isHelpOrVersion()
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  ___ ___ __ _ ___ ___
  | '_|/ -_) _/ _' (_-</ -_)
  |_|  \___\__\__,_/__/\___|

  Unicode-aware identifier casing

  Usage: recase <command> [options]
         recase snake "HTTPServer2FA"
         recase --help

  MCP server mode requires piped input.`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Help, version and text commands need neither the store nor config files.
	if isHelpOrVersion() || (len(os.Args) >= 2 && textCommandNames()[os.Args[1]]) {
		cfg := config.DefaultConfig()
		if !isHelpOrVersion() {
			cfg = loadConfig()
		}
		app := newCLIApp(nil, cfg, logger)
		if err := app.Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	if len(os.Args) >= 2 && !isCLIMode() && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'recase --help' for usage.\n")
		os.Exit(1)
	}

	baseDir, err := globalDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}

	cfg := loadConfig()

	if bad := mcp.ValidateDisabledTools(cfg.DisabledTools); len(bad) > 0 {
		fail("unknown disabled_tools in config: %s", strings.Join(bad, ", "))
	}
	if bad := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(bad) > 0 {
		fail("unknown disabled_types in config: %s", strings.Join(bad, ", "))
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	if isCLIMode() {
		app := newCLIApp(database, cfg, logger)
		if err := app.Run(os.Args); err != nil {
			database.Close()
			fail("%v", err)
		}
		return
	}

	// MCP server mode (default)
	logger.Debug("starting MCP server", "version", Version)
	if err := mcp.Run(database, cfg, Version); err != nil {
		database.Close()
		fail("%v", err)
	}
}

// globalDir returns ~/.recase.
func globalDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, config.RepoDirName), nil
}

// loadConfig merges the global and repo configs, exiting on a malformed file.
func loadConfig() *config.Config {
	baseDir, err := globalDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, wd)
	if err != nil {
		fail("failed to load config: %v", err)
	}
	return cfg
}

