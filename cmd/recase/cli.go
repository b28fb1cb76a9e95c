package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/recase/internal/casing"
	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/errors"
	"github.com/hpungsan/recase/internal/ops"
	"github.com/hpungsan/recase/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, logger *slog.Logger) *cli.App {
	commands := []*cli.Command{convertCmd(cfg)}
	commands = append(commands, styleCmds()...)
	commands = append(commands,
		addCmd(db, cfg),
		fetchCmd(db),
		listCmd(db),
		treeCmd(db),
		renameCmd(db, cfg),
		deleteCmd(db),
		purgeCmd(db),
		importCmd(db, cfg),
		exportCmd(db, cfg),
		serveCmd(db, cfg, logger),
	)

	app := &cli.App{
		Name:     "recase",
		Usage:    "Unicode-aware identifier casing and batch renaming",
		Version:  Version,
		Commands: commands,
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// textCommandNames returns the subcommands that only need the casing engine.
func textCommandNames() map[string]bool {
	names := map[string]bool{"convert": true}
	for _, s := range casing.Styles() {
		names[commandName(s)] = true
	}
	return names
}

// commandName turns a style into its shortcut command name.
func commandName(s casing.Style) string {
	return strings.ReplaceAll(string(s), "_", "-")
}

// convertCmd creates the convert command.
func convertCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert text to a style (text from args or stdin)",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Target style: " + strings.Join(casing.StyleNames(), "|")},
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Render the text in every style"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			text, err := readText(c)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("all") {
				output := ops.ConvertAll(text)
				if c.Bool("json") {
					return outputJSON(c.App.Writer, output)
				}
				for _, conv := range output.Conversions {
					fmt.Fprintf(c.App.Writer, "%-16s %s\n", conv.Style, conv.Output)
				}
				return nil
			}

			output, err := ops.Convert(cfg, ops.ConvertInput{Style: c.String("style"), Text: text})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			fmt.Fprintln(c.App.Writer, output.Output)
			return nil
		},
	}
}

// styleCmds creates one shortcut command per style, e.g. `recase snake "User ID"`.
func styleCmds() []*cli.Command {
	styles := casing.Styles()
	cmds := make([]*cli.Command, 0, len(styles))
	for _, s := range styles {
		cmds = append(cmds, &cli.Command{
			Name:      commandName(s),
			Usage:     fmt.Sprintf("Convert text to %s (text from args or stdin)", s),
			ArgsUsage: "[text...]",
			Action: func(c *cli.Context) error {
				text, err := readText(c)
				if err != nil {
					return outputError(err)
				}
				fmt.Fprintln(c.App.Writer, casing.Apply(s, text))
				return nil
			},
		})
	}
	return cmds
}

// addressFlags are the name-mode addressing flags shared by entity commands.
func addressFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Workspace name (default: default)"},
		&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Parent entity ID (omit for a workspace root)"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Entity name"},
	}
}

// readAddress returns (id, workspace, parent, name). A positional argument is an ID.
func readAddress(c *cli.Context) (string, string, string, string) {
	if c.NArg() > 0 {
		return c.Args().First(), "", "", ""
	}
	return "", c.String("workspace"), c.String("parent"), c.String("name")
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an entity",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Workspace name (default: default)"},
			&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Parent entity ID"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Entity kind (default: node)"},
			&cli.BoolFlag{Name: "locked", Usage: "Mark the entity as not editable by rename"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddInput{
				Workspace: c.String("workspace"),
				ParentID:  c.String("parent"),
				Name:      strings.Join(c.Args().Slice(), " "),
				Kind:      c.String("kind"),
			}
			if c.Bool("locked") {
				editable := false
				input.Editable = &editable
			}

			output, err := ops.Add(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an entity by ID or name",
		ArgsUsage: "[id]",
		Flags: append(addressFlags(),
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entities (ID lookups only)"},
		),
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{IncludeDeleted: c.Bool("include-deleted")}
			input.ID, input.Workspace, input.ParentID, input.Name = readAddress(c)

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List workspace roots, or the children of --parent",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Workspace name (default: default)"},
			&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "List children of this entity ID"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entities"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, ops.ListInput{
				Workspace:      c.String("workspace"),
				ParentID:       c.String("parent"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// treeCmd creates the tree command.
func treeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Show an entity and its descendants",
		ArgsUsage: "[id]",
		Flags: append(addressFlags(),
			&cli.IntFlag{Name: "max-depth", Aliases: []string{"d"}, Usage: "Levels to show, root is level 1 (0 = unlimited)"},
			&cli.BoolFlag{Name: "pretty", Usage: "Render as an indented tree instead of JSON"},
		),
		Action: func(c *cli.Context) error {
			input := ops.TreeInput{MaxDepth: c.Int("max-depth")}
			input.ID, input.Workspace, input.ParentID, input.Name = readAddress(c)

			output, err := ops.Tree(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("pretty") {
				fmt.Fprintln(c.App.Writer, renderTree(output.Root))
				return nil
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// renameCmd creates the rename command.
func renameCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Apply a style to an entity subtree, or to a hierarchy file with --file",
		ArgsUsage: "[id]",
		Flags: append(addressFlags(),
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Target style (default: default_style from config)"},
			&cli.IntFlag{Name: "max-depth", Aliases: []string{"d"}, Usage: "Levels to rename, root is level 1 (0 = unlimited)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show the changes without writing them"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Rename a .md or .yaml hierarchy in memory instead of stored entities"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON even for dry runs"},
		),
		Action: func(c *cli.Context) error {
			if path := c.String("file"); path != "" {
				output, err := ops.RenameFile(c.Context, cfg, ops.RenameFileInput{
					Path:     path,
					Style:    c.String("style"),
					MaxDepth: c.Int("max-depth"),
				})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, output)
			}

			input := ops.RenameInput{
				Style:    c.String("style"),
				DryRun:   c.Bool("dry-run"),
				MaxDepth: c.Int("max-depth"),
			}
			input.ID, input.Workspace, input.ParentID, input.Name = readAddress(c)

			output, err := ops.Rename(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			if output.DryRun && !c.Bool("json") {
				fmt.Fprintln(c.App.Writer, renderChanges(output.Changes))
				fmt.Fprintf(c.App.Writer, "%d to rename, %d unchanged, %d skipped (dry run)\n",
					output.Renamed, output.Unchanged, output.Skipped)
				return nil
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an entity and its descendants",
		ArgsUsage: "[id]",
		Flags:     addressFlags(),
		Action: func(c *cli.Context) error {
			input := ops.DeleteInput{}
			input.ID, input.Workspace, input.ParentID, input.Name = readAddress(c)

			output, err := ops.Delete(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted entities",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Filter by workspace"},
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if workspace := c.String("workspace"); workspace != "" {
				input.Workspace = &workspace
			}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a markdown outline or YAML tree as entities",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Required: true, Usage: "Import file path (.md, .markdown, .yaml, .yml)"},
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Workspace name (default: default)"},
			&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Import under this entity ID"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(ops.ImportModeError), Usage: "Collision mode: error|merge|rename"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				Path:      c.String("path"),
				Workspace: c.String("workspace"),
				ParentID:  c.String("parent"),
				Mode:      ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export entities to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Export file path (default: ~/.recase/exports/<workspace>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Filter by workspace"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entities"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			}
			if workspace := c.String("workspace"); workspace != "" {
				input.Workspace = &workspace
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8484, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
			}
			srv := web.NewServer(db, cfg, logger, c.String("bind"), port)
			if err := web.Run(srv, logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI as "[CODE] message".
func outputError(err error) error {
	if rErr, ok := errors.As(err); ok {
		msg := rErr.Message
		if rErr.Code == errors.ErrInternal {
			if detail, ok := rErr.Details["internal_error"].(string); ok {
				msg += ": " + detail
			}
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, msg), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readText returns the positional args joined by spaces, or piped input when
// there are none. A trailing newline from the pipe is dropped.
func readText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	r := c.App.Reader
	if f, ok := r.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", errors.NewInvalidRequest("text is required: pass it as arguments or pipe it via stdin")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
