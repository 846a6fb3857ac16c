package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/ag758/dashbin"
)

// newApp creates the CLI application with all commands.
func newApp(store *dashbin.Store) *cli.App {
	// -v is the verbose alias below; keep the built-in version flag
	// long-form only so both can register.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
	app := &cli.App{
		Name:    "dashbin",
		Usage:   "Searchable command shelf",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
		},
		Commands: []*cli.Command{
			listCmd(store),
			addCmd(store),
			suggestCmd(store),
			pinCmd(store),
			editCmd(store),
			rmCmd(store),
			groupCmd(store),
		},
	}
	// Disable default exit handling so errors propagate in tests.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// listCmd shows shelved commands, score-ordered when a query is given.
func listCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List shelved commands, ranked when a query is given",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ids", Usage: "Show record ids"},
		},
		Action: func(c *cli.Context) error {
			records := store.List(strings.Join(c.Args().Slice(), " "))
			writeRecords(c.App.Writer, records, c.Bool("ids"))
			return nil
		},
	}
}

// addCmd shelves a command without running it.
func addCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Shelve a command",
		ArgsUsage: "<command...>",
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to add")
			}
			store.Add(text)
			return nil
		},
	}
}

// suggestCmd prints the single best completion for a prefix.
func suggestCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Print the most recent command starting with the given prefix",
		ArgsUsage: "<prefix>",
		Action: func(c *cli.Context) error {
			text, ok := store.Suggest(strings.Join(c.Args().Slice(), " "))
			if !ok {
				return fmt.Errorf("no completion")
			}
			fmt.Fprintln(c.App.Writer, text)
			return nil
		},
	}
}

// pinCmd toggles the pinned flag on a record.
func pinCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "pin",
		Usage:     "Toggle a record's pin (pinned records are never evicted)",
		ArgsUsage: "<id-prefix|text>",
		Action: func(c *cli.Context) error {
			rec, err := findRecord(store, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}
			store.TogglePin(rec.ID)
			return nil
		},
	}
}

// editCmd rewrites a record's text, optionally propagating into groups.
func editCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Replace a record's text",
		ArgsUsage: "<id-prefix|text> <new text...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "propagate", Usage: "Also rewrite matching group entries"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: edit <record> <new text>")
			}
			rec, err := findRecord(store, c.Args().Get(0))
			if err != nil {
				return err
			}
			newText := strings.Join(c.Args().Slice()[1:], " ")
			if !store.Edit(rec.ID, newText) {
				return fmt.Errorf("edit failed")
			}
			if c.Bool("propagate") {
				store.PropagateEdit(rec.Text, newText)
			}
			return nil
		},
	}
}

// rmCmd deletes a record.
func rmCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a shelved command",
		ArgsUsage: "<id-prefix|text>",
		Action: func(c *cli.Context) error {
			rec, err := findRecord(store, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}
			store.Delete(rec.ID)
			return nil
		},
	}
}

// groupCmd holds the group CRUD subcommands.
func groupCmd(store *dashbin.Store) *cli.Command {
	return &cli.Command{
		Name:  "group",
		Usage: "Manage named command groups",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List groups and their members",
				Action: func(c *cli.Context) error {
					for _, g := range store.Groups() {
						fmt.Fprintf(c.App.Writer, "%s (%d)\n", g.Name, len(g.Records))
						for _, r := range g.Records {
							fmt.Fprintf(c.App.Writer, "  %s\n", r.Text)
						}
					}
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Create an empty group",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					if _, ok := store.CreateGroup(name); !ok {
						return fmt.Errorf("group name required")
					}
					return nil
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a group",
				ArgsUsage: "<name> <new name>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: group rename <name> <new name>")
					}
					g, err := findGroup(store, c.Args().Get(0))
					if err != nil {
						return err
					}
					if !store.RenameGroup(g.ID, c.Args().Get(1)) {
						return fmt.Errorf("rename failed")
					}
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a group",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					g, err := findGroup(store, strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return err
					}
					store.DeleteGroup(g.ID)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Copy a shelved command into a group",
				ArgsUsage: "<group> <id-prefix|text>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("usage: group add <group> <record>")
					}
					g, err := findGroup(store, c.Args().Get(0))
					if err != nil {
						return err
					}
					rec, err := findRecord(store, strings.Join(c.Args().Slice()[1:], " "))
					if err != nil {
						return err
					}
					if _, ok := store.AddToGroup(g.ID, rec); !ok {
						return fmt.Errorf("group vanished")
					}
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a member from a group",
				ArgsUsage: "<group> <text>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("usage: group remove <group> <text>")
					}
					g, err := findGroup(store, c.Args().Get(0))
					if err != nil {
						return err
					}
					text := strings.Join(c.Args().Slice()[1:], " ")
					for _, r := range g.Records {
						if r.Text == text {
							store.RemoveFromGroup(g.ID, r.ID)
							return nil
						}
					}
					return fmt.Errorf("no member %q in group %q", text, g.Name)
				},
			},
		},
	}
}

// findRecord resolves an argument to a shelved record by exact text, exact
// id, or unique id prefix.
func findRecord(store *dashbin.Store, arg string) (dashbin.Record, error) {
	if strings.TrimSpace(arg) == "" {
		return dashbin.Record{}, fmt.Errorf("record argument required")
	}
	records := store.List("")
	var byPrefix []dashbin.Record
	for _, r := range records {
		if r.Text == arg || r.ID == arg {
			return r, nil
		}
		if strings.HasPrefix(r.ID, arg) {
			byPrefix = append(byPrefix, r)
		}
	}
	switch len(byPrefix) {
	case 1:
		return byPrefix[0], nil
	case 0:
		return dashbin.Record{}, fmt.Errorf("no record matches %q", arg)
	default:
		return dashbin.Record{}, fmt.Errorf("%q is ambiguous (%d records)", arg, len(byPrefix))
	}
}

// findGroup resolves a group by exact name or id.
func findGroup(store *dashbin.Store, arg string) (dashbin.Group, error) {
	for _, g := range store.Groups() {
		if g.Name == arg || g.ID == arg {
			return g, nil
		}
	}
	return dashbin.Group{}, fmt.Errorf("no group %q", arg)
}

// writeRecords prints records one per line, truncated to the terminal width
// when stdout is a terminal.
func writeRecords(w io.Writer, records []dashbin.Record, showIDs bool) {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = tw
		}
	}
	for _, r := range records {
		line := r.Text
		if r.Pinned {
			line = "* " + line
		} else {
			line = "  " + line
		}
		if showIDs {
			line = r.ID[:8] + " " + line
		}
		if width > 1 {
			runes := []rune(line)
			if len(runes) > width {
				line = string(runes[:width-1]) + "…"
			}
		}
		fmt.Fprintln(w, line)
	}
}
