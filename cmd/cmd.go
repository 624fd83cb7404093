// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.RollbackDatabase,
			},
		},
	}
}

// importCommand loads phones from delimited files
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import phones from one or more ';' delimited files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:     "path",
				Aliases:  []string{"p"},
				Usage:    "File to import (repeatable, glob patterns allowed)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "on-missing-column",
				Usage: "What to do when the header lacks a column: default or fail (overrides config)",
			},
			&cli.StringFlag{
				Name:  "delimiter",
				Usage: "Field delimiter (overrides config)",
			},
		},
		Action: r.Import,
	}
}

// catalogCommand handles catalog queries and administration
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"phones"},
		Usage:   "Browse and manage the phone catalog",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List phones",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort order: name, min_price or max_price",
						Value:   "name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: table, json, csv or markdown",
						Value:   "table",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:      "show",
				Usage:     "Show one phone by slug",
				ArgsUsage: "SLUG",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CatalogShow,
			},
			{
				Name:  "add",
				Usage: "Add a phone by hand",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Phone name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "price",
						Usage: "Price, two decimal places",
						Value: "0",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Image path or URL",
					},
					&cli.StringFlag{
						Name:  "release-date",
						Usage: "Release date (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "lte",
						Usage: "The phone supports LTE",
					},
					&cli.StringFlag{
						Name:  "slug",
						Usage: "Explicit slug (suffixed when taken)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogAdd,
			},
			{
				Name:  "export",
				Usage: "Export the catalog in the import file format",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
				},
				Action: r.CatalogExport,
			},
			{
				Name:    "imports",
				Aliases: []string{"history"},
				Usage:   "Show recent import runs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.CatalogImports,
			},
		},
	}
}

// serveCommand runs the HTTP catalog
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the catalog",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.TUI,
	}
}
