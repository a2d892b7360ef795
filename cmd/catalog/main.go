// ABOUTME: Command line tool for seeding, searching and comparing the marketplace catalogue
// ABOUTME: Runs against a local store or, with --server, a running search API

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalog",
		Usage: "Seed, search and compare marketplace listings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Store backend (memory, sqlite)",
				Value: "memory",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the SQLite database",
				Value:   "marketplace.db",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Catalogue YAML file loaded before the command runs",
				EnvVars: []string{"CATALOG_SEED_FILE"},
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of a running search API; local store flags are ignored",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load a catalogue YAML file into the SQLite store",
				ArgsUsage: "FILE",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Remove existing catalogue documents first",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search listings or articles",
				ArgsUsage: "[QUERY]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Entity type (software, service, article); default searches all listings",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category key or title",
					},
					&cli.StringFlag{
						Name:  "broker-type",
						Usage: "Broker type key or title",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Read one query per line from stdin",
					},
				},
			},
			{
				Name:      "intents",
				Usage:     "Suggest search intents for a prefix",
				ArgsUsage: "PREFIX",
				Action:    intentsCommand,
			},
			{
				Name:      "compare",
				Usage:     "Compare listings side by side",
				ArgsUsage: "ID [ID...]",
				Action:    compareCommand,
			},
		},
	}
}
