package main

import (
	"github.com/favyen/mapimport/importer"
	"github.com/favyen/mapimport/lib"
	"github.com/hauke96/sigolo/v2"
	"github.com/urfave/cli/v2"

	"os"
)

func main() {
	app := &cli.App{
		Name:  "mapimport",
		Usage: "Fetch, normalize and build the source data of routable maps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Value:   string(lib.DefaultRoot),
				Usage:   "artifact root all relative paths resolve against",
				EnvVars: []string{"MAPIMPORT_ROOT"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log timings and other details",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
			}
			return nil
		},
		Commands: []*cli.Command{
			downloadCommand,
			kmlCommand,
			clipCommand,
			rawCommand,
			buildCommand,
			runCommand,
			dumpShapesCommand,
			renderCommand,
		},
	}

	// any failure stops the whole import; rerunning skips what is done
	if err := app.Run(os.Args); err != nil {
		sigolo.Fatalf("%v", err)
	}
}

func newImporter(c *cli.Context) *importer.Importer {
	return importer.New(lib.Root(c.String("root")))
}
