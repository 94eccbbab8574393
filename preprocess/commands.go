package main

import (
	"github.com/favyen/mapimport/importer"
	"github.com/favyen/mapimport/kml"
	"github.com/favyen/mapimport/lib"
	"github.com/favyen/mapimport/mapmodel"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"os"
	"strconv"
	"strings"
)

func needArgs(c *cli.Context, n int) error {
	if c.Args().Len() != n {
		return errors.Errorf("%s needs %d arguments: %s", c.Command.Name, n, c.Command.ArgsUsage)
	}
	return nil
}

func areaFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.StringFlag{Name: "bounds", Usage: "minLon,minLat,maxLon,maxLat"},
		&cli.StringFlag{Name: "polygon", Usage: ".poly file whose bounding box is used"},
		&cli.StringFlag{Name: "region", Usage: "region name from the built-in table"},
		&cli.StringFlag{Name: "city", Usage: "city the region belongs to"},
	)
}

func areaFromFlags(c *cli.Context) (importer.Area, error) {
	area := importer.Area{
		Polygon: c.String("polygon"),
		Region:  c.String("region"),
	}
	if s := c.String("bounds"); s != "" {
		parts := strings.Split(s, ",")
		if len(parts) != 4 {
			return area, errors.Errorf("bad --bounds %q", s)
		}
		var b [4]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return area, errors.Wrapf(err, "bad --bounds %q", s)
			}
			b[i] = v
		}
		area.Bounds = &b
	}
	return area, nil
}

var downloadCommand = &cli.Command{
	Name:      "download",
	Usage:     "download a file, unzipping or gunzipping it as needed",
	ArgsUsage: "OUTPUT URL",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "format", Usage: "plain, zip or gzip; detected from the URL when unset"},
	},
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 2); err != nil {
			return err
		}
		format, err := importer.ParseFormat(c.String("format"))
		if err != nil {
			return err
		}
		src := importer.SourceDescriptor{URL: c.Args().Get(1), Format: format}
		return newImporter(c).Download(c.Context, c.Args().Get(0), src)
	},
}

var kmlCommand = &cli.Command{
	Name:      "kml",
	Usage:     "download a KML file and extract the shapes inside an area",
	ArgsUsage: "OUTPUT URL",
	Flags: areaFlags(
		&cli.BoolFlag{Name: "require-all-points-in-bounds", Usage: "drop shapes with any point outside the area"},
	),
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 2); err != nil {
			return err
		}
		imp := newImporter(c)
		area, err := areaFromFlags(c)
		if err != nil {
			return err
		}
		bounds, err := area.Resolve(imp.Root, c.String("city"))
		if err != nil {
			return err
		}
		src := importer.SourceDescriptor{
			URL:                      c.Args().Get(1),
			Format:                   importer.FormatKML,
			Bounds:                   bounds,
			RequireAllPointsInBounds: c.Bool("require-all-points-in-bounds"),
		}
		return imp.DownloadKML(c.Context, c.Args().Get(0), src)
	},
}

var clipCommand = &cli.Command{
	Name:      "clip",
	Usage:     "clip an OSM extract to a polygon with osmconvert",
	ArgsUsage: "INPUT POLYGON OUTPUT",
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 3); err != nil {
			return err
		}
		return newImporter(c).Clip(c.Context, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
	},
}

var rawCommand = &cli.Command{
	Name:      "raw",
	Usage:     "describe a raw map: its city, area and OSM extract",
	ArgsUsage: "NAME OSM",
	Flags: areaFlags(
		&cli.StringSliceFlag{Name: "blacklist", Usage: "highway tag to leave out"},
	),
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 2); err != nil {
			return err
		}
		imp := newImporter(c)
		area, err := areaFromFlags(c)
		if err != nil {
			return err
		}
		bounds, err := area.Resolve(imp.Root, c.String("city"))
		if err != nil {
			return err
		}
		return imp.WriteRawMap(&mapmodel.RawMap{
			Name:      c.Args().Get(0),
			CityName:  c.String("city"),
			Bounds:    bounds,
			OSMPath:   c.Args().Get(1),
			Blacklist: c.StringSlice("blacklist"),
		})
	},
}

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "build a map from its raw map",
	ArgsUsage: "NAME",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "skip-ch", Usage: "do not build the routing contraction"},
		&cli.StringSliceFlag{Name: "city-manifest", Usage: "map names that also get a city manifest"},
	},
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 1); err != nil {
			return err
		}
		imp := newImporter(c)
		if names := c.StringSlice("city-manifest"); len(names) > 0 {
			imp.CityManifest = importer.ManifestForMaps(names...)
		}
		name := c.Args().Get(0)
		_, err := imp.RawToMap(name, !c.Bool("skip-ch"), lib.NewTimer("build "+name))
		return err
	},
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "run every step of a job file",
	ArgsUsage: "JOB.json",
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 1); err != nil {
			return err
		}
		job, err := importer.LoadJob(c.Args().Get(0))
		if err != nil {
			return err
		}
		sigolo.Infof("Importing %s", job.City)
		return job.Run(c.Context, newImporter(c))
	},
}

var dumpShapesCommand = &cli.Command{
	Name:      "dump-shapes",
	Usage:     "print a shapes file as GeoJSON",
	ArgsUsage: "SHAPES",
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 1); err != nil {
			return err
		}
		imp := newImporter(c)
		shapes, err := kml.Read(imp.Root.Path(c.Args().Get(0)))
		if err != nil {
			return err
		}
		bytes, err := shapes.GeoJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(bytes, '\n'))
		return err
	},
}

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "draw a built map as SVG",
	ArgsUsage: "NAME OUTPUT.svg",
	Action: func(c *cli.Context) error {
		if err := needArgs(c, 2); err != nil {
			return err
		}
		imp := newImporter(c)
		m, err := mapmodel.ReadMap(imp.Root.Map(c.Args().Get(0)))
		if err != nil {
			return err
		}
		return m.RenderSVG(c.Args().Get(1))
	},
}
