package importer

import (
	"github.com/favyen/mapimport/lib"
	"github.com/favyen/mapimport/mapmodel"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"context"
)

// Job lists everything needed to import one city. Sections run in the order
// of the struct fields and the first failing step stops the job.
type Job struct {
	City      string         `json:"city"`
	Downloads []DownloadStep `json:"downloads"`
	KML       []KMLStep      `json:"kml"`
	Clips     []ClipStep     `json:"clips"`
	RawMaps   []RawMapStep   `json:"raw_maps"`
	Maps      []MapStep      `json:"maps"`

	// overrides the importer's default city manifest selection
	CityManifestMaps []string `json:"city_manifest_maps"`
}

type DownloadStep struct {
	Output string       `json:"output"`
	URL    string       `json:"url"`
	Format SourceFormat `json:"format"`
}

// Area picks a bounding rectangle: explicit bounds as
// [minLon, minLat, maxLon, maxLat], the bounding box of a .poly file, or a
// region from lib.Regions, in that order.
type Area struct {
	Bounds  *[4]float64 `json:"bounds,omitempty"`
	Polygon string      `json:"polygon,omitempty"`
	Region  string      `json:"region,omitempty"`
}

type KMLStep struct {
	Output                   string `json:"output"`
	URL                      string `json:"url"`
	RequireAllPointsInBounds bool   `json:"require_all_points_in_bounds"`
	Area
}

type ClipStep struct {
	Input   string `json:"input"`
	Polygon string `json:"polygon"`
	Output  string `json:"output"`
}

type RawMapStep struct {
	Name      string   `json:"name"`
	OSM       string   `json:"osm"`
	Blacklist []string `json:"blacklist"`
	Area
}

type MapStep struct {
	Name    string `json:"name"`
	BuildCH bool   `json:"build_ch"`
}

func LoadJob(fname string) (*Job, error) {
	job := &Job{}
	if err := lib.ReadJSONFile(fname, job); err != nil {
		return nil, err
	}
	if job.City == "" {
		return nil, errors.Errorf("%s: missing city", fname)
	}
	return job, nil
}

func (area Area) Resolve(root lib.Root, city string) (common.Rectangle, error) {
	if area.Bounds != nil {
		b := area.Bounds
		return common.Rectangle{common.Point{b[0], b[1]}, common.Point{b[2], b[3]}}, nil
	}
	if area.Polygon != "" {
		poly, err := lib.ReadPolygon(root.Path(area.Polygon))
		if err != nil {
			return common.Rectangle{}, err
		}
		return poly.Bounds(), nil
	}
	if area.Region != "" {
		region, ok := lib.GetRegion(city, area.Region)
		if !ok {
			return common.Rectangle{}, errors.Errorf("unknown region %s in %s", area.Region, city)
		}
		return region.Bounds(), nil
	}
	return common.Rectangle{}, errors.New("no bounds, polygon or region given")
}

func (job *Job) Run(ctx context.Context, imp *Importer) error {
	if len(job.CityManifestMaps) > 0 {
		override := *imp
		override.CityManifest = ManifestForMaps(job.CityManifestMaps...)
		imp = &override
	}

	for _, step := range job.Downloads {
		src := SourceDescriptor{URL: step.URL, Format: step.Format}
		if err := imp.Download(ctx, step.Output, src); err != nil {
			return errors.Wrapf(err, "download %s", step.Output)
		}
	}

	for _, step := range job.KML {
		bounds, err := step.Area.Resolve(imp.Root, job.City)
		if err != nil {
			return errors.Wrapf(err, "kml %s", step.Output)
		}
		src := SourceDescriptor{
			URL:                      step.URL,
			Format:                   FormatKML,
			Bounds:                   bounds,
			RequireAllPointsInBounds: step.RequireAllPointsInBounds,
		}
		if err := imp.DownloadKML(ctx, step.Output, src); err != nil {
			return errors.Wrapf(err, "kml %s", step.Output)
		}
	}

	for _, step := range job.Clips {
		if err := imp.Clip(ctx, step.Input, step.Polygon, step.Output); err != nil {
			return errors.Wrapf(err, "clip %s", step.Output)
		}
	}

	for _, step := range job.RawMaps {
		bounds, err := step.Area.Resolve(imp.Root, job.City)
		if err != nil {
			return errors.Wrapf(err, "raw map %s", step.Name)
		}
		raw := &mapmodel.RawMap{
			Name:      step.Name,
			CityName:  job.City,
			Bounds:    bounds,
			OSMPath:   step.OSM,
			Blacklist: step.Blacklist,
		}
		if err := imp.WriteRawMap(raw); err != nil {
			return errors.Wrapf(err, "raw map %s", step.Name)
		}
	}

	for _, step := range job.Maps {
		timer := lib.NewTimer("import " + job.City)
		if _, err := imp.RawToMap(step.Name, step.BuildCH, timer); err != nil {
			return errors.Wrapf(err, "map %s", step.Name)
		}
	}
	return nil
}
