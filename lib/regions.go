package lib

import (
	"github.com/mitroadmaps/gomapinfer/common"

	"fmt"
	"path/filepath"
)

// TileSize is the width and height in degrees of one region tile.
const TileSize = 0.1

type Region struct {
	// e.g. "downtown"
	Name string

	// e.g. "seattle"
	City string

	// smallest longitude and latitude
	Start common.Point

	// how many tiles along x and y axes
	Width  int
	Height int
}

var Regions = []Region{
	{
		Name:   "huge_seattle",
		City:   "seattle",
		Start:  common.Point{-122.45, 47.45},
		Width:  3,
		Height: 3,
	},
	{
		Name:   "downtown",
		City:   "seattle",
		Start:  common.Point{-122.36, 47.59},
		Width:  1,
		Height: 1,
	},
	{
		Name:   "montlake",
		City:   "seattle",
		Start:  common.Point{-122.32, 47.63},
		Width:  1,
		Height: 1,
	},
	{
		Name:   "ballard",
		City:   "seattle",
		Start:  common.Point{-122.41, 47.65},
		Width:  1,
		Height: 1,
	},
	{
		Name:   "west_seattle",
		City:   "seattle",
		Start:  common.Point{-122.43, 47.52},
		Width:  1,
		Height: 1,
	},
	{
		Name:   "center",
		City:   "austin",
		Start:  common.Point{-97.842357, 30.200509},
		Width:  2,
		Height: 2,
	},
	{
		Name:   "center",
		City:   "sf",
		Start:  common.Point{-122.49, 37.70},
		Width:  1,
		Height: 1,
	},
}

// Bounds is the region rectangle padded by 0.01 degrees on every side.
func (region Region) Bounds() common.Rectangle {
	size := common.Point{float64(region.Width), float64(region.Height)}
	end := region.Start.Add(size.Scale(TileSize))
	return common.Rectangle{
		common.Point{region.Start.X - 0.01, region.Start.Y - 0.01},
		common.Point{end.X + 0.01, end.Y + 0.01},
	}
}

func (region Region) Label() string {
	return fmt.Sprintf("%s_%s", region.City, region.Name)
}

// PolygonPath is where the clipping polygon of the region lives, relative to
// the artifact root.
func (region Region) PolygonPath() string {
	return filepath.Join("input", region.City, "polygons", region.Name+".poly")
}

func GetRegion(city string, name string) (Region, bool) {
	for _, region := range Regions {
		if region.City == city && region.Name == name {
			return region, true
		}
	}
	return Region{}, false
}
