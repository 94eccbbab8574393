package mapmodel

import (
	"github.com/favyen/mapimport/lib"
	"github.com/favyen/mapimport/wire"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"sort"
)

const cityKind = "mapimport/city/v1"

// City summarizes the large reference map of a city and the named regions
// (smaller maps) cut from it.
type City struct {
	Name         string
	ReferenceMap string
	Boundary     common.Rectangle
	Regions      []CityRegion

	NumIntersections int
	NumRoads         int
}

type CityRegion struct {
	Name   string
	Bounds common.Rectangle
}

// NewCity builds the manifest for m. Regions come from the city's clipping
// polygons under the artifact root.
func NewCity(m *Map, root lib.Root) (*City, error) {
	polys, err := lib.ReadPolygonDir(root.CityPolygons(m.CityName))
	if err != nil {
		return nil, errors.Wrapf(err, "loading polygons of %s", m.CityName)
	}
	city := &City{
		Name:         m.CityName,
		ReferenceMap: m.Name,
		Boundary:     m.Bounds,
	}
	for name, poly := range polys {
		city.Regions = append(city.Regions, CityRegion{name, poly.Bounds()})
	}
	sort.Slice(city.Regions, func(i, j int) bool {
		return city.Regions[i].Name < city.Regions[j].Name
	})

	for _, node := range m.Graph.Nodes {
		if len(node.Out) != 2 {
			city.NumIntersections++
		}
	}
	// road segments come in both directions
	city.NumRoads = len(m.Graph.GetRoadSegments()) / 2
	return city, nil
}

func (city *City) Write(fname string) error {
	var e wire.Encoder
	e.String(1, city.Name)
	e.String(2, city.ReferenceMap)
	e.Rectangle(3, city.Boundary)
	for _, region := range city.Regions {
		region := region
		e.Message(4, func(m *wire.Encoder) {
			m.String(1, region.Name)
			m.Rectangle(2, region.Bounds)
		})
	}
	e.Uint(5, uint64(city.NumIntersections))
	e.Uint(6, uint64(city.NumRoads))
	return wire.WriteFile(fname, cityKind, e.Bytes())
}

func ReadCity(fname string) (*City, error) {
	msg, err := wire.ReadFile(fname, cityKind)
	if err != nil {
		return nil, err
	}
	city := &City{}
	err = wire.Walk(msg, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			city.Name = f.String()
		case 2:
			city.ReferenceMap = f.String()
		case 3:
			city.Boundary, err = f.Rectangle()
		case 4:
			var region CityRegion
			err = wire.Walk(f.Bytes, func(f wire.Field) error {
				var err error
				switch f.Num {
				case 1:
					region.Name = f.String()
				case 2:
					region.Bounds, err = f.Rectangle()
				}
				return err
			})
			city.Regions = append(city.Regions, region)
		case 5:
			city.NumIntersections = int(f.Uint)
		case 6:
			city.NumRoads = int(f.Uint)
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fname)
	}
	return city, nil
}
