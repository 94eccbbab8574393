// Package mapmodel holds the raw and built map representations, the routing
// contraction and the per-city manifest.
package mapmodel

import (
	"github.com/favyen/mapimport/wire"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"
)

const rawMapKind = "mapimport/raw_map/v1"

// RawMap describes where a map's source data lives before it is built.
type RawMap struct {
	Name     string
	CityName string
	Bounds   common.Rectangle

	// OSM extract, relative to the artifact root
	OSMPath string

	// highway tags to leave out of the road graph
	Blacklist []string
}

func (raw *RawMap) Write(fname string) error {
	var e wire.Encoder
	e.String(1, raw.Name)
	e.String(2, raw.CityName)
	e.Rectangle(3, raw.Bounds)
	e.String(4, raw.OSMPath)
	for _, tag := range raw.Blacklist {
		e.String(5, tag)
	}
	return wire.WriteFile(fname, rawMapKind, e.Bytes())
}

func ReadRawMap(fname string) (*RawMap, error) {
	msg, err := wire.ReadFile(fname, rawMapKind)
	if err != nil {
		return nil, err
	}
	raw := &RawMap{}
	err = wire.Walk(msg, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			raw.Name = f.String()
		case 2:
			raw.CityName = f.String()
		case 3:
			raw.Bounds, err = f.Rectangle()
		case 4:
			raw.OSMPath = f.String()
		case 5:
			raw.Blacklist = append(raw.Blacklist, f.String())
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fname)
	}
	return raw, nil
}
