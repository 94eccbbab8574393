package mapmodel

import (
	"github.com/favyen/mapimport/lib"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"
	"github.com/qedus/osmpbf"

	"os"
)

// Builder turns a raw map into a routable map.
type Builder interface {
	Build(raw *RawMap, buildCH bool, timer *lib.Timer) (*Map, error)
}

// OSMBuilder builds the road graph from the raw map's OSM extract, which must
// be in PBF format.
type OSMBuilder struct {
	Root lib.Root
}

func (b OSMBuilder) Build(raw *RawMap, buildCH bool, timer *lib.Timer) (*Map, error) {
	osmPath := b.Root.Path(raw.OSMPath)
	if err := CheckPBF(osmPath); err != nil {
		return nil, err
	}

	timer.Start("loading " + osmPath)
	graphs, err := common.LoadOSMMultiple(osmPath, []common.Rectangle{raw.Bounds}, common.OSMOptions{
		Verbose:         true,
		NoParking:       true,
		CustomBlacklist: raw.Blacklist,
	})
	timer.Stop("loading " + osmPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", osmPath)
	}

	m := &Map{
		Name:     raw.Name,
		CityName: raw.CityName,
		Bounds:   raw.Bounds,
		Graph:    graphs[0],
	}
	if buildCH {
		timer.Start("contracting road segments")
		m.Contraction = Contract(m.Graph)
		timer.Stop("contracting road segments")
	}
	return m, nil
}

// CheckPBF reads the header block of an OSM PBF file. The graph loader never
// returns on a file whose header it cannot decode (an XML extract, say), so
// inputs are checked here first.
func CheckPBF(fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "opening %s", fname)
	}
	defer f.Close()
	if _, err := osmpbf.NewDecoder(f).Header(); err != nil {
		return errors.Wrapf(err, "%s is not an OSM PBF file", fname)
	}
	return nil
}
