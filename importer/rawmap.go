package importer

import (
	"github.com/favyen/mapimport/lib"
	"github.com/favyen/mapimport/mapmodel"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"

	"os"
)

// WriteRawMap records where a map's source data lives, unless a raw map of
// that name already exists.
func (imp *Importer) WriteRawMap(raw *mapmodel.RawMap) error {
	output := imp.Root.RawMap(raw.Name)
	if skip(output) {
		return nil
	}
	if err := os.MkdirAll(lib.ParentDir(output), 0755); err != nil {
		return errors.Wrapf(err, "creating parent dir of %s", output)
	}
	sigolo.Infof("- Writing raw map %s", output)
	return raw.Write(output)
}

// RawToMap builds the map called name from its raw map and saves it. Maps
// picked by CityManifest also get a city manifest.
func (imp *Importer) RawToMap(name string, buildCH bool, timer *lib.Timer) (*mapmodel.Map, error) {
	span := "Raw->Map for " + name
	timer.Start(span)
	raw, err := mapmodel.ReadRawMap(imp.Root.RawMap(name))
	if err != nil {
		timer.Stop(span)
		return nil, err
	}
	m, err := imp.Builder.Build(raw, buildCH, timer)
	if err != nil {
		timer.Stop(span)
		return nil, errors.Wrapf(err, "building %s", name)
	}

	output := imp.Root.Map(name)
	timer.Start("save map")
	err = os.MkdirAll(lib.ParentDir(output), 0755)
	if err == nil {
		err = m.Write(output)
	}
	timer.Stop("save map")
	timer.Stop(span)
	if err != nil {
		return nil, errors.Wrapf(err, "saving %s", output)
	}
	sigolo.Infof("- Wrote %s", output)

	if imp.CityManifest != nil && imp.CityManifest(m) {
		if err := imp.writeCityManifest(m, timer); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (imp *Importer) writeCityManifest(m *mapmodel.Map, timer *lib.Timer) error {
	timer.Start("generating city manifest")
	defer timer.Stop("generating city manifest")
	city, err := mapmodel.NewCity(m, imp.Root)
	if err != nil {
		return err
	}
	output := imp.Root.City(m.CityName)
	if err := os.MkdirAll(lib.ParentDir(output), 0755); err != nil {
		return errors.Wrapf(err, "creating parent dir of %s", output)
	}
	if err := city.Write(output); err != nil {
		return err
	}
	sigolo.Infof("- Wrote city manifest %s", output)
	return nil
}
