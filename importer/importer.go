// Package importer fetches and normalizes the source data of a map and turns
// raw maps into routable maps. Every operation is skipped when its output
// already exists, so a job can be rerun after fixing whatever broke it.
//
// Operations are meant to be run one at a time from a single process; nothing
// here is safe for concurrent use against the same outputs.
package importer

import (
	"github.com/favyen/mapimport/lib"
	"github.com/favyen/mapimport/mapmodel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"os"
	"path/filepath"
)

const tmpPrefix = ".tmp_output_"

type Importer struct {
	Root    lib.Root
	Runner  Runner
	Builder mapmodel.Builder

	// CityManifest picks the maps that also get a city manifest.
	CityManifest func(m *mapmodel.Map) bool

	// NewTempName returns a fresh name for the temporary artifact of one
	// operation.
	NewTempName func() string
}

func New(root lib.Root) *Importer {
	return &Importer{
		Root:         root,
		Runner:       ExecRunner{},
		Builder:      mapmodel.OSMBuilder{Root: root},
		CityManifest: ManifestForMaps("huge_seattle"),
		NewTempName: func() string {
			return tmpPrefix + uuid.NewString()
		},
	}
}

// ManifestForMaps selects maps by name.
func ManifestForMaps(names ...string) func(m *mapmodel.Map) bool {
	set := make(map[string]bool)
	for _, name := range names {
		set[name] = true
	}
	return func(m *mapmodel.Map) bool {
		return set[m.Name]
	}
}

// prepare creates the parent directory of output and returns a temp artifact
// path next to it.
func (imp *Importer) prepare(output string) (string, error) {
	dir := lib.ParentDir(output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating parent dir of %s", output)
	}
	return filepath.Join(dir, imp.NewTempName()), nil
}

// cleanup removes a temp artifact that was not moved into place.
func cleanup(tmp string) {
	os.RemoveAll(tmp)
}

func move(src string, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "moving %s to %s", src, dst)
	}
	return nil
}
