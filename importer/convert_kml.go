package importer

import (
	"github.com/favyen/mapimport/kml"
	"github.com/favyen/mapimport/lib"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"

	"context"
	"path/filepath"
	"strings"
)

var ErrNotKML = errors.New("source is not KML")

// SidecarPath is where the KML behind a shapes artifact is kept: the same path
// with a .kml extension.
func SidecarPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".kml"
}

// DownloadKML fetches a KML file, extracts the shapes inside src.Bounds and
// writes them to output unless output already exists.
//
// The KML itself is kept next to output. When it is there, it is reused instead
// of downloading again, so rebuilding output after a format change never pulls
// in newer upstream data by accident.
func (imp *Importer) DownloadKML(ctx context.Context, output string, src SourceDescriptor) error {
	if src.Resolved() != FormatKML {
		return errors.Wrapf(ErrNotKML, "%s", src.URL)
	}
	output = imp.Root.Path(output)
	if lib.IsDirPath(output) || SidecarPath(output) == output {
		return errors.Errorf("shapes output %s would collide with its KML sidecar", output)
	}
	if skip(output) {
		return nil
	}

	tmp, err := imp.prepare(output)
	if err != nil {
		return err
	}
	defer cleanup(tmp)

	sidecar := SidecarPath(output)
	if Exists(sidecar) {
		sigolo.Infof("- Reusing %s", sidecar)
		if err := lib.CopyFile(sidecar, tmp); err != nil {
			return err
		}
	} else {
		sigolo.Infof("- Missing %s, so downloading %s", output, src.URL)
		if err := imp.fetch(ctx, src.URL, tmp); err != nil {
			return err
		}
	}

	sigolo.Infof("- Extracting KML data")
	timer := lib.NewTimer("extracting shapes from KML")
	shapes, err := kml.Load(tmp, src.Bounds, src.RequireAllPointsInBounds, timer)
	if err != nil {
		return err
	}
	if err := shapes.Write(output); err != nil {
		return err
	}
	return move(tmp, sidecar)
}
