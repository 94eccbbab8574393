package importer

import (
	"github.com/hauke96/sigolo/v2"

	"context"
	"path/filepath"
)

// Clip cuts the OSM extract input down to clippingPolygon (an osmosis .poly
// file) with osmconvert, keeping ways that cross the boundary whole. It is
// skipped when output exists.
func (imp *Importer) Clip(ctx context.Context, input string, clippingPolygon string, output string) error {
	input = imp.Root.Path(input)
	clippingPolygon = imp.Root.Path(clippingPolygon)
	output = imp.Root.Path(output)
	if skip(output) {
		return nil
	}
	sigolo.Infof("- Clipping %s to %s", input, clippingPolygon)

	tmp, err := imp.prepare(output)
	if err != nil {
		return err
	}
	// osmconvert picks the output format from the extension
	tmp += "_" + filepath.Base(output)
	defer cleanup(tmp)

	err = imp.Runner.Run(ctx, "osmconvert", input, "-B="+clippingPolygon, "--complete-ways", "-o="+tmp)
	if err != nil {
		return err
	}
	return move(tmp, output)
}
