package importer

import (
	"github.com/favyen/mapimport/lib"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"

	"context"
	"os"
)

// Download fetches src into output unless output already exists. Zip archives
// are extracted next to output (or into it, when output ends in a separator)
// and gzip streams are decompressed to output.
func (imp *Importer) Download(ctx context.Context, output string, src SourceDescriptor) error {
	output = imp.Root.Path(output)
	format := src.Format
	if format == FormatAuto {
		format = DetectFormat(src.URL)
		// an undeclared .kml is just a file here
		if format == FormatKML {
			format = FormatPlain
		}
	}
	if format == FormatKML {
		return errors.Errorf("%s is KML, convert it with DownloadKML", src.URL)
	}
	if _, ok := formatNames[format]; !ok {
		return errors.Wrapf(ErrUnknownFormat, "%d", format)
	}
	if format != FormatZip && lib.IsDirPath(output) {
		return errors.Errorf("%s is a directory, only zip sources can be downloaded into one", output)
	}
	if skip(output) {
		return nil
	}

	tmp, err := imp.prepare(output)
	if err != nil {
		return err
	}
	defer cleanup(tmp)

	sigolo.Infof("- Missing %s, so downloading %s", output, src.URL)
	if err := imp.fetch(ctx, src.URL, tmp); err != nil {
		return err
	}

	switch format {
	case FormatZip:
		unzipTo := lib.ParentDir(output)
		if lib.IsDirPath(output) {
			unzipTo = output
		}
		sigolo.Infof("- Unzipping into %s", unzipTo)
		if err := imp.Runner.Run(ctx, "unzip", tmp, "-d", unzipTo); err != nil {
			return err
		}
		if err := os.Remove(tmp); err != nil {
			return errors.Wrapf(err, "removing %s", tmp)
		}
	case FormatGzip:
		sigolo.Infof("- Gunzipping")
		gz := output + ".gz"
		if err := move(tmp, gz); err != nil {
			return err
		}
		if err := imp.Runner.Run(ctx, "gunzip", gz); err != nil {
			// output did not exist before, so anything there now is partial
			os.Remove(gz)
			os.Remove(output)
			return err
		}
	default:
		if err := move(tmp, output); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) fetch(ctx context.Context, url string, dst string) error {
	return imp.Runner.Run(ctx, "curl", "--fail", "-L", "-o", dst, url)
}
