package importer

import (
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"encoding/json"
	"strings"
)

// SourceFormat says how a downloaded blob becomes its output.
type SourceFormat int

const (
	// FormatAuto picks the format from the URL, see DetectFormat.
	FormatAuto SourceFormat = iota
	FormatPlain
	FormatZip
	FormatGzip
	FormatKML
)

var formatNames = map[SourceFormat]string{
	FormatAuto:  "auto",
	FormatPlain: "plain",
	FormatZip:   "zip",
	FormatGzip:  "gzip",
	FormatKML:   "kml",
}

var ErrUnknownFormat = errors.New("unknown source format")

func (f SourceFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

func ParseFormat(s string) (SourceFormat, error) {
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatAuto, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

func (f SourceFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *SourceFormat) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DetectFormat guesses the format from a URL. Zip uses substring matching
// since some hosts serve archives as "file.zip?dl=0".
func DetectFormat(url string) SourceFormat {
	if strings.Contains(url, ".zip") {
		return FormatZip
	} else if strings.HasSuffix(url, ".gz") {
		return FormatGzip
	} else if strings.HasSuffix(url, ".kml") {
		return FormatKML
	}
	return FormatPlain
}

// SourceDescriptor is one remote dataset. Bounds and
// RequireAllPointsInBounds only matter for KML.
type SourceDescriptor struct {
	URL    string
	Format SourceFormat

	Bounds                   common.Rectangle
	RequireAllPointsInBounds bool
}

// Resolved returns the explicit format, detecting it if unset.
func (src SourceDescriptor) Resolved() SourceFormat {
	if src.Format == FormatAuto {
		return DetectFormat(src.URL)
	}
	return src.Format
}
