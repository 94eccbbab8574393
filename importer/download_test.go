package importer

import (
	"github.com/favyen/mapimport/lib"

	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestImporter(t *testing.T) (*Importer, *fakeRunner, string) {
	root := t.TempDir()
	runner := newFakeRunner()
	imp := New(lib.Root(root))
	imp.Runner = runner
	return imp, runner, root
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		url  string
		want SourceFormat
	}{
		{"https://host/file.zip", FormatZip},
		{"https://www.dropbox.com/s/abc/file.zip?dl=0", FormatZip},
		{"https://host/extract.osm.gz", FormatGzip},
		{"https://host/file.gz?x=1", FormatPlain},
		{"https://host/shapes.kml", FormatKML},
		{"https://host/data.csv", FormatPlain},
	}
	for _, c := range cases {
		if got := DetectFormat(c.url); got != c.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"auto", "plain", "zip", "gzip", "kml"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		if f.String() != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, f.String())
		}
	}
	if _, err := ParseFormat("tar"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

func TestDownloadPlain(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	runner.urls["https://host/data.csv"] = []byte("a,b\n")
	ctx := context.Background()
	src := SourceDescriptor{URL: "https://host/data.csv"}

	if err := imp.Download(ctx, "input/seattle/data.csv", src); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got := readFile(t, filepath.Join(root, "input/seattle/data.csv")); got != "a,b\n" {
		t.Errorf("got %q", got)
	}
	if left := leftovers(t, root); len(left) != 0 {
		t.Errorf("temp artifacts left behind: %v", left)
	}

	// second call is a no-op
	if err := imp.Download(ctx, "input/seattle/data.csv", src); err != nil {
		t.Fatalf("Download again: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("expected one external call in total, got %v", runner.calls)
	}
}

func TestDownloadZipIntoParent(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	url := "https://host/file.zip?dl=0"
	runner.urls[url] = zipBytes(t, map[string]string{"foo.bin": "payload", "other.txt": "x"})

	if err := imp.Download(context.Background(), "data/foo.bin", SourceDescriptor{URL: url}); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if runner.ran("curl") != 1 || runner.ran("unzip") != 1 {
		t.Errorf("unexpected calls %v", runner.calls)
	}
	if got := readFile(t, filepath.Join(root, "data/foo.bin")); got != "payload" {
		t.Errorf("foo.bin = %q", got)
	}
	if !Exists(filepath.Join(root, "data/other.txt")) {
		t.Errorf("archive should be extracted into the target's parent")
	}
	if left := leftovers(t, root); len(left) != 0 {
		t.Errorf("temp artifacts left behind: %v", left)
	}
}

func TestDownloadZipIntoDirectoryTarget(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	url := "https://host/shapefiles.zip"
	runner.urls[url] = zipBytes(t, map[string]string{"roads.shp": "shp"})

	if err := imp.Download(context.Background(), "input/seattle/shapefiles/", SourceDescriptor{URL: url}); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !Exists(filepath.Join(root, "input/seattle/shapefiles/roads.shp")) {
		t.Errorf("directory-shaped target should receive the archive contents")
	}
	if Exists(filepath.Join(root, "input/seattle/roads.shp")) {
		t.Errorf("archive extracted into the parent of a directory target")
	}
	if left := leftovers(t, root); len(left) != 0 {
		t.Errorf("temp artifacts left behind: %v", left)
	}

	if err := imp.Download(context.Background(), "input/seattle/shapefiles/", SourceDescriptor{URL: url}); err != nil {
		t.Fatalf("Download again: %v", err)
	}
	if runner.ran("curl") != 1 {
		t.Errorf("existing directory should skip the download, calls %v", runner.calls)
	}
}

func TestDownloadRejectsFileSourceIntoDirectory(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	for _, src := range []SourceDescriptor{
		{URL: "https://host/blockface.csv"},
		{URL: "https://host/extract.osm.gz"},
	} {
		err := imp.Download(context.Background(), "input/seattle/blockface/", src)
		if err == nil {
			t.Fatalf("%s: expected error", src.URL)
		}
		if !strings.Contains(err.Error(), filepath.Join(root, "input/seattle/blockface")) {
			t.Errorf("error should name the target: %v", err)
		}
	}
	if len(runner.calls) != 0 || Exists(filepath.Join(root, "input")) {
		t.Errorf("rejected download must not have side effects, calls %v", runner.calls)
	}
}

func TestDownloadGzip(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	url := "https://host/extract.osm.gz"
	runner.urls[url] = gzipBytes(t, "<osm/>")

	if err := imp.Download(context.Background(), "input/seattle/osm/extract.osm", SourceDescriptor{URL: url}); err != nil {
		t.Fatalf("Download: %v", err)
	}
	out := filepath.Join(root, "input/seattle/osm/extract.osm")
	if got := readFile(t, out); got != "<osm/>" {
		t.Errorf("got %q", got)
	}
	if Exists(out + ".gz") {
		t.Errorf("output should not keep a .gz suffix")
	}
}

func TestDownloadExplicitFormatOverridesURL(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	url := "https://host/download?id=42"
	runner.urls[url] = gzipBytes(t, "body")

	src := SourceDescriptor{URL: url, Format: FormatGzip}
	if err := imp.Download(context.Background(), "input/blob.txt", src); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got := readFile(t, filepath.Join(root, "input/blob.txt")); got != "body" {
		t.Errorf("got %q", got)
	}
}

func TestDownloadRejectsDeclaredKML(t *testing.T) {
	imp, runner, root := newTestImporter(t)
	src := SourceDescriptor{URL: "https://host/shapes.kml", Format: FormatKML}
	if err := imp.Download(context.Background(), "input/shapes.bin", src); err == nil {
		t.Fatalf("expected error")
	}
	if len(runner.calls) != 0 {
		t.Errorf("no tool should run, got %v", runner.calls)
	}
	if Exists(filepath.Join(root, "input")) {
		t.Errorf("nothing should be created")
	}
}

func TestDownloadFailureLeavesNoOutput(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		fail   string
		output string
	}{
		{"curl", "https://host/data.csv", "curl", "input/data.csv"},
		{"unzip", "https://host/file.zip", "unzip", "input/file.bin"},
		{"gunzip", "https://host/file.osm.gz", "gunzip", "input/file.osm"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			imp, runner, root := newTestImporter(t)
			runner.urls[c.url] = []byte("irrelevant")
			runner.fail[c.fail] = true

			err := imp.Download(context.Background(), c.output, SourceDescriptor{URL: c.url})
			if err == nil {
				t.Fatalf("expected error")
			}
			if IsSpawnFailure(err) {
				t.Errorf("expected exit failure, got %v", err)
			}
			out := filepath.Join(root, c.output)
			if Exists(out) || Exists(out+".gz") {
				t.Errorf("failed download left output behind")
			}
			if left := leftovers(t, root); len(left) != 0 {
				t.Errorf("temp artifacts left behind: %v", left)
			}
		})
	}
}

func TestDownloadMissingURLFails(t *testing.T) {
	imp, runner, _ := newTestImporter(t)
	err := imp.Download(context.Background(), "input/x", SourceDescriptor{URL: "https://host/404"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if runner.ran("curl") != 1 {
		t.Errorf("calls %v", runner.calls)
	}
}
