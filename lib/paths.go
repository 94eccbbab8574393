package lib

import (
	"os"
	"path/filepath"
	"strings"
)

// Root is the artifact root every relative input and output path resolves
// against.
type Root string

const DefaultRoot Root = "data"

// Path resolves rel against the root. Absolute paths are returned unchanged.
// A trailing separator is kept since it marks a directory-shaped target.
func (root Root) Path(rel string) string {
	var p string
	if filepath.IsAbs(rel) {
		p = filepath.Clean(rel)
	} else {
		p = filepath.Join(string(root), rel)
	}
	if IsDirPath(rel) && !IsDirPath(p) {
		p += string(os.PathSeparator)
	}
	return p
}

func (root Root) RawMap(name string) string {
	return root.Path(filepath.Join("input", "raw_maps", name+".bin"))
}

func (root Root) Map(name string) string {
	return root.Path(filepath.Join("system", "maps", name+".bin"))
}

func (root Root) City(city string) string {
	return root.Path(filepath.Join("system", "cities", city+".bin"))
}

func (root Root) CityPolygons(city string) string {
	return root.Path(filepath.Join("input", city, "polygons"))
}

// IsDirPath reports whether p is directory-shaped, i.e. ends in a separator.
func IsDirPath(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(os.PathSeparator))
}

// ParentDir returns the directory holding p. For directory-shaped paths this is
// the parent of the directory itself.
func ParentDir(p string) string {
	return filepath.Dir(strings.TrimRight(p, "/"+string(os.PathSeparator)))
}
