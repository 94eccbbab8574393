package lib

import (
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Polygon is an osmosis .poly clipping polygon, the format osmconvert -B reads.
type Polygon struct {
	Name  string
	Rings []Ring
}

type Ring struct {
	Points []common.Point

	// holes are written with a leading '!' on the section name
	Hole bool
}

// Bounds covers the outer rings only.
func (poly Polygon) Bounds() common.Rectangle {
	rect := common.EmptyRectangle
	for _, ring := range poly.Rings {
		if ring.Hole {
			continue
		}
		for _, p := range ring.Points {
			rect = rect.Extend(p)
		}
	}
	return rect
}

func ReadPolygon(fname string) (*Polygon, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "reading polygon %s", fname)
	}
	defer f.Close()

	poly := &Polygon{}
	var cur *Ring
	lineNum := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lineNum == 1 {
			poly.Name = line
			continue
		}
		if line == "END" {
			if cur == nil {
				// end of file marker
				break
			}
			poly.Rings = append(poly.Rings, *cur)
			cur = nil
			continue
		}
		if cur == nil {
			cur = &Ring{Hole: strings.HasPrefix(line, "!")}
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, errors.Errorf("%s:%d: expected \"lon lat\", got %q", fname, lineNum, line)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", fname, lineNum)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", fname, lineNum)
		}
		cur.Points = append(cur.Points, common.Point{lon, lat})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading polygon %s", fname)
	}
	if cur != nil {
		return nil, errors.Errorf("%s: unterminated ring", fname)
	}
	if len(poly.Rings) == 0 {
		return nil, errors.Errorf("%s: no rings", fname)
	}
	return poly, nil
}

// ReadPolygonDir loads every .poly file in dir, keyed by file name without the
// extension. A missing directory yields no polygons.
func ReadPolygonDir(dir string) (map[string]*Polygon, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.poly"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	polys := make(map[string]*Polygon)
	for _, fname := range matches {
		poly, err := ReadPolygon(fname)
		if err != nil {
			return nil, err
		}
		polys[strings.TrimSuffix(filepath.Base(fname), ".poly")] = poly
	}
	return polys, nil
}
