package kml

import (
	"github.com/beevik/etree"
	"github.com/favyen/mapimport/lib"
	"github.com/hauke96/sigolo/v2"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"strconv"
	"strings"
)

// Load parses every placemark geometry in a KML file and keeps the shapes that
// fall inside bounds. With requireAllPtsInBounds a shape is kept only when all
// of its points are inside; otherwise one point inside is enough. Kept shapes
// are never clipped.
func Load(fname string, bounds common.Rectangle, requireAllPtsInBounds bool, timer *lib.Timer) (*ExtraShapes, error) {
	timer.Start("parsing KML " + fname)
	doc := etree.NewDocument()
	err := doc.ReadFromFile(fname)
	timer.Stop("parsing KML " + fname)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", fname)
	}

	timer.Start("extracting shapes")
	defer timer.Stop("extracting shapes")

	shapes := &ExtraShapes{}
	var skipped int
	for _, placemark := range doc.FindElements("//Placemark") {
		attributes := placemarkAttributes(placemark)
		for _, el := range placemark.FindElements(".//coordinates") {
			pts, err := parseCoordinates(el.Text())
			if err != nil {
				return nil, errors.Wrapf(err, "%s: placemark %q", fname, attributes["name"])
			}
			if len(pts) == 0 {
				continue
			}
			if !keep(pts, bounds, requireAllPtsInBounds) {
				skipped++
				continue
			}
			shape := Shape{
				Points:     pts,
				Attributes: make(map[string]string, len(attributes)),
			}
			for k, v := range attributes {
				shape.Attributes[k] = v
			}
			shapes.Shapes = append(shapes.Shapes, shape)
		}
	}
	sigolo.Infof("- Got %d shapes from %s, skipped %d out of bounds", len(shapes.Shapes), fname, skipped)
	return shapes, nil
}

func keep(pts []common.Point, bounds common.Rectangle, requireAll bool) bool {
	for _, p := range pts {
		in := bounds.Contains(p)
		if requireAll && !in {
			return false
		}
		if !requireAll && in {
			return true
		}
	}
	return requireAll
}

// placemarkAttributes flattens name, description and both ExtendedData forms
// (Data/value and SchemaData/SimpleData) into one map.
func placemarkAttributes(placemark *etree.Element) map[string]string {
	attributes := make(map[string]string)
	for _, tag := range []string{"name", "description"} {
		if el := placemark.SelectElement(tag); el != nil {
			attributes[tag] = strings.TrimSpace(el.Text())
		}
	}
	for _, el := range placemark.FindElements(".//SimpleData") {
		attributes[el.SelectAttrValue("name", "")] = strings.TrimSpace(el.Text())
	}
	for _, el := range placemark.FindElements(".//Data") {
		value := el.SelectElement("value")
		if value == nil {
			continue
		}
		attributes[el.SelectAttrValue("name", "")] = strings.TrimSpace(value.Text())
	}
	return attributes
}

// parseCoordinates reads a KML coordinates list: whitespace separated
// "lon,lat[,alt]" tuples.
func parseCoordinates(text string) ([]common.Point, error) {
	var pts []common.Point
	for _, tuple := range strings.Fields(text) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, errors.Errorf("bad coordinate %q", tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad coordinate %q", tuple)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad coordinate %q", tuple)
		}
		pts = append(pts, common.Point{lon, lat})
	}
	return pts, nil
}
