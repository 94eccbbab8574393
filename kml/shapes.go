// Package kml extracts point and polyline shapes from KML files.
package kml

import (
	"github.com/favyen/mapimport/wire"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"sort"
)

const fileKind = "mapimport/shapes/v1"

// Shape is one geometry of a placemark. A single point is a point shape,
// anything longer is a polyline.
type Shape struct {
	Points     []common.Point
	Attributes map[string]string
}

type ExtraShapes struct {
	Shapes []Shape
}

func (s Shape) Bounds() common.Rectangle {
	rect := common.EmptyRectangle
	for _, p := range s.Points {
		rect = rect.Extend(p)
	}
	return rect
}

func (shapes *ExtraShapes) Write(fname string) error {
	var e wire.Encoder
	for _, shape := range shapes.Shapes {
		shape := shape
		e.Message(1, func(m *wire.Encoder) {
			for _, p := range shape.Points {
				m.Point(1, p)
			}
			keys := make([]string, 0, len(shape.Attributes))
			for k := range shape.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				m.Message(2, func(kv *wire.Encoder) {
					kv.String(1, k)
					kv.String(2, shape.Attributes[k])
				})
			}
		})
	}
	return wire.WriteFile(fname, fileKind, e.Bytes())
}

func Read(fname string) (*ExtraShapes, error) {
	msg, err := wire.ReadFile(fname, fileKind)
	if err != nil {
		return nil, err
	}
	shapes := &ExtraShapes{}
	err = wire.Walk(msg, func(f wire.Field) error {
		if f.Num != 1 {
			return nil
		}
		shape := Shape{Attributes: make(map[string]string)}
		err := wire.Walk(f.Bytes, func(f wire.Field) error {
			switch f.Num {
			case 1:
				p, err := f.Point()
				if err != nil {
					return err
				}
				shape.Points = append(shape.Points, p)
			case 2:
				var k, v string
				err := wire.Walk(f.Bytes, func(f wire.Field) error {
					if f.Num == 1 {
						k = f.String()
					} else if f.Num == 2 {
						v = f.String()
					}
					return nil
				})
				if err != nil {
					return err
				}
				shape.Attributes[k] = v
			}
			return nil
		})
		if err != nil {
			return err
		}
		shapes.Shapes = append(shapes.Shapes, shape)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shapes, nil
}

// GeoJSON renders the shapes as a FeatureCollection for inspection in other
// tools.
func (shapes *ExtraShapes) GeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, shape := range shapes.Shapes {
		var geom orb.Geometry
		if len(shape.Points) == 1 {
			geom = orb.Point{shape.Points[0].X, shape.Points[0].Y}
		} else {
			ls := make(orb.LineString, len(shape.Points))
			for i, p := range shape.Points {
				ls[i] = orb.Point{p.X, p.Y}
			}
			geom = ls
		}
		feature := geojson.NewFeature(geom)
		for k, v := range shape.Attributes {
			feature.Properties[k] = v
		}
		fc.Append(feature)
	}
	return fc.MarshalJSON()
}
