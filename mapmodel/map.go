package mapmodel

import (
	"github.com/favyen/mapimport/wire"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"

	"math"
)

const mapKind = "mapimport/map/v1"

// Map is a built road network ready for routing.
type Map struct {
	Name     string
	CityName string
	Bounds   common.Rectangle
	Graph    *common.Graph

	// nil unless the map was built with a routing structure
	Contraction *Contraction
}

func (m *Map) Write(fname string) error {
	var e wire.Encoder
	e.String(1, m.Name)
	e.String(2, m.CityName)
	e.Rectangle(3, m.Bounds)
	e.Message(4, func(g *wire.Encoder) {
		encodeGraph(g, m.Graph)
	})
	if m.Contraction != nil {
		e.Message(5, func(c *wire.Encoder) {
			c.Message(1, func(g *wire.Encoder) {
				encodeGraph(g, m.Contraction.Graph)
			})
			for _, length := range m.Contraction.Lengths {
				c.Float(2, length)
			}
		})
	}
	return wire.WriteFile(fname, mapKind, e.Bytes())
}

func ReadMap(fname string) (*Map, error) {
	msg, err := wire.ReadFile(fname, mapKind)
	if err != nil {
		return nil, err
	}
	m := &Map{}
	err = wire.Walk(msg, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Name = f.String()
		case 2:
			m.CityName = f.String()
		case 3:
			m.Bounds, err = f.Rectangle()
		case 4:
			m.Graph, err = decodeGraph(f.Bytes)
		case 5:
			m.Contraction, err = decodeContraction(f.Bytes)
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fname)
	}
	if m.Graph == nil {
		m.Graph = &common.Graph{}
	}
	return m, nil
}

// RenderSVG draws the road graph, scaled so the longer side of the map bounds
// is about 2048 units.
func (m *Map) RenderSVG(fname string) error {
	size := math.Max(m.Bounds.Max.X-m.Bounds.Min.X, m.Bounds.Max.Y-m.Bounds.Min.Y)
	if size <= 0 {
		return errors.Errorf("map %s has empty bounds", m.Name)
	}
	boundables := []common.Boundable{common.ColoredBoundable{m.Graph, "blue"}}
	return common.CreateSVG(fname, [][]common.Boundable{boundables}, common.SVGOptions{
		StrokeWidth: 1.0,
		Zoom:        2048 / size,
		Bounds:      m.Bounds,
		Unflip:      true,
	})
}

// Nodes are written in ID order so that AddNode reproduces the same IDs on
// decode; edges refer to them by ID.
func encodeGraph(e *wire.Encoder, g *common.Graph) {
	if g == nil {
		return
	}
	for _, node := range g.Nodes {
		e.Point(1, node.Point)
	}
	for _, edge := range g.Edges {
		e.Message(2, func(m *wire.Encoder) {
			m.Uint(1, uint64(edge.Src.ID))
			m.Uint(2, uint64(edge.Dst.ID))
		})
	}
}

func decodeGraph(b []byte) (*common.Graph, error) {
	g := &common.Graph{}
	err := wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			p, err := f.Point()
			if err != nil {
				return err
			}
			g.AddNode(p)
		case 2:
			var src, dst uint64
			err := wire.Walk(f.Bytes, func(f wire.Field) error {
				if f.Num == 1 {
					src = f.Uint
				} else if f.Num == 2 {
					dst = f.Uint
				}
				return nil
			})
			if err != nil {
				return err
			}
			if src >= uint64(len(g.Nodes)) || dst >= uint64(len(g.Nodes)) {
				return errors.Errorf("edge %d->%d refers to a missing node", src, dst)
			}
			g.AddEdge(g.Nodes[src], g.Nodes[dst])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func decodeContraction(b []byte) (*Contraction, error) {
	c := &Contraction{}
	err := wire.Walk(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			c.Graph, err = decodeGraph(f.Bytes)
		case 2:
			c.Lengths = append(c.Lengths, f.Float())
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if c.Graph == nil {
		c.Graph = &common.Graph{}
	}
	return c, nil
}
