package mapmodel

import (
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Contraction is the road graph with every chain of degree-2 nodes collapsed
// into one edge between junctions. Lengths[i] is the length in meters of the
// road behind Graph.Edges[i].
type Contraction struct {
	Graph   *common.Graph
	Lengths []float64
}

func Contract(g *common.Graph) *Contraction {
	c := &Contraction{Graph: &common.Graph{}}
	nodemap := make(map[int]*common.Node)
	junction := func(node *common.Node) *common.Node {
		if nodemap[node.ID] == nil {
			nodemap[node.ID] = c.Graph.AddNode(node.Point)
		}
		return nodemap[node.ID]
	}
	for _, rs := range g.GetRoadSegments() {
		var length float64
		for _, edge := range rs.Edges {
			length += distanceMeters(edge.Src.Point, edge.Dst.Point)
		}
		c.Graph.AddEdge(junction(rs.Src()), junction(rs.Dst()))
		c.Lengths = append(c.Lengths, length)
	}
	return c
}

// distanceMeters is the haversine distance between two lon/lat points.
func distanceMeters(p1 common.Point, p2 common.Point) float64 {
	return geo.DistanceHaversine(orb.Point{p1.X, p1.Y}, orb.Point{p2.X, p2.Y})
}
