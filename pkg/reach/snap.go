package reach

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/graph"
)

// ErrNoNearbyNode is returned when no graph node lies within the search
// limit of the query point.
var ErrNoNearbyNode = errors.New("no graph node near point")

// maxSnapDistMeters bounds how far the origin may be from the nearest node.
const maxSnapDistMeters = 8_000.0

// NodeIndex finds the graph node nearest to a geographic point using an
// R-tree over node coordinates.
type NodeIndex struct {
	tr rtree.RTreeG[uint32]
	g  *graph.Graph
}

// NewNodeIndex builds a spatial index over the graph's nodes.
func NewNodeIndex(g *graph.Graph) *NodeIndex {
	idx := &NodeIndex{g: g}
	for i := uint32(0); i < g.NumNodes; i++ {
		pt := [2]float64{g.NodeLon[i], g.NodeLat[i]}
		idx.tr.Insert(pt, pt, i)
	}
	return idx
}

// Nearest returns the node closest to the given coordinate. The search
// widens geometrically from a 250 m box until a candidate appears or the
// snap limit is exceeded.
func (idx *NodeIndex) Nearest(lat, lng float64) (uint32, error) {
	if idx.g.NumNodes == 0 {
		return 0, ErrEmptyGraph
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	for radius := 250.0; radius <= maxSnapDistMeters; radius *= 2 {
		dLat := radius / 111_320.0
		dLon := radius / (111_320.0 * cosLat)

		best := uint32(0)
		bestDist := math.Inf(1)
		idx.tr.Search(
			[2]float64{lng - dLon, lat - dLat},
			[2]float64{lng + dLon, lat + dLat},
			func(min, max [2]float64, data uint32) bool {
				d := geo.EquirectangularDist(lat, lng, idx.g.NodeLat[data], idx.g.NodeLon[data])
				if d < bestDist {
					bestDist = d
					best = data
				}
				return true
			},
		)
		if bestDist <= radius {
			return best, nil
		}
	}

	return 0, ErrNoNearbyNode
}
