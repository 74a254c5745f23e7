package graph

import "math"

// Graph represents a directed street graph in CSR (Compressed Sparse Row)
// format. Once built it is read-only and safely shared across travel modes;
// per-mode travel-time weights live in a separate Weighted view.
type Graph struct {
	NumNodes uint32
	NumEdges uint32
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32  // len: NumEdges; target node for each edge
	LengthMM []uint32  // len: NumEdges; edge length in millimeters
	NodeLat  []float64 // len: NumNodes
	NodeLon  []float64 // len: NumNodes
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// Weighted pairs a shared base graph with a derived travel-time cost per
// edge. The base graph is never mutated; each mode owns its weight array.
type Weighted struct {
	*Graph
	TravelMs []uint32 // len: NumEdges; travel time in milliseconds
}

// WeighBySpeed derives travel-time weights from edge lengths and a constant
// speed in km/h. A zero or negative speed maps every edge to zero cost
// rather than infinity, so the solver still terminates.
func WeighBySpeed(g *Graph, speedKmh float64) Weighted {
	travel := make([]uint32, g.NumEdges)
	if speedKmh > 0 {
		// km/h to mm/ms is a division by 3.6.
		mmPerMs := speedKmh / 3.6
		for i, lengthMM := range g.LengthMM {
			ms := math.Round(float64(lengthMM) / mmPerMs)
			if ms >= math.MaxUint32 {
				ms = math.MaxUint32 - 1
			}
			travel[i] = uint32(ms)
		}
	}
	return Weighted{Graph: g, TravelMs: travel}
}
