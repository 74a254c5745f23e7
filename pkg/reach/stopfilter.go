package reach

import (
	"math"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/graph"
)

// StopFilter restricts a road graph to nodes plausibly served by a
// stop-based transit mode: nodes within StopRadiusM of a known stop, plus
// nodes within StartRadiusM of the projection center (the origin), so the
// origin stays reachable even when no stop sits exactly at it.
type StopFilter struct {
	StopRadiusM  float64
	StartRadiusM float64
}

// cellKey packs two int32 cell indices into a single uint64 map key.
func cellKey(xIdx, yIdx int32) uint64 {
	return uint64(uint32(xIdx))<<32 | uint64(uint32(yIdx))
}

// NodesNearStops returns the indices of graph nodes allowed by the filter,
// in ascending node order. Stops and nodes are compared in the projection's
// planar meters; a uniform grid with cell size StopRadiusM limits each node
// to a 3×3 cell probe, so the cost stays near linear in node count. The
// result depends only on the geometry, never on iteration order.
func NodesNearStops(g *graph.Graph, proj geo.Projection, stops []geo.LatLng, f StopFilter) []uint32 {
	if len(stops) == 0 {
		return nil
	}

	cell := f.StopRadiusM
	grid := make(map[uint64][][2]float64)
	for _, s := range stops {
		x, y := proj.Forward(s)
		key := cellKey(int32(math.Floor(x/cell)), int32(math.Floor(y/cell)))
		grid[key] = append(grid[key], [2]float64{x, y})
	}

	stopRadiusSq := f.StopRadiusM * f.StopRadiusM
	startRadiusSq := f.StartRadiusM * f.StartRadiusM

	var allowed []uint32
	for i := uint32(0); i < g.NumNodes; i++ {
		x, y := proj.Forward(geo.LatLng{Lat: g.NodeLat[i], Lng: g.NodeLon[i]})

		// The projection center is the origin at (0, 0).
		if x*x+y*y <= startRadiusSq {
			allowed = append(allowed, i)
			continue
		}

		cx := int32(math.Floor(x / cell))
		cy := int32(math.Floor(y / cell))
		found := false
		for dx := int32(-1); dx <= 1 && !found; dx++ {
			for dy := int32(-1); dy <= 1 && !found; dy++ {
				for _, s := range grid[cellKey(cx+dx, cy+dy)] {
					ex := x - s[0]
					ey := y - s[1]
					if ex*ex+ey*ey <= stopRadiusSq {
						found = true
						break
					}
				}
			}
		}
		if found {
			allowed = append(allowed, i)
		}
	}

	return allowed
}
