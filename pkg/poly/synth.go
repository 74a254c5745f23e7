package poly

import (
	"fmt"
	"math"

	"github.com/engelsjk/polygol"
	"github.com/paulmach/orb"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/graph"
)

// minBufferMeters is the smallest disc radius ever used, so a degenerate
// reachable set still yields an area geometry.
const minBufferMeters = 10.0

// Synthesizer turns a reachable node set into a single area geometry: a
// fixed-radius disc around each node, unioned in a planar projection and
// reprojected back to geographic coordinates.
type Synthesizer struct {
	BufferM  float64 // disc radius in meters
	Segments int     // vertices per disc
}

// DefaultSynthesizer returns the synthesizer used for street networks.
func DefaultSynthesizer() Synthesizer {
	return Synthesizer{BufferM: 200, Segments: 24}
}

// FromNodes builds the union of discs around the given graph nodes and
// returns it as a Polygon or MultiPolygon in WGS84. An empty node set
// yields (nil, nil): no result, not an error.
func (s Synthesizer) FromNodes(proj geo.Projection, g *graph.Graph, nodes []uint32) (orb.Geometry, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	radius := s.BufferM
	if radius < minBufferMeters {
		radius = minBufferMeters
	}
	segments := s.Segments
	if segments < 8 {
		segments = 8
	}

	discs := make([]polygol.Geom, 0, len(nodes))
	for _, n := range nodes {
		x, y := proj.Forward(geo.LatLng{Lat: g.NodeLat[n], Lng: g.NodeLon[n]})
		discs = append(discs, disc(x, y, radius, segments))
	}

	merged, err := polygol.Union(discs[0], discs[1:]...)
	if err != nil {
		return nil, fmt.Errorf("union %d discs: %w", len(discs), err)
	}
	if len(merged) == 0 {
		// Clipping collapsed everything; inflate the first node so the
		// consumer still receives an area.
		x, y := proj.Forward(geo.LatLng{Lat: g.NodeLat[nodes[0]], Lng: g.NodeLon[nodes[0]]})
		merged = disc(x, y, minBufferMeters, segments)
	}

	return reproject(proj, merged), nil
}

// disc returns a single closed-ring polygon approximating a circle of the
// given radius around (cx, cy).
func disc(cx, cy, radius float64, segments int) polygol.Geom {
	ring := make([][]float64, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, []float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return polygol.Geom{{ring}}
}

// reproject converts a planar multipolygon back to geographic coordinates.
// A single-polygon result collapses to an orb.Polygon.
func reproject(proj geo.Projection, m polygol.Geom) orb.Geometry {
	mp := make(orb.MultiPolygon, 0, len(m))
	for _, polygon := range m {
		p := make(orb.Polygon, 0, len(polygon))
		for _, ring := range polygon {
			r := make(orb.Ring, 0, len(ring))
			for _, pt := range ring {
				ll := proj.Inverse(pt[0], pt[1])
				r = append(r, orb.Point{ll.Lng, ll.Lat})
			}
			if len(r) > 0 && r[0] != r[len(r)-1] {
				r = append(r, r[0]) // ensure closed rings
			}
			p = append(p, r)
		}
		mp = append(mp, p)
	}

	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}
