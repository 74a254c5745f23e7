package street

import (
	"log"
	"math"

	"github.com/paulmach/osm"

	"isochrone_mapper/pkg/geo"
)

// RawEdge represents a directed edge extracted from OSM data.
type RawEdge struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	LengthMM   uint32 // distance in millimeters
}

// ParseResult holds the directed edges and node coordinates extracted from
// an OSM document for one network type.
type ParseResult struct {
	Edges   []RawEdge
	NodeLat map[osm.NodeID]float64
	NodeLon map[osm.NodeID]float64
}

// FromOSM extracts directed edges for the given network from an OSM document
// (typically an Overpass response parsed by paulmach/osm). Ways whose node
// coordinates are missing from the document contribute no edges for the
// affected segments; those are counted and logged, never fatal.
func FromOSM(o *osm.OSM, net Network) *ParseResult {
	nodeLat := make(map[osm.NodeID]float64, len(o.Nodes))
	nodeLon := make(map[osm.NodeID]float64, len(o.Nodes))
	for _, n := range o.Nodes {
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}

	var edges []RawEdge
	var skippedEdges int

	for _, w := range o.Ways {
		if !accessible(net, w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		fwd, bwd := directionFlags(net, w.Tags)
		if !fwd && !bwd {
			continue
		}

		for i := 0; i < len(w.Nodes)-1; i++ {
			fromID := w.Nodes[i].ID
			toID := w.Nodes[i+1].ID

			fromLat, fromOk := nodeLat[fromID]
			fromLon := nodeLon[fromID]
			toLat, toOk := nodeLat[toID]
			toLon := nodeLon[toID]

			if !fromOk || !toOk {
				skippedEdges++
				continue
			}

			dist := geo.Haversine(fromLat, fromLon, toLat, toLon)
			lengthMM := uint32(math.Round(dist * 1000))
			if lengthMM == 0 {
				lengthMM = 1 // avoid zero-length edges
			}

			if fwd {
				edges = append(edges, RawEdge{FromNodeID: fromID, ToNodeID: toID, LengthMM: lengthMM})
			}
			if bwd {
				edges = append(edges, RawEdge{FromNodeID: toID, ToNodeID: fromID, LengthMM: lengthMM})
			}
		}
	}

	if skippedEdges > 0 {
		log.Printf("Warning: skipped %d edges due to missing node coordinates", skippedEdges)
	}

	return &ParseResult{
		Edges:   edges,
		NodeLat: nodeLat,
		NodeLon: nodeLon,
	}
}
