package graph

import (
	"testing"

	"github.com/paulmach/osm"

	"isochrone_mapper/pkg/street"
)

func TestBuildSimpleGraph(t *testing.T) {
	// Triangle: 100 -> 200 -> 300 -> 100
	result := &street.ParseResult{
		Edges: []street.RawEdge{
			{FromNodeID: 100, ToNodeID: 200, LengthMM: 1000},
			{FromNodeID: 200, ToNodeID: 300, LengthMM: 2000},
			{FromNodeID: 300, ToNodeID: 100, LengthMM: 3000},
		},
		NodeLat: map[osm.NodeID]float64{100: 40.75, 200: 40.76, 300: 40.75},
		NodeLon: map[osm.NodeID]float64{100: -73.98, 200: -73.98, 300: -73.97},
	}

	g := Build(result)

	if g.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes)
	}
	if g.NumEdges != 3 {
		t.Fatalf("NumEdges = %d, want 3", g.NumEdges)
	}

	// Each node has exactly one outgoing edge.
	for i := uint32(0); i < g.NumNodes; i++ {
		start, end := g.EdgesFrom(i)
		if end-start != 1 {
			t.Errorf("Node %d has %d edges, want 1", i, end-start)
		}
	}

	var totalLength uint32
	for _, l := range g.LengthMM {
		totalLength += l
	}
	if totalLength != 6000 {
		t.Errorf("total length = %d, want 6000", totalLength)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	result := &street.ParseResult{
		Edges:   nil,
		NodeLat: map[osm.NodeID]float64{},
		NodeLon: map[osm.NodeID]float64{},
	}

	g := Build(result)

	if g.NumNodes != 0 {
		t.Errorf("NumNodes = %d, want 0", g.NumNodes)
	}
	if g.NumEdges != 0 {
		t.Errorf("NumEdges = %d, want 0", g.NumEdges)
	}
	if len(g.FirstOut) != 1 || g.FirstOut[0] != 0 {
		t.Errorf("FirstOut = %v, want [0]", g.FirstOut)
	}
}

func TestBuildCSRInvariants(t *testing.T) {
	// Star graph: 10 -> {20, 30, 40}, plus a back edge.
	result := &street.ParseResult{
		Edges: []street.RawEdge{
			{FromNodeID: 10, ToNodeID: 20, LengthMM: 100},
			{FromNodeID: 10, ToNodeID: 30, LengthMM: 200},
			{FromNodeID: 10, ToNodeID: 40, LengthMM: 300},
			{FromNodeID: 20, ToNodeID: 10, LengthMM: 100},
		},
		NodeLat: map[osm.NodeID]float64{10: 40.75, 20: 40.76, 30: 40.77, 40: 40.78},
		NodeLon: map[osm.NodeID]float64{10: -73.98, 20: -73.97, 30: -73.96, 40: -73.95},
	}

	g := Build(result)

	if g.NumNodes != 4 {
		t.Fatalf("NumNodes = %d, want 4", g.NumNodes)
	}
	if g.NumEdges != 4 {
		t.Fatalf("NumEdges = %d, want 4", g.NumEdges)
	}

	// FirstOut monotonic, terminating at NumEdges.
	for i := uint32(1); i <= g.NumNodes; i++ {
		if g.FirstOut[i] < g.FirstOut[i-1] {
			t.Errorf("FirstOut not monotonic at %d: %d < %d", i, g.FirstOut[i], g.FirstOut[i-1])
		}
	}
	if g.FirstOut[g.NumNodes] != g.NumEdges {
		t.Errorf("FirstOut[NumNodes] = %d, want %d", g.FirstOut[g.NumNodes], g.NumEdges)
	}

	// Every head index is a valid node.
	for i, h := range g.Head {
		if h >= g.NumNodes {
			t.Errorf("Head[%d] = %d out of range (NumNodes=%d)", i, h, g.NumNodes)
		}
	}
}

func TestBuildCoordinates(t *testing.T) {
	result := &street.ParseResult{
		Edges: []street.RawEdge{
			{FromNodeID: 7, ToNodeID: 8, LengthMM: 100},
		},
		NodeLat: map[osm.NodeID]float64{7: 40.7527, 8: 40.7589},
		NodeLon: map[osm.NodeID]float64{7: -73.9772, 8: -73.9851},
	}

	g := Build(result)

	// Node 7 was seen first, so it maps to index 0.
	if g.NodeLat[0] != 40.7527 || g.NodeLon[0] != -73.9772 {
		t.Errorf("node 0 = (%f, %f), want (40.7527, -73.9772)", g.NodeLat[0], g.NodeLon[0])
	}
	if g.NodeLat[1] != 40.7589 || g.NodeLon[1] != -73.9851 {
		t.Errorf("node 1 = (%f, %f), want (40.7589, -73.9851)", g.NodeLat[1], g.NodeLon[1])
	}
}

func TestWeighBySpeed(t *testing.T) {
	g := &Graph{
		NumNodes: 2,
		NumEdges: 2,
		FirstOut: []uint32{0, 2, 2},
		Head:     []uint32{1, 1},
		LengthMM: []uint32{3_600_000, 1_800_000}, // 3.6 km and 1.8 km
	}

	// 3.6 km at 3.6 km/h takes one hour.
	w := WeighBySpeed(g, 3.6)
	if w.TravelMs[0] != 3_600_000 {
		t.Errorf("TravelMs[0] = %d, want 3600000", w.TravelMs[0])
	}
	if w.TravelMs[1] != 1_800_000 {
		t.Errorf("TravelMs[1] = %d, want 1800000", w.TravelMs[1])
	}

	// Doubling the speed halves the time.
	w2 := WeighBySpeed(g, 7.2)
	if w2.TravelMs[0] != 1_800_000 {
		t.Errorf("TravelMs[0] at 7.2 km/h = %d, want 1800000", w2.TravelMs[0])
	}
}

func TestWeighBySpeedZero(t *testing.T) {
	g := &Graph{
		NumNodes: 2,
		NumEdges: 1,
		FirstOut: []uint32{0, 1, 1},
		Head:     []uint32{1},
		LengthMM: []uint32{1000},
	}

	w := WeighBySpeed(g, 0)
	if w.TravelMs[0] != 0 {
		t.Errorf("TravelMs[0] at zero speed = %d, want 0", w.TravelMs[0])
	}
}
