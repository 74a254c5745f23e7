package street

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestAccessible(t *testing.T) {
	tests := []struct {
		name string
		net  Network
		tags osm.Tags
		want bool
	}{
		{
			name: "residential road, drive",
			net:  Drive,
			tags: osm.Tags{{Key: "highway", Value: "residential"}},
			want: true,
		},
		{
			name: "footway, drive",
			net:  Drive,
			tags: osm.Tags{{Key: "highway", Value: "footway"}},
			want: false,
		},
		{
			name: "footway, walk",
			net:  Walk,
			tags: osm.Tags{{Key: "highway", Value: "footway"}},
			want: true,
		},
		{
			name: "motorway, walk",
			net:  Walk,
			tags: osm.Tags{{Key: "highway", Value: "motorway"}},
			want: false,
		},
		{
			name: "cycleway, bike",
			net:  Bike,
			tags: osm.Tags{{Key: "highway", Value: "cycleway"}},
			want: true,
		},
		{
			name: "cycleway, walk",
			net:  Walk,
			tags: osm.Tags{{Key: "highway", Value: "cycleway"}},
			want: false,
		},
		{
			name: "steps, walk",
			net:  Walk,
			tags: osm.Tags{{Key: "highway", Value: "steps"}},
			want: true,
		},
		{
			name: "private access",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "access", Value: "private"},
			},
			want: false,
		},
		{
			name: "no access",
			net:  Walk,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "access", Value: "no"},
			},
			want: false,
		},
		{
			name: "foot=no, walk",
			net:  Walk,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "foot", Value: "no"},
			},
			want: false,
		},
		{
			name: "bicycle=no, bike",
			net:  Bike,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "bicycle", Value: "no"},
			},
			want: false,
		},
		{
			name: "motor_vehicle=no, drive",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "motor_vehicle", Value: "no"},
			},
			want: false,
		},
		{
			name: "motor_vehicle=no does not affect walk",
			net:  Walk,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "motor_vehicle", Value: "no"},
			},
			want: true,
		},
		{
			name: "area=yes (pedestrian plaza)",
			net:  Walk,
			tags: osm.Tags{
				{Key: "highway", Value: "pedestrian"},
				{Key: "area", Value: "yes"},
			},
			want: false,
		},
		{
			name: "no highway tag",
			net:  Drive,
			tags: osm.Tags{{Key: "name", Value: "Some Street"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accessible(tt.net, tt.tags)
			if got != tt.want {
				t.Errorf("accessible(%v) = %v, want %v", tt.net, got, tt.want)
			}
		})
	}
}

func TestDirectionFlags(t *testing.T) {
	tests := []struct {
		name         string
		net          Network
		tags         osm.Tags
		wantForward  bool
		wantBackward bool
	}{
		{
			name:         "default bidirectional",
			net:          Drive,
			tags:         osm.Tags{{Key: "highway", Value: "residential"}},
			wantForward:  true,
			wantBackward: true,
		},
		{
			name:         "motorway implied oneway",
			net:          Drive,
			tags:         osm.Tags{{Key: "highway", Value: "motorway"}},
			wantForward:  true,
			wantBackward: false,
		},
		{
			name: "roundabout implied oneway",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "junction", Value: "roundabout"},
			},
			wantForward:  true,
			wantBackward: false,
		},
		{
			name: "explicit oneway=yes",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "yes"},
			},
			wantForward:  true,
			wantBackward: false,
		},
		{
			name: "explicit oneway=-1 (reverse)",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "-1"},
			},
			wantForward:  false,
			wantBackward: true,
		},
		{
			name: "oneway=no overrides implied",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "motorway"},
				{Key: "oneway", Value: "no"},
			},
			wantForward:  true,
			wantBackward: true,
		},
		{
			name: "oneway=reversible skips entirely",
			net:  Drive,
			tags: osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "reversible"},
			},
			wantForward:  false,
			wantBackward: false,
		},
		{
			name: "pedestrians ignore oneway",
			net:  Walk,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "yes"},
			},
			wantForward:  true,
			wantBackward: true,
		},
		{
			name: "bike honors oneway by default",
			net:  Bike,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "yes"},
			},
			wantForward:  true,
			wantBackward: false,
		},
		{
			name: "oneway:bicycle=no exempts bikes",
			net:  Bike,
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "oneway", Value: "yes"},
				{Key: "oneway:bicycle", Value: "no"},
			},
			wantForward:  true,
			wantBackward: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd, bwd := directionFlags(tt.net, tt.tags)
			if fwd != tt.wantForward || bwd != tt.wantBackward {
				t.Errorf("directionFlags(%v) = (%v, %v), want (%v, %v)", tt.net, fwd, bwd, tt.wantForward, tt.wantBackward)
			}
		})
	}
}

func testOSM() *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 40.7520, Lon: -73.9780},
			{ID: 2, Lat: 40.7530, Lon: -73.9780},
			{ID: 3, Lat: 40.7530, Lon: -73.9770},
		},
		Ways: osm.Ways{
			{
				ID:   100,
				Tags: osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "yes"}},
				Nodes: osm.WayNodes{
					{ID: 1}, {ID: 2},
				},
			},
			{
				ID:   101,
				Tags: osm.Tags{{Key: "highway", Value: "footway"}},
				Nodes: osm.WayNodes{
					{ID: 2}, {ID: 3},
				},
			},
		},
	}
}

func TestFromOSMDrive(t *testing.T) {
	result := FromOSM(testOSM(), Drive)

	// Only the oneway residential way: a single directed edge 1 -> 2.
	if len(result.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(result.Edges))
	}
	e := result.Edges[0]
	if e.FromNodeID != 1 || e.ToNodeID != 2 {
		t.Errorf("edge = %d -> %d, want 1 -> 2", e.FromNodeID, e.ToNodeID)
	}
	// ~111 m between the nodes.
	if e.LengthMM < 100_000 || e.LengthMM > 120_000 {
		t.Errorf("edge length = %d mm, want roughly 111m", e.LengthMM)
	}
}

func TestFromOSMWalk(t *testing.T) {
	result := FromOSM(testOSM(), Walk)

	// Residential (oneway ignored on foot: 2 edges) plus footway (2 edges).
	if len(result.Edges) != 4 {
		t.Fatalf("edges = %d, want 4", len(result.Edges))
	}
}

func TestFromOSMMissingCoordinates(t *testing.T) {
	o := &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 40.7520, Lon: -73.9780},
			{ID: 2, Lat: 40.7530, Lon: -73.9780},
		},
		Ways: osm.Ways{
			{
				ID:   100,
				Tags: osm.Tags{{Key: "highway", Value: "residential"}},
				Nodes: osm.WayNodes{
					{ID: 1}, {ID: 2}, {ID: 999}, // node 999 not in document
				},
			},
		},
	}

	result := FromOSM(o, Drive)

	// Segment 2->999 is dropped; 1<->2 survives in both directions.
	if len(result.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(result.Edges))
	}
}

func TestFromOSMShortWay(t *testing.T) {
	o := &osm.OSM{
		Nodes: osm.Nodes{{ID: 1, Lat: 40.75, Lon: -73.97}},
		Ways: osm.Ways{
			{
				ID:    100,
				Tags:  osm.Tags{{Key: "highway", Value: "residential"}},
				Nodes: osm.WayNodes{{ID: 1}},
			},
		},
	}

	result := FromOSM(o, Drive)
	if len(result.Edges) != 0 {
		t.Errorf("edges = %d, want 0 for single-node way", len(result.Edges))
	}
}
