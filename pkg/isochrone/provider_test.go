package isochrone

import (
	"context"
	"math"
	"testing"
	"time"

	"isochrone_mapper/pkg/graph"
	"isochrone_mapper/pkg/overpass"
	"isochrone_mapper/pkg/street"
)

func TestRadiusFor(t *testing.T) {
	bounds := DefaultRadiusBounds()
	catalog := DefaultCatalog()

	tests := []struct {
		name       string
		net        street.Network
		maxMinutes int
		want       float64
	}{
		{
			name: "walking clamps to minimum",
			// 4.8 km/h for 40 min is 3.2 km, padded 3.52 km, below 12 km.
			net: street.Walk, maxMinutes: 40, want: 12_000,
		},
		{
			name: "driving clamps to maximum",
			// The fastest drive-network mode is the 30 km/h subway
			// approximation: 20 km at 40 min, padded 22 km, within the clamp.
			net: street.Drive, maxMinutes: 40, want: 22_000,
		},
		{
			name: "bike within bounds",
			// 15 km/h for 60 min is 15 km, padded 16.5 km.
			net: street.Bike, maxMinutes: 60, want: 16_500,
		},
		{
			name: "drive at long budget hits the cap",
			net:  street.Drive, maxMinutes: 60, want: 24_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RadiusFor(catalog, tt.net, tt.maxMinutes, bounds)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("RadiusFor(%v, %d) = %f, want %f", tt.net, tt.maxMinutes, got, tt.want)
			}
		})
	}
}

func TestProviderDiskCacheHit(t *testing.T) {
	dir := t.TempDir()
	catalog := walkingCatalog()

	// A provider with no usable client: any fetch attempt errors out fast,
	// so a returned graph can only have come from the cache.
	client := overpass.NewClient(overpass.Config{
		Endpoints:   []string{"http://127.0.0.1:1/api/interpreter"},
		Timeout:     time.Second,
		MaxAttempts: 1,
	})
	p := NewProvider(client, gct, catalog, 40, DefaultRadiusBounds(), dir)

	cached := lineGraph(5, 400)
	path := p.cachePath(street.Walk, p.Radius(street.Walk))
	if err := graph.WriteBinary(path, cached); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	ng, err := p.Graph(context.Background(), street.Walk)
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if ng.Graph.NumNodes != cached.NumNodes {
		t.Errorf("NumNodes = %d, want %d", ng.Graph.NumNodes, cached.NumNodes)
	}
	if ng.RadiusM != p.Radius(street.Walk) {
		t.Errorf("RadiusM = %f, want %f", ng.RadiusM, p.Radius(street.Walk))
	}

	// Second call must come from the in-memory map (same pointer).
	again, err := p.Graph(context.Background(), street.Walk)
	if err != nil {
		t.Fatalf("Graph (second call): %v", err)
	}
	if again != ng {
		t.Error("second call rebuilt the graph instead of reusing it")
	}
}

func TestProviderCachesFailures(t *testing.T) {
	client := overpass.NewClient(overpass.Config{
		Endpoints:   []string{"http://127.0.0.1:1/api/interpreter"},
		Timeout:     time.Second,
		MaxAttempts: 1,
	})
	p := NewProvider(client, gct, walkingCatalog(), 40, DefaultRadiusBounds(), "")

	_, err1 := p.Graph(context.Background(), street.Walk)
	if err1 == nil {
		t.Fatal("Graph succeeded with an unreachable endpoint")
	}

	// The second call for the same network returns the cached error
	// without burning another retry cycle.
	start := time.Now()
	_, err2 := p.Graph(context.Background(), street.Walk)
	if err2 == nil {
		t.Fatal("second Graph call succeeded, want cached failure")
	}
	if err2 != err1 {
		t.Errorf("second error %v is not the cached first error %v", err2, err1)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cached failure took %v, want immediate return", elapsed)
	}
}

func TestProviderRadiusPerNetwork(t *testing.T) {
	p := NewProvider(nil, gct, DefaultCatalog(), 40, DefaultRadiusBounds(), "")

	if r := p.Radius(street.Walk); r != 12_000 {
		t.Errorf("walk radius = %f, want 12000", r)
	}
	if r := p.Radius(street.Drive); math.Abs(r-22_000) > 0.001 {
		t.Errorf("drive radius = %f, want 22000", r)
	}
}
