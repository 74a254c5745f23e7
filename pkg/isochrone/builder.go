package isochrone

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/graph"
	"isochrone_mapper/pkg/poly"
	"isochrone_mapper/pkg/reach"
	"isochrone_mapper/pkg/stops"
)

// Synthesis method tags carried on every output feature.
const (
	MethodNetwork       = "street-network"        // cutoff search on the mode's own network
	MethodNetworkApprox = "street-network-approx" // stop-filtered road graph standing in for transit
	MethodCircle        = "circle-approx"         // great-circle ring at speed-implied distance
)

// ErrNoStops is returned when a transit mode has no usable stop locations;
// the mode then produces no network-based features, never a failure.
var ErrNoStops = errors.New("no stops available for transit mode")

// Config holds the run-level settings of one isochrone build.
type Config struct {
	Center      geo.LatLng
	CenterLabel string
	Minutes     []int

	// CeilingMinutes is the largest budget the street-network model is
	// trusted for; beyond it the circle approximation takes over. A budget
	// exactly at the ceiling still uses the network.
	CeilingMinutes int

	RingPoints    int // vertices per circle-approximation ring
	DiscSegments  int // vertices per node disc during synthesis
	StopsFetch    stops.FetchConfig
	FetchStops    bool // fetch stop layers from Overpass when no file is configured
}

// DefaultConfig returns the Grand Central Terminal run configuration.
func DefaultConfig() Config {
	return Config{
		Center:         geo.LatLng{Lat: 40.752726, Lng: -73.977229},
		CenterLabel:    "Grand Central Terminal",
		Minutes:        []int{5, 10, 20, 30, 40},
		CeilingMinutes: 40,
		RingPoints:     96,
		DiscSegments:   24,
	}
}

// Builder produces the isochrone feature collection for a mode catalog.
type Builder struct {
	cfg    Config
	source GraphSource
	proj   geo.Projection
}

// NewBuilder creates a builder over the given graph source.
func NewBuilder(cfg Config, source GraphSource) *Builder {
	if cfg.RingPoints <= 0 {
		cfg.RingPoints = 96
	}
	if cfg.DiscSegments <= 0 {
		cfg.DiscSegments = 24
	}
	return &Builder{
		cfg:    cfg,
		source: source,
		proj:   geo.NewProjection(cfg.Center),
	}
}

// modePrep holds everything solved once per mode and reused across its
// ascending minute budgets.
type modePrep struct {
	g          *graph.Graph // graph the search ran on (subgraph for transit)
	res        *reach.Result
	radiusM    float64
	sourceName string // transit stop layer attribution
}

// Build computes one feature per (mode, minutes) pair. Failures degrade per
// the taxonomy: acquisition failures abort the network-based features of
// every mode on that network, anything else skips the single affected
// feature; circle approximations are produced regardless. The returned
// error is non-nil only when the context is canceled.
func (b *Builder) Build(ctx context.Context, catalog []Mode) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, mode := range catalog {
		if ctx.Err() != nil {
			return fc, ctx.Err()
		}

		minutes := append([]int(nil), b.cfg.Minutes...)
		sort.Ints(minutes)

		prep, prepErr := b.prepareOnce(ctx, mode, minutes)

		for _, min := range minutes {
			if min > b.cfg.CeilingMinutes {
				fc.Append(b.circleFeature(mode, min))
				continue
			}

			if prepErr != nil {
				// Diagnostics were logged by prepare; nothing to emit.
				continue
			}

			if required := b.requiredRadius(mode, min); required > prep.radiusM {
				log.Printf("Skipping network method for %s at %d min: needs %.0f m, graph covers %.0f m; using circle",
					mode.Key, min, required, prep.radiusM)
				fc.Append(b.circleFeature(mode, min))
				continue
			}

			f, err := b.networkFeature(mode, min, prep)
			if err != nil {
				log.Printf("Skipping %s at %d min: %v", mode.Key, min, err)
				continue
			}
			fc.Append(f)
		}
	}

	return fc, nil
}

// prepareOnce acquires, filters, weighs and solves the mode's graph for its
// largest network-method budget. Returns an error when the mode can produce
// no network features at all.
func (b *Builder) prepareOnce(ctx context.Context, mode Mode, minutes []int) (*modePrep, error) {
	maxNet := -1
	for _, m := range minutes {
		if m <= b.cfg.CeilingMinutes && m > maxNet {
			maxNet = m
		}
	}
	if maxNet < 0 {
		return nil, errors.New("no network-method budgets")
	}

	ng, err := b.source.Graph(ctx, mode.Network)
	if err != nil {
		log.Printf("Mode %s unavailable: %v", mode.Key, err)
		return nil, err
	}

	g := ng.Graph
	if g.NumNodes == 0 {
		log.Printf("Mode %s unavailable: %v", mode.Key, reach.ErrEmptyGraph)
		return nil, reach.ErrEmptyGraph
	}

	sourceName := ""
	if mode.Transit {
		g, sourceName, err = b.transitSubgraph(mode, ng)
		if err != nil {
			log.Printf("Mode %s has no network features: %v", mode.Key, err)
			return nil, err
		}
	}

	w := graph.WeighBySpeed(g, mode.SpeedKmh)

	src, err := reach.NewNodeIndex(g).Nearest(b.cfg.Center.Lat, b.cfg.Center.Lng)
	if err != nil {
		log.Printf("Mode %s unavailable: %v", mode.Key, err)
		return nil, err
	}

	res, err := reach.Reachable(w, src, uint32(maxNet)*60_000)
	if err != nil {
		log.Printf("Mode %s unavailable: %v", mode.Key, err)
		return nil, err
	}

	return &modePrep{g: g, res: res, radiusM: ng.RadiusM, sourceName: sourceName}, nil
}

// transitSubgraph restricts the road graph to nodes near the mode's stops.
func (b *Builder) transitSubgraph(mode Mode, ng *NetworkGraph) (*graph.Graph, string, error) {
	points, sourceName, err := b.loadStops(mode, ng.RadiusM)
	if err != nil {
		return nil, "", err
	}
	if len(points) == 0 {
		return nil, "", ErrNoStops
	}

	allowed := reach.NodesNearStops(ng.Graph, b.proj, points, reach.StopFilter{
		StopRadiusM:  mode.StopRadiusM,
		StartRadiusM: mode.StartRadiusM,
	})
	if len(allowed) == 0 {
		return nil, "", ErrNoStops
	}

	sub := graph.Subgraph(ng.Graph, allowed)
	log.Printf("Filtered %s graph to %d of %d nodes near %d stops",
		mode.Key, sub.NumNodes, ng.Graph.NumNodes, len(points))
	return sub, sourceName, nil
}

func (b *Builder) loadStops(mode Mode, radiusM float64) ([]geo.LatLng, string, error) {
	if mode.StopsPath != "" {
		points, _, err := stops.Load(mode.StopsPath)
		if err != nil {
			return nil, "", err
		}
		return points, filepath.Base(mode.StopsPath), nil
	}

	if !b.cfg.FetchStops {
		return nil, "", ErrNoStops
	}

	var points []geo.LatLng
	var err error
	if mode.Key == "subway" {
		points, err = stops.FetchSubwayStations(b.cfg.StopsFetch, b.cfg.Center, radiusM)
	} else {
		points, err = stops.FetchBusStops(b.cfg.StopsFetch, b.cfg.Center, radiusM)
	}
	if err != nil {
		return nil, "", err
	}
	return points, "overpass", nil
}

// requiredRadius is the extent the network method needs for a budget: the
// speed-implied travel distance plus the synthesis buffer.
func (b *Builder) requiredRadius(mode Mode, minutes int) float64 {
	return mode.SpeedKmh*(float64(minutes)/60)*1000 + mode.BufferM
}

// networkFeature synthesizes the polygon for one (mode, minutes) pair from
// the already-solved reachable set.
func (b *Builder) networkFeature(mode Mode, minutes int, prep *modePrep) (*geojson.Feature, error) {
	nodes := prep.res.Within(uint32(minutes) * 60_000)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes within %d min", minutes)
	}

	synth := poly.Synthesizer{BufferM: mode.BufferM, Segments: b.cfg.DiscSegments}
	geom, err := synth.FromNodes(b.proj, prep.g, nodes)
	if err != nil {
		return nil, err
	}
	if geom == nil {
		return nil, errors.New("empty geometry")
	}

	method := MethodNetwork
	if mode.Transit {
		method = MethodNetworkApprox
	}

	f := geojson.NewFeature(geom)
	f.Properties = geojson.Properties{
		"mode":      mode.Key,
		"label":     mode.Label,
		"minutes":   minutes,
		"speed_kmh": mode.SpeedKmh,
		"method":    method,
		"center":    b.cfg.CenterLabel,
	}
	if prep.sourceName != "" {
		f.Properties["source"] = prep.sourceName
	}
	return f, nil
}

// circleFeature builds the great-circle ring fallback for one budget.
func (b *Builder) circleFeature(mode Mode, minutes int) *geojson.Feature {
	distM := mode.SpeedKmh * (float64(minutes) / 60) * 1000

	ring := geo.CircleRing(b.cfg.Center, distM, b.cfg.RingPoints)
	r := make(orb.Ring, 0, len(ring))
	for _, ll := range ring {
		r = append(r, orb.Point{ll.Lng, ll.Lat})
	}

	f := geojson.NewFeature(orb.Polygon{r})
	f.Properties = geojson.Properties{
		"mode":        mode.Key,
		"label":       mode.Label,
		"minutes":     minutes,
		"speed_kmh":   mode.SpeedKmh,
		"distance_km": math.Round(distM/10) / 100,
		"method":      MethodCircle,
		"center":      b.cfg.CenterLabel,
	}
	return f
}
