package isochrone

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/graph"
	"isochrone_mapper/pkg/overpass"
	"isochrone_mapper/pkg/street"
)

// NetworkGraph is a base street graph together with the radius it was
// acquired for, so the dispatcher can validate coverage per minute budget.
type NetworkGraph struct {
	Graph   *graph.Graph
	RadiusM float64
}

// GraphSource supplies one base graph per network type.
type GraphSource interface {
	Graph(ctx context.Context, net street.Network) (*NetworkGraph, error)
}

// RadiusBounds clamp the acquisition radius so the download stays tractable
// while still covering the longest minute budget of any mode on the network.
type RadiusBounds struct {
	SafetyFactor float64
	MinM         float64
	MaxM         float64
}

// DefaultRadiusBounds matches the 12–24 km clamp used for the Manhattan runs.
func DefaultRadiusBounds() RadiusBounds {
	return RadiusBounds{SafetyFactor: 1.1, MinM: 12_000, MaxM: 24_000}
}

// RadiusFor computes the acquisition radius for a network type: the
// speed-implied distance of the fastest mode sharing the network at the
// largest minute budget, padded by the safety factor and clamped.
func RadiusFor(catalog []Mode, net street.Network, maxMinutes int, b RadiusBounds) float64 {
	var maxSpeed float64
	for _, m := range catalog {
		if m.Network == net && m.SpeedKmh > maxSpeed {
			maxSpeed = m.SpeedKmh
		}
	}
	radius := maxSpeed * (float64(maxMinutes) / 60) * 1000 * b.SafetyFactor
	if radius < b.MinM {
		radius = b.MinM
	}
	if radius > b.MaxM {
		radius = b.MaxM
	}
	return radius
}

// Provider acquires base graphs lazily, one per network type, and reuses
// them for every mode on that network. Built graphs are cached in memory
// for the run and in a binary file across runs; a failed acquisition is
// also cached so sibling modes fail fast instead of re-exhausting retries.
type Provider struct {
	client   *overpass.Client
	center   geo.LatLng
	radiusM  map[street.Network]float64
	cacheDir string

	graphs map[street.Network]*NetworkGraph
	errs   map[street.Network]error
}

// NewProvider creates a provider for the given origin. The radius per
// network is derived from the catalog and the largest minute budget at or
// below the network ceiling. cacheDir may be empty to disable the on-disk
// cache.
func NewProvider(client *overpass.Client, center geo.LatLng, catalog []Mode, maxMinutes int, bounds RadiusBounds, cacheDir string) *Provider {
	radiusM := make(map[street.Network]float64)
	for _, m := range catalog {
		if _, ok := radiusM[m.Network]; !ok {
			radiusM[m.Network] = RadiusFor(catalog, m.Network, maxMinutes, bounds)
		}
	}
	return &Provider{
		client:   client,
		center:   center,
		radiusM:  radiusM,
		cacheDir: cacheDir,
		graphs:   make(map[street.Network]*NetworkGraph),
		errs:     make(map[street.Network]error),
	}
}

// Radius returns the acquisition radius chosen for a network type.
func (p *Provider) Radius(net street.Network) float64 {
	return p.radiusM[net]
}

// Graph returns the base graph for a network type, building it on first use.
func (p *Provider) Graph(ctx context.Context, net street.Network) (*NetworkGraph, error) {
	if ng, ok := p.graphs[net]; ok {
		return ng, nil
	}
	if err, ok := p.errs[net]; ok {
		return nil, err
	}

	radius, ok := p.radiusM[net]
	if !ok {
		radius = RadiusFor(nil, net, 0, DefaultRadiusBounds())
	}

	g, err := p.build(ctx, net, radius)
	if err != nil {
		p.errs[net] = err
		return nil, err
	}

	ng := &NetworkGraph{Graph: g, RadiusM: radius}
	p.graphs[net] = ng
	return ng, nil
}

func (p *Provider) build(ctx context.Context, net street.Network, radius float64) (*graph.Graph, error) {
	cachePath := p.cachePath(net, radius)
	if cachePath != "" {
		if g, err := graph.ReadBinary(cachePath); err == nil {
			log.Printf("Loaded cached %s graph: %d nodes, %d edges", net, g.NumNodes, g.NumEdges)
			return g, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Ignoring unusable graph cache %s: %v", cachePath, err)
		}
	}

	doc, err := p.client.FetchNetwork(ctx, p.center, radius, net)
	if err != nil {
		return nil, err
	}

	g := graph.Build(street.FromOSM(doc, net))
	log.Printf("Built %s graph: %d nodes, %d edges", net, g.NumNodes, g.NumEdges)

	// Keep the largest weakly connected component; clip fragments at the
	// radius boundary would otherwise distort nearest-node snapping.
	if g.NumNodes > 0 {
		component := graph.LargestComponent(g)
		if uint32(len(component)) < g.NumNodes {
			g = graph.Subgraph(g, component)
			log.Printf("Pruned %s graph to largest component: %d nodes, %d edges", net, g.NumNodes, g.NumEdges)
		}
	}

	if cachePath != "" {
		if err := graph.WriteBinary(cachePath, g); err != nil {
			log.Printf("Warning: could not write graph cache %s: %v", cachePath, err)
		}
	}

	return g, nil
}

// cachePath keys the on-disk cache by network, center and radius so a moved
// origin or changed clamp never reuses a stale extent.
func (p *Provider) cachePath(net street.Network, radius float64) string {
	if p.cacheDir == "" {
		return ""
	}
	name := fmt.Sprintf("streets-%s-%.6f-%.6f-%.0f.bin", net, p.center.Lat, p.center.Lng, radius)
	return filepath.Join(p.cacheDir, name)
}
