package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/isochrone"
	"isochrone_mapper/pkg/overpass"
	"isochrone_mapper/pkg/stops"
)

func main() {
	// Optional .env overrides; flag defaults read the environment, so load
	// first. Absence is not an error.
	_ = godotenv.Load()

	lat := flag.Float64("lat", 40.752726, "Origin latitude")
	lng := flag.Float64("lng", -73.977229, "Origin longitude")
	centerLabel := flag.String("center-label", "Grand Central Terminal", "Origin display label")
	minutesArg := flag.String("minutes", "5,10,20,30,40", "Comma-separated minute budgets")
	ceiling := flag.Int("ceiling", 40, "Largest minute budget resolved on the street network")
	output := flag.String("output", "isochrones.geojson", "Output GeoJSON file path")
	cacheDir := flag.String("cache-dir", envOr("ISO_CACHE_DIR", ".cache"), "Graph cache directory (empty disables caching)")
	endpointsArg := flag.String("endpoints", envOr("OVERPASS_ENDPOINTS", ""), "Comma-separated Overpass mirror URLs")
	timeout := flag.Duration("timeout", 180*time.Second, "Per-request Overpass timeout")
	busStops := flag.String("bus-stops", "", "GeoJSON point layer of bus stops")
	subwayStations := flag.String("subway-stations", "", "GeoJSON point layer of subway stations")
	fetchStops := flag.Bool("fetch-stops", false, "Fetch missing stop layers from Overpass")
	flag.Parse()

	minutes, err := parseMinutes(*minutesArg)
	if err != nil {
		log.Fatalf("Invalid --minutes: %v", err)
	}

	start := time.Now()

	cfg := isochrone.DefaultConfig()
	cfg.Center = geo.LatLng{Lat: *lat, Lng: *lng}
	cfg.CenterLabel = *centerLabel
	cfg.Minutes = minutes
	cfg.CeilingMinutes = *ceiling
	cfg.FetchStops = *fetchStops

	clientCfg := overpass.DefaultConfig()
	clientCfg.Timeout = *timeout
	if *endpointsArg != "" {
		clientCfg.Endpoints = splitList(*endpointsArg)
	}
	cfg.StopsFetch = stops.FetchConfig{Endpoint: clientCfg.Endpoints[0], Timeout: *timeout}

	catalog := isochrone.DefaultCatalog()
	for i := range catalog {
		switch catalog[i].Key {
		case "bus":
			catalog[i].StopsPath = *busStops
		case "subway":
			catalog[i].StopsPath = *subwayStations
		}
	}

	if *cacheDir != "" {
		if err := os.MkdirAll(*cacheDir, 0o755); err != nil {
			log.Fatalf("Failed to create cache dir: %v", err)
		}
	}

	maxMinutes := 0
	for _, m := range minutes {
		if m <= *ceiling && m > maxMinutes {
			maxMinutes = m
		}
	}

	client := overpass.NewClient(clientCfg)
	provider := isochrone.NewProvider(client, cfg.Center, catalog, maxMinutes, isochrone.DefaultRadiusBounds(), *cacheDir)
	builder := isochrone.NewBuilder(cfg, provider)

	log.Printf("Building isochrones around %s (%.6f, %.6f)...", cfg.CenterLabel, cfg.Center.Lat, cfg.Center.Lng)
	fc, err := builder.Build(context.Background(), catalog)
	if err != nil {
		log.Fatalf("Build aborted: %v", err)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		log.Fatalf("Failed to encode feature collection: %v", err)
	}
	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create output dir: %v", err)
		}
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	log.Printf("Done in %s. Wrote %d features to %s (%.1f KB)",
		time.Since(start).Round(time.Second), len(fc.Features), *output, float64(len(data))/1024)
}

// parseMinutes parses a comma-separated list of positive minute budgets.
func parseMinutes(s string) ([]int, error) {
	var minutes []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative budget %d", v)
		}
		minutes = append(minutes, v)
	}
	if len(minutes) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return minutes, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
