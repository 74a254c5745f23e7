package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb/geojson"

	"isochrone_mapper/pkg/api"
)

func main() {
	_ = godotenv.Load()

	dataPath := flag.String("data", envOr("ISO_DATA", "isochrones.geojson"), "Isochrone GeoJSON file to serve")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dataPath, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *dataPath, err)
	}
	log.Printf("Loaded %d features from %s", len(fc.Features), *dataPath)

	stats := api.StatsResponse{
		NumFeatures: len(fc.Features),
		Modes:       featureModes(fc),
		Center:      centerLabel(fc),
	}

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(fc, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// featureModes returns the distinct mode keys present in the collection.
func featureModes(fc *geojson.FeatureCollection) []string {
	seen := make(map[string]bool)
	for _, f := range fc.Features {
		if mode, ok := f.Properties["mode"].(string); ok && !seen[mode] {
			seen[mode] = true
		}
	}
	modes := make([]string, 0, len(seen))
	for mode := range seen {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

func centerLabel(fc *geojson.FeatureCollection) string {
	for _, f := range fc.Features {
		if center, ok := f.Properties["center"].(string); ok {
			return center
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
