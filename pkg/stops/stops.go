package stops

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	goverpass "github.com/serjvanilla/go-overpass"

	"isochrone_mapper/pkg/geo"
)

// Load reads a GeoJSON point layer of stop/station locations. Features that
// are not points or carry no coordinates are skipped and counted, never
// fatal, matching the external filter pipeline's loose output.
func Load(path string) ([]geo.LatLng, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read stop layer: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, 0, fmt.Errorf("parse stop layer %s: %w", path, err)
	}

	points, skipped := FromFeatureCollection(fc)
	if skipped > 0 {
		log.Printf("Warning: skipped %d features without point coordinates in %s", skipped, path)
	}
	return points, skipped, nil
}

// FromFeatureCollection extracts one coordinate per point feature and
// counts the features it had to skip.
func FromFeatureCollection(fc *geojson.FeatureCollection) ([]geo.LatLng, int) {
	var points []geo.LatLng
	var skipped int
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			skipped++
			continue
		}
		points = append(points, geo.LatLng{Lat: pt.Lat(), Lng: pt.Lon()})
	}
	return points, skipped
}

// FetchConfig configures the Overpass fallback used when no stop layer
// file is supplied.
type FetchConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// FetchBusStops queries Overpass for bus stops around the center.
func FetchBusStops(cfg FetchConfig, center geo.LatLng, radiusM float64) ([]geo.LatLng, error) {
	query := fmt.Sprintf(
		`[out:json];node["highway"="bus_stop"](around:%.0f,%.6f,%.6f);out body;`,
		radiusM, center.Lat, center.Lng,
	)
	return fetchNodes(cfg, query)
}

// FetchSubwayStations queries Overpass for subway stations around the center.
func FetchSubwayStations(cfg FetchConfig, center geo.LatLng, radiusM float64) ([]geo.LatLng, error) {
	query := fmt.Sprintf(
		`[out:json];node["railway"="station"]["station"="subway"](around:%.0f,%.6f,%.6f);out body;`,
		radiusM, center.Lat, center.Lng,
	)
	return fetchNodes(cfg, query)
}

func fetchNodes(cfg FetchConfig, query string) ([]geo.LatLng, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := goverpass.NewWithSettings(cfg.Endpoint, 1, &http.Client{Timeout: timeout})

	result, err := client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass stop query failed: %w", err)
	}

	var points []geo.LatLng
	for _, node := range result.Nodes {
		if node == nil {
			continue
		}
		points = append(points, geo.LatLng{Lat: node.Lat, Lng: node.Lon})
	}
	return points, nil
}
