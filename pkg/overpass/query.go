package overpass

import (
	"fmt"
	"sort"
	"strings"

	"isochrone_mapper/pkg/geo"
	"isochrone_mapper/pkg/street"
)

// networkQuery builds the Overpass QL query for one network type: ways with
// an allowed highway value around the center, plus their member nodes.
func networkQuery(center geo.LatLng, radiusM float64, net street.Network) string {
	return fmt.Sprintf(
		`[out:json][timeout:180];way["highway"~"^(%s)$"](around:%.0f,%.6f,%.6f);(._;>;);out body;`,
		highwayRegex(net), radiusM, center.Lat, center.Lng,
	)
}

// highwayRegex returns the alternation of highway values accepted on the
// network, sorted for a stable query string (and a stable cache key).
func highwayRegex(net street.Network) string {
	values := street.HighwayValues(net)
	sort.Strings(values)
	return strings.Join(values, "|")
}
