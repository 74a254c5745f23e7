package isochrone

import "isochrone_mapper/pkg/street"

// Mode describes one travel mode: its constant speed, the street network it
// rides on, and (for stop-based transit approximations) the stop layer and
// proximity radii. The catalog is a closed list, not a loosely-typed lookup.
type Mode struct {
	Key      string
	Label    string
	SpeedKmh float64
	Network  street.Network

	// Transit marks modes approximated by restricting the road graph to
	// nodes near known stops.
	Transit      bool
	StopsPath    string  // GeoJSON point layer; empty enables the Overpass fallback
	StopRadiusM  float64 // max node distance from a stop
	StartRadiusM float64 // unconditional acceptance radius around the origin

	BufferM float64 // node disc radius for polygon synthesis
}

// DefaultCatalog returns the five standard modes with the speeds and radii
// used for the Grand Central reachability layers.
func DefaultCatalog() []Mode {
	return []Mode{
		{Key: "walking", Label: "Walking", SpeedKmh: 4.8, Network: street.Walk, BufferM: 200},
		{Key: "cycling", Label: "Bike", SpeedKmh: 15.0, Network: street.Bike, BufferM: 200},
		{Key: "driving", Label: "Taxi/FHV", SpeedKmh: 25.0, Network: street.Drive, BufferM: 200},
		{
			Key: "bus", Label: "Bus (approx)", SpeedKmh: 14.0, Network: street.Drive,
			Transit: true, StopRadiusM: 220, StartRadiusM: 600, BufferM: 160,
		},
		{
			Key: "subway", Label: "Subway (approx)", SpeedKmh: 30.0, Network: street.Drive,
			Transit: true, StopRadiusM: 450, StartRadiusM: 800, BufferM: 220,
		},
	}
}
