package street

import (
	"fmt"

	"github.com/paulmach/osm"
)

// Network identifies a routable street network type. Multiple travel modes
// may share one network (bus and subway both approximate over Drive).
type Network uint8

const (
	Walk Network = iota
	Bike
	Drive
)

func (n Network) String() string {
	switch n {
	case Walk:
		return "walk"
	case Bike:
		return "bike"
	case Drive:
		return "drive"
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

// ParseNetwork parses a network name.
func ParseNetwork(s string) (Network, error) {
	switch s {
	case "walk":
		return Walk, nil
	case "bike":
		return Bike, nil
	case "drive":
		return Drive, nil
	}
	return 0, fmt.Errorf("unknown network type %q", s)
}

// driveHighways lists highway tag values accessible by car.
var driveHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// walkHighways lists highway tag values usable on foot.
var walkHighways = map[string]bool{
	"footway":        true,
	"path":           true,
	"pedestrian":     true,
	"steps":          true,
	"track":          true,
	"living_street":  true,
	"residential":    true,
	"service":        true,
	"unclassified":   true,
	"tertiary":       true,
	"tertiary_link":  true,
	"secondary":      true,
	"secondary_link": true,
	"primary":        true,
	"primary_link":   true,
}

// bikeHighways lists highway tag values usable by bicycle.
var bikeHighways = map[string]bool{
	"cycleway":       true,
	"path":           true,
	"track":          true,
	"living_street":  true,
	"residential":    true,
	"service":        true,
	"unclassified":   true,
	"tertiary":       true,
	"tertiary_link":  true,
	"secondary":      true,
	"secondary_link": true,
	"primary":        true,
	"primary_link":   true,
}

// HighwayValues returns the highway tag values accepted on the network,
// in map order. Callers needing a stable order must sort.
func HighwayValues(n Network) []string {
	set := n.highways()
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	return values
}

func (n Network) highways() map[string]bool {
	switch n {
	case Walk:
		return walkHighways
	case Bike:
		return bikeHighways
	default:
		return driveHighways
	}
}

// accessible returns true if the way is usable on the given network.
func accessible(n Network, tags osm.Tags) bool {
	if !n.highways()[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}

	switch n {
	case Walk:
		if tags.Find("foot") == "no" {
			return false
		}
	case Bike:
		if tags.Find("bicycle") == "no" {
			return false
		}
	case Drive:
		if tags.Find("motor_vehicle") == "no" {
			return false
		}
	}

	return true
}

// directionFlags returns (forward, backward) based on network, highway type
// and oneway tags. Pedestrians ignore oneway restrictions entirely.
func directionFlags(n Network, tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	if n == Walk {
		return forward, backward
	}

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	oneway := tags.Find("oneway")
	if n == Bike && tags.Find("oneway:bicycle") == "no" {
		oneway = "no"
	}

	switch oneway {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent — skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}
