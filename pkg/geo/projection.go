package geo

import "math"

// Projection is an azimuthal equidistant projection centered on a fixed
// origin. Distances measured from the center are exact and bearings are
// preserved, which makes planar buffering around nodes near the center
// behave like true ground distances. Coordinates are meters east (x) and
// north (y) of the center.
type Projection struct {
	center LatLng
}

// NewProjection creates a projection centered on the given origin.
func NewProjection(center LatLng) Projection {
	return Projection{center: center}
}

// Center returns the projection origin.
func (p Projection) Center() LatLng {
	return p.center
}

// Forward projects a geographic coordinate to planar meters.
func (p Projection) Forward(pt LatLng) (x, y float64) {
	dist := Haversine(p.center.Lat, p.center.Lng, pt.Lat, pt.Lng)
	if dist == 0 {
		return 0, 0
	}
	az := InitialBearing(p.center.Lat, p.center.Lng, pt.Lat, pt.Lng)
	return dist * math.Sin(az), dist * math.Cos(az)
}

// Inverse converts planar meters back to a geographic coordinate.
func (p Projection) Inverse(x, y float64) LatLng {
	dist := math.Hypot(x, y)
	if dist == 0 {
		return p.center
	}
	return DestinationPoint(p.center, math.Atan2(x, y), dist)
}
