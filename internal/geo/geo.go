// Package geo holds the great-circle helpers used for ground station coverage.
package geo

import "math"

// EarthRadiusKm is the mean earth radius used by turf and most web mapping libraries.
const EarthRadiusKm = 6371.0088

const (
	maxZoom = 13
	minZoom = 5
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the haversine distance between two points in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WithinRadius reports whether a distance in km lies inside a radius in metres.
func WithinRadius(distanceKm, radiusM float64) bool {
	return distanceKm*1000 <= radiusM
}

// Zoom picks a map zoom that keeps both points in view: 13 when they
// coincide, dropping by one per 10 km, never below 5.
func Zoom(distanceKm float64) float64 {
	return math.Max(maxZoom-distanceKm/10, minZoom)
}
