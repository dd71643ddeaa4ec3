// Package geoutils holds the geo-spatial math used by epidemic detection.
// All distances are great-circle kilometers.
package geoutils

import "math"

const earthRadiusKM = 6371.0

// HaversineDistance calculates the great-circle distance in km between two
// points on the earth (specified in decimal degrees). Symmetric, zero iff
// both points coincide.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180

	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// ClusterCenter returns the arithmetic mean of the given (lat, lon) pairs.
// This approximation degrades near the poles and across the antimeridian;
// it is fine for the single-province extents this system deals with.
func ClusterCenter(coords [][2]float64) (float64, float64) {
	if len(coords) == 0 {
		return 0, 0
	}

	var sumLat, sumLon float64
	for _, c := range coords {
		sumLat += c[0]
		sumLon += c[1]
	}

	n := float64(len(coords))
	return sumLat / n, sumLon / n
}

// ClusterRadius returns the maximum distance in km from the center to any of
// the given points. Empty and singleton-at-center sets yield 0.
func ClusterRadius(centerLat, centerLon float64, coords [][2]float64) float64 {
	maxDist := 0.0
	for _, c := range coords {
		dist := HaversineDistance(centerLat, centerLon, c[0], c[1])
		if dist > maxDist {
			maxDist = dist
		}
	}
	return maxDist
}

// IsWithinRadius reports whether a point lies within radiusKM of a center.
func IsWithinRadius(centerLat, centerLon, lat, lon, radiusKM float64) bool {
	return HaversineDistance(centerLat, centerLon, lat, lon) <= radiusKM
}
