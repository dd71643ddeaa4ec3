package geoutils

import (
	"math"
	"testing"
)

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	if d := HaversineDistance(10.5, 105.1, 10.5, 105.1); d != 0 {
		t.Fatalf("expected 0 for identical points, got %v", d)
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	d1 := HaversineDistance(10.776, 106.700, 21.028, 105.854)
	d2 := HaversineDistance(21.028, 105.854, 10.776, 106.700)
	if math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km anywhere on the sphere.
	d := HaversineDistance(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Fatalf("expected ~111.19 km for 1 degree latitude, got %v", d)
	}
}

func TestHaversineDistanceLongitudeShrinksWithLatitude(t *testing.T) {
	atEquator := HaversineDistance(0, 0, 0, 1)
	atSixty := HaversineDistance(60, 0, 60, 1)

	if math.Abs(atEquator-111.19) > 0.1 {
		t.Fatalf("expected ~111.19 km for 1 degree longitude at equator, got %v", atEquator)
	}
	// cos(60°) = 0.5, so east-west degrees are half as long at 60N.
	if math.Abs(atSixty-atEquator/2) > 0.5 {
		t.Fatalf("expected ~%v km for 1 degree longitude at 60N, got %v", atEquator/2, atSixty)
	}
}

func TestClusterCenterIsArithmeticMean(t *testing.T) {
	coords := [][2]float64{
		{10.0, 105.0},
		{10.2, 105.4},
		{10.1, 105.2},
	}
	lat, lon := ClusterCenter(coords)
	if math.Abs(lat-10.1) > 1e-9 || math.Abs(lon-105.2) > 1e-9 {
		t.Fatalf("expected center (10.1, 105.2), got (%v, %v)", lat, lon)
	}
}

func TestClusterCenterEmpty(t *testing.T) {
	lat, lon := ClusterCenter(nil)
	if lat != 0 || lon != 0 {
		t.Fatalf("expected (0, 0) for empty input, got (%v, %v)", lat, lon)
	}
}

func TestClusterRadiusIsMaxMemberDistance(t *testing.T) {
	coords := [][2]float64{
		{10.50, 105.10},
		{10.52, 105.12},
		{10.48, 105.09},
		{10.55, 105.15},
	}
	lat, lon := ClusterCenter(coords)
	radius := ClusterRadius(lat, lon, coords)

	maxDist := 0.0
	for _, c := range coords {
		d := HaversineDistance(lat, lon, c[0], c[1])
		if d > radius+1e-9 {
			t.Fatalf("member at distance %v exceeds radius %v", d, radius)
		}
		if d > maxDist {
			maxDist = d
		}
	}
	if math.Abs(radius-maxDist) > 1e-9 {
		t.Fatalf("radius %v does not equal max member distance %v", radius, maxDist)
	}
}

func TestClusterRadiusEmptyAndSingleton(t *testing.T) {
	if r := ClusterRadius(10, 105, nil); r != 0 {
		t.Fatalf("expected 0 radius for empty set, got %v", r)
	}
	if r := ClusterRadius(10, 105, [][2]float64{{10, 105}}); r != 0 {
		t.Fatalf("expected 0 radius for singleton at center, got %v", r)
	}
}

func TestIsWithinRadius(t *testing.T) {
	// ~1.1 km apart
	if !IsWithinRadius(10.50, 105.10, 10.51, 105.10, 2) {
		t.Fatal("expected point 1.1km away to be within 2km")
	}
	if IsWithinRadius(10.50, 105.10, 10.60, 105.10, 2) {
		t.Fatal("expected point 11km away to be outside 2km")
	}
}
