package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{33.9117, -117.3203},
		{-45.5, 170.2},
	}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Haversine(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineSymmetric(t *testing.T) {
	cases := [][4]float64{
		{33.9117, -117.3203, 33.9609, -117.3825},
		{0, 0, 51.5007, -0.1246},
		{-33.8568, 151.2153, 40.6892, -74.0445},
	}
	for _, c := range cases {
		ab := Haversine(c[0], c[1], c[2], c[3])
		ba := Haversine(c[2], c[3], c[0], c[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Haversine not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Riverside, CA to Rancho Cucamonga, CA is roughly 29 km.
	d := Haversine(33.9117, -117.3203, 34.1142, -117.5226)
	if d < 28000 || d < 0 || d > 31000 {
		t.Errorf("Haversine = %v meters, want roughly 29km", d)
	}
}

func TestHaversineOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111.2 km on a 6371km sphere.
	d := Haversine(0, 0, 1, 0)
	if math.Abs(d-111195) > 100 {
		t.Errorf("Haversine one degree latitude = %v, want ~111195", d)
	}
}
