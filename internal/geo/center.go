package geo

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

type Point struct {
	Lat float64
	Lon float64
}

// Center returns the spherical mean of points, computed on unit vectors so
// that locations on both sides of the antimeridian average correctly.
// It reports false when there is nothing to average or the vectors cancel out.
func Center(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)).Vector)
	}
	if sum.Norm() < 1e-12 {
		return Point{}, false
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return Point{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}, true
}
