package spatial

import (
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// onSegmentTolerance bounds the cross-product test in PointOnSegment.
// Coordinates are degrees, so this is far below GPS noise.
const onSegmentTolerance = 1e-12

// PointOnSegment checks whether p lies on the segment between a and b
func PointOnSegment(p, a, b Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if math.Abs(cross) > onSegmentTolerance {
		return false
	}
	return p.Lon >= math.Min(a.Lon, b.Lon)-onSegmentTolerance &&
		p.Lon <= math.Max(a.Lon, b.Lon)+onSegmentTolerance &&
		p.Lat >= math.Min(a.Lat, b.Lat)-onSegmentTolerance &&
		p.Lat <= math.Max(a.Lat, b.Lat)+onSegmentTolerance
}

// PointInPolygon checks if a point is inside a polygon using ray casting.
// Points exactly on the polygon boundary count as inside.
func PointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		if PointOnSegment(point, polygon[i], polygon[j]) {
			return true
		}
		j = i
	}

	inside := false
	j = len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		if ((polygon[i].Lat > point.Lat) != (polygon[j].Lat > point.Lat)) &&
			(point.Lon < (polygon[j].Lon-polygon[i].Lon)*(point.Lat-polygon[i].Lat)/(polygon[j].Lat-polygon[i].Lat)+polygon[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return minLat, minLon, maxLat, maxLon
}
