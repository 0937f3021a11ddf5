package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius in meters
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from point 1 to point 2
// Returns bearing in degrees (0-360), where 0 is North, 90 is East, etc.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lonDiff := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x)

	bearingDeg := bearing * 180 / math.Pi
	return math.Mod(bearingDeg+360, 360)
}

// PlanarBearing calculates the bearing between two points in a projected
// coordinate system, treating x as easting and y as northing.
// Returns bearing in degrees (0-360) clockwise from the y axis.
func PlanarBearing(x1, y1, x2, y2 float64) float64 {
	bearing := math.Atan2(x2-x1, y2-y1) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}

// StraightLineDistance calculates the distance in meters between the first
// and last point of a path
func StraightLineDistance(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0], points[len(points)-1]
	return HaversineDistance(first.Lat, first.Lon, last.Lat, last.Lon)
}
