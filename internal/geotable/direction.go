package geotable

import (
	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// CalculateDirection computes, for each record i > 0, the bearing of travel
// from record i-1 to record i in degrees clockwise from north, [0, 360),
// and writes it into outColumn, overwriting an existing column of that
// name. The first record has no predecessor and gets null. For a
// geographic CRS the great-circle initial bearing is used; for a projected
// CRS the planar azimuth.
//
// The current record order is taken as the flight order; callers sort by
// timestamp first.
func (t *GeoTable) CalculateDirection(outColumn string) (*GeoTable, error) {
	directions := make([]any, len(t.records))
	geographic := t.isGeographic()

	for i := 1; i < len(t.records); i++ {
		prev := t.records[i-1].Location
		cur := t.records[i].Location
		if geographic {
			directions[i] = spatial.Bearing(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
		} else {
			directions[i] = spatial.PlanarBearing(prev.Lon, prev.Lat, cur.Lon, cur.Lat)
		}
	}

	return t.WithColumn(outColumn, directions)
}
