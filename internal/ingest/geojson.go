package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// FeatureCollection is a GeoJSON feature collection
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature with geometry and properties
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds the geometry type and raw coordinates. Coordinates are
// kept raw because their nesting depth depends on the type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ReadGeoJSON parses a FeatureCollection of Point features into a GeoTable.
// Features without a Point geometry are skipped; properties become columns.
func ReadGeoJSON(r io.Reader, crs string) (*geotable.GeoTable, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode GeoJSON: %w", err)
	}

	var records []geotable.Record
	for _, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			continue
		}

		var coords []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil || len(coords) < 2 {
			continue
		}

		cols := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			cols[k] = normalizeProperty(v)
		}

		records = append(records, geotable.Record{
			Location: spatial.Point{Lon: coords[0], Lat: coords[1]},
			Columns:  cols,
		})
	}

	return geotable.New(records, crs), nil
}

// WriteGeoJSON serializes a GeoTable as a FeatureCollection of Point
// features, one per record, with columns as properties.
func WriteGeoJSON(w io.Writer, t *geotable.GeoTable) error {
	fc := FeatureCollection{Type: "FeatureCollection"}

	for i, rec := range t.Records() {
		coords, err := json.Marshal([]float64{rec.Location.Lon, rec.Location.Lat})
		if err != nil {
			return fmt.Errorf("failed to encode coordinates of record %d: %w", i, err)
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: coords},
			Properties: rec.Columns,
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return nil
}

// ReadPolygon extracts the outer ring of the first Polygon feature in a
// GeoJSON document.
func ReadPolygon(r io.Reader) (geotable.Polygon, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode polygon GeoJSON: %w", err)
	}

	for _, f := range fc.Features {
		if f.Geometry.Type != "Polygon" {
			continue
		}

		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("failed to decode polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			continue
		}

		ring := make(geotable.Polygon, 0, len(rings[0]))
		for _, c := range rings[0] {
			if len(c) < 2 {
				return nil, fmt.Errorf("%w: polygon vertex with fewer than 2 coordinates", geotable.ErrGeometry)
			}
			ring = append(ring, spatial.Point{Lon: c[0], Lat: c[1]})
		}
		return ring, nil
	}

	return nil, fmt.Errorf("%w: no Polygon feature found", geotable.ErrGeometry)
}

// normalizeProperty maps JSON property values onto the table's scalar set.
// JSON numbers are already float64; everything non-scalar is stringified.
func normalizeProperty(v any) any {
	switch x := v.(type) {
	case nil, float64, string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
