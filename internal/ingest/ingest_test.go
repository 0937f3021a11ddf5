package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/avolkov/survey-backend-go/internal/geotable"
)

const sampleCSV = `Latitude,Longitude,GAS:Methane,WIND:Speed,Note
50.1,14.4,2.1,3.5,ok
50.2,14.5,,4.0,calm
,14.6,2.3,4.5,no fix
50.3,bad,2.4,5.0,bad fix
50.4,14.7,2.5,5.5,ok
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	// Two rows have unusable coordinates and are dropped
	rows, cols := table.Shape()
	if rows != 3 {
		t.Errorf("expected 3 rows, got %d", rows)
	}
	if cols != 5 {
		t.Errorf("expected 5 columns, got %d", cols)
	}

	if got := table.Location(0); got.Lat != 50.1 || got.Lon != 14.4 {
		t.Errorf("first location = %+v", got)
	}
	if v := table.Value(0, "GAS:Methane"); v != 2.1 {
		t.Errorf("numeric cell should parse to float64, got %T %v", v, v)
	}
	if v := table.Value(1, "GAS:Methane"); v != nil {
		t.Errorf("empty cell should be null, got %v", v)
	}
	if v := table.Value(0, "Note"); v != "ok" {
		t.Errorf("text cell should stay a string, got %v", v)
	}
	if table.CRS() != geotable.DefaultCRS {
		t.Errorf("CRS should default to %s, got %s", geotable.DefaultCRS, table.CRS())
	}
}

func TestReadCSVNonFiniteCells(t *testing.T) {
	csv := "Latitude,Longitude,WIND:Speed\n50.1,14.4,NaN\n50.2,14.5,+Inf\n50.3,14.6,3.2\n"
	table, err := ReadCSV(strings.NewReader(csv), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if v := table.Value(0, "WIND:Speed"); v != nil {
		t.Errorf("NaN cell should be null, got %T %v", v, v)
	}
	if v := table.Value(1, "WIND:Speed"); v != nil {
		t.Errorf("Inf cell should be null, got %T %v", v, v)
	}
	if v := table.Value(2, "WIND:Speed"); v != 3.2 {
		t.Errorf("finite cell should stay numeric, got %v", v)
	}

	// Null, not NaN, is the in-table representation: the export must
	// serialize cleanly
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, table); err != nil {
		t.Fatalf("WriteGeoJSON failed on a table ingested with NaN cells: %v", err)
	}
}

func TestReadCSVCustomColumns(t *testing.T) {
	csv := "lat,lng,v\n1.0,2.0,3\n"
	table, err := ReadCSV(strings.NewReader(csv), CSVOptions{
		LatitudeColumn:  "lat",
		LongitudeColumn: "lng",
		CRS:             "epsg:32633",
	})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if table.Len() != 1 || table.CRS() != "epsg:32633" {
		t.Errorf("unexpected table: len=%d crs=%s", table.Len(), table.CRS())
	}
}

func TestReadCSVMissingCoordinateColumns(t *testing.T) {
	csv := "a,b\n1,2\n"
	if _, err := ReadCSV(strings.NewReader(csv), CSVOptions{}); !errors.Is(err, geotable.ErrColumnNotFound) {
		t.Errorf("want ErrColumnNotFound, got %v", err)
	}
}

func TestGeoJSONExportShape(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, table); err != nil {
		t.Fatalf("WriteGeoJSON failed: %v", err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != table.Len() {
		t.Errorf("export shape wrong: type=%s features=%d", fc.Type, len(fc.Features))
	}

	back, err := ReadGeoJSON(&buf, table.CRS())
	if err != nil {
		t.Fatalf("ReadGeoJSON failed: %v", err)
	}
	if back.Len() != table.Len() {
		t.Errorf("reimport lost rows: %d vs %d", back.Len(), table.Len())
	}
	if got := back.Location(0); got != table.Location(0) {
		t.Errorf("reimport moved the first point: %+v vs %+v", got, table.Location(0))
	}
}

func TestReadPolygon(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},
		 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}
	]}`

	poly, err := ReadPolygon(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadPolygon failed: %v", err)
	}
	if len(poly) != 5 {
		t.Errorf("expected 5 ring vertices, got %d", len(poly))
	}
	if poly[1].Lon != 1 || poly[1].Lat != 0 {
		t.Errorf("vertex order wrong: %+v", poly[1])
	}
}

func TestReadPolygonMissing(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[]}`
	if _, err := ReadPolygon(strings.NewReader(doc)); !errors.Is(err, geotable.ErrGeometry) {
		t.Errorf("want ErrGeometry, got %v", err)
	}
}
