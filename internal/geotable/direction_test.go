package geotable

import (
	"math"
	"testing"

	"github.com/avolkov/survey-backend-go/internal/spatial"
)

func TestCalculateDirectionNorthHeading(t *testing.T) {
	// Collinear, equally spaced points heading due north
	table := New([]Record{
		{Location: spatial.Point{Lat: 0, Lon: 10}},
		{Location: spatial.Point{Lat: 1, Lon: 10}},
		{Location: spatial.Point{Lat: 2, Lon: 10}},
	}, "")

	out, err := table.CalculateDirection("heading")
	if err != nil {
		t.Fatalf("CalculateDirection failed: %v", err)
	}

	if got := out.Value(0, "heading"); got != nil {
		t.Errorf("first record should have null direction, got %v", got)
	}
	for i := 1; i < out.Len(); i++ {
		got, ok := out.Value(i, "heading").(float64)
		if !ok || got != 0 {
			t.Errorf("record %d: got %v, want exactly 0", i, out.Value(i, "heading"))
		}
	}
}

func TestCalculateDirectionEastHeading(t *testing.T) {
	table := New([]Record{
		{Location: spatial.Point{Lat: 0, Lon: 0}},
		{Location: spatial.Point{Lat: 0, Lon: 1}},
	}, "")

	out, err := table.CalculateDirection("heading")
	if err != nil {
		t.Fatalf("CalculateDirection failed: %v", err)
	}
	got, _ := out.Value(1, "heading").(float64)
	if math.Abs(got-90) > 1e-9 {
		t.Errorf("eastward travel at the equator: got %v, want 90", got)
	}
}

func TestCalculateDirectionProjectedCRS(t *testing.T) {
	// In a projected CRS the planar azimuth is used: 45 degrees here
	table := New([]Record{
		{Location: spatial.Point{Lat: 0, Lon: 0}},
		{Location: spatial.Point{Lat: 100, Lon: 100}},
	}, "epsg:32633")

	out, err := table.CalculateDirection("heading")
	if err != nil {
		t.Fatalf("CalculateDirection failed: %v", err)
	}
	got, _ := out.Value(1, "heading").(float64)
	if math.Abs(got-45) > 1e-9 {
		t.Errorf("planar bearing: got %v, want 45", got)
	}
}

func TestCalculateDirectionOverwrites(t *testing.T) {
	table := New([]Record{
		{Location: spatial.Point{Lat: 0, Lon: 0}, Columns: map[string]any{"heading": 123.0}},
		{Location: spatial.Point{Lat: 1, Lon: 0}, Columns: map[string]any{"heading": 123.0}},
	}, "")

	out, err := table.CalculateDirection("heading")
	if err != nil {
		t.Fatalf("CalculateDirection failed: %v", err)
	}
	if got := out.Value(1, "heading"); got != 0.0 {
		t.Errorf("existing column should be overwritten, got %v", got)
	}
	if _, cols := out.Shape(); cols != 1 {
		t.Errorf("overwrite should not add a column, got %d columns", cols)
	}
}
