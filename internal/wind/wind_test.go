package wind

import (
	"errors"
	"math"
	"testing"

	"github.com/avolkov/survey-backend-go/internal/geotable"
)

const tolerance = 1e-6

func windTable(rows ...map[string]any) *geotable.GeoTable {
	records := make([]geotable.Record, len(rows))
	for i, cols := range rows {
		records[i] = geotable.Record{Columns: cols}
	}
	return geotable.New(records, "")
}

func defaultOptions() Options {
	return Options{
		AirSpeedColumn:          "air_speed",
		AirDirectionColumn:      "air_dir",
		PlatformSpeedColumn:     "pf_speed",
		PlatformDirectionColumn: "pf_dir",
		TrueSpeedColumn:         "true_speed",
		TrueDirectionColumn:     "true_dir",
	}
}

// Worked example: apparent wind 10 m/s straight on the nose while heading
// east at 5 m/s. In the fixed frame the apparent wind blows from 90; after
// subtracting platform motion the true wind is 5 m/s from 90.
func TestDecomposeWorkedExample(t *testing.T) {
	table := windTable(map[string]any{
		"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0,
	})

	out, err := Decompose(table, defaultOptions())
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	speed, _ := out.Value(0, "true_speed").(float64)
	dir, _ := out.Value(0, "true_dir").(float64)
	if math.Abs(speed-5) > tolerance {
		t.Errorf("true speed = %v, want 5", speed)
	}
	if math.Abs(dir-90) > tolerance {
		t.Errorf("true direction = %v, want 90", dir)
	}
}

// Same geometry with a north-referenced sensor: the raw reading is already
// in the fixed frame, so the triangle is (0,10) - (5,0).
func TestDecomposeSensorToNorth(t *testing.T) {
	table := windTable(map[string]any{
		"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0,
	})
	opts := defaultOptions()
	opts.SensorToNorth = true

	out, err := Decompose(table, opts)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	speed, _ := out.Value(0, "true_speed").(float64)
	dir, _ := out.Value(0, "true_dir").(float64)
	if math.Abs(speed-math.Sqrt(125)) > tolerance {
		t.Errorf("true speed = %v, want sqrt(125)", speed)
	}
	if math.Abs(dir-333.4349488229220) > tolerance {
		t.Errorf("true direction = %v, want 333.434949", dir)
	}
}

func TestDecomposeSensorRotation(t *testing.T) {
	// A sensor mounted 90 degrees clockwise of the nose on a
	// north-heading platform reads 0 for wind from the east.
	table := windTable(map[string]any{
		"air_speed": 8.0, "air_dir": 0.0, "pf_speed": 0.0, "pf_dir": 0.0,
	})
	opts := defaultOptions()
	opts.SensorCWRot = 90

	out, err := Decompose(table, opts)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	dir, _ := out.Value(0, "true_dir").(float64)
	if math.Abs(dir-90) > tolerance {
		t.Errorf("true direction = %v, want 90", dir)
	}
}

func TestDecomposeStationaryPlatform(t *testing.T) {
	// Zero platform speed: true wind equals frame-corrected apparent wind
	table := windTable(map[string]any{
		"air_speed": 7.0, "air_dir": 30.0, "pf_speed": 0.0, "pf_dir": 210.0,
	})
	opts := defaultOptions()
	opts.SensorToNorth = true

	out, err := Decompose(table, opts)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	speed, _ := out.Value(0, "true_speed").(float64)
	dir, _ := out.Value(0, "true_dir").(float64)
	if math.Abs(speed-7) > tolerance {
		t.Errorf("true speed = %v, want 7", speed)
	}
	if math.Abs(dir-30) > tolerance {
		t.Errorf("true direction = %v, want 30", dir)
	}
}

func TestDecomposeBothZero(t *testing.T) {
	// Zero speeds leave the direction undefined; it resolves to 0 by
	// convention regardless of the reported angles. Angles across all
	// quadrants exercise every sign combination of the zero components.
	for _, angles := range [][2]float64{
		{0, 0}, {123, 77}, {45, 315}, {200, 0}, {0, 200}, {260, 100},
	} {
		table := windTable(map[string]any{
			"air_speed": 0.0, "air_dir": angles[0], "pf_speed": 0.0, "pf_dir": angles[1],
		})

		out, err := Decompose(table, defaultOptions())
		if err != nil {
			t.Fatalf("Decompose failed: %v", err)
		}

		speed, _ := out.Value(0, "true_speed").(float64)
		dir, _ := out.Value(0, "true_dir").(float64)
		if speed != 0 {
			t.Errorf("angles %v: true speed = %v, want 0", angles, speed)
		}
		if dir != 0 {
			t.Errorf("angles %v: true direction = %v, want 0", angles, dir)
		}
	}
}

func TestDecomposeNullPropagation(t *testing.T) {
	table := windTable(
		map[string]any{"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0},
		map[string]any{"air_speed": nil, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0},
		map[string]any{"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": nil},
	)

	out, err := Decompose(table, defaultOptions())
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if out.Value(0, "true_speed") == nil {
		t.Error("complete row should produce a true speed")
	}
	for _, i := range []int{1, 2} {
		if out.Value(i, "true_speed") != nil || out.Value(i, "true_dir") != nil {
			t.Errorf("row %d: null inputs should propagate null outputs", i)
		}
	}
}

func TestDecomposeSnapshot(t *testing.T) {
	table := windTable(map[string]any{
		"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0,
	})

	out, err := Decompose(table, defaultOptions())
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if table.HasColumn("true_speed") {
		t.Error("Decompose mutated its input table")
	}
	if _, cols := out.Shape(); cols != 6 {
		t.Errorf("output should carry 6 columns, got %d", cols)
	}
}

func TestDecomposeErrors(t *testing.T) {
	table := windTable(map[string]any{
		"air_speed": 10.0, "air_dir": 0.0, "pf_speed": 5.0, "pf_dir": 90.0,
	})

	opts := defaultOptions()
	opts.AirSpeedColumn = "bogus"
	if _, err := Decompose(table, opts); !errors.Is(err, geotable.ErrColumnNotFound) {
		t.Errorf("unknown input column: want ErrColumnNotFound, got %v", err)
	}

	opts = defaultOptions()
	opts.TrueSpeedColumn = ""
	if _, err := Decompose(table, opts); !errors.Is(err, geotable.ErrInvalidParameter) {
		t.Errorf("unnamed output column: want ErrInvalidParameter, got %v", err)
	}
}
