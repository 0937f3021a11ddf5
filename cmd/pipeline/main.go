// Command pipeline runs an offline processing job over a flight log CSV.
// The job file is YAML: an input block, an ordered list of steps and an
// outputs block. Steps run in file order, each producing a new table.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/ingest"
	"github.com/avolkov/survey-backend-go/internal/wind"
)

type jobConfig struct {
	Input   inputConfig  `yaml:"input"`
	Steps   []stepConfig `yaml:"steps"`
	Outputs outputConfig `yaml:"outputs"`
}

type inputConfig struct {
	CSV             string `yaml:"csv"`
	LatitudeColumn  string `yaml:"latitudeColumn"`
	LongitudeColumn string `yaml:"longitudeColumn"`
	CRS             string `yaml:"crs"`
}

// stepConfig is the union of all step parameters; Type selects which
// fields apply.
type stepConfig struct {
	Type string `yaml:"type"`

	// clean
	Columns []string `yaml:"columns"`

	// range, smooth, direction
	Column string   `yaml:"column"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`

	// clip: path to a GeoJSON file whose first Polygon feature bounds
	// the survey area
	Polygon string `yaml:"polygon"`

	// smooth
	Kind   string `yaml:"kind"`
	Window int    `yaml:"window"`

	// wind
	AirSpeedColumn          string  `yaml:"airSpeedColumn"`
	AirDirectionColumn      string  `yaml:"airDirectionColumn"`
	PlatformSpeedColumn     string  `yaml:"platformSpeedColumn"`
	PlatformDirectionColumn string  `yaml:"platformDirectionColumn"`
	TrueSpeedColumn         string  `yaml:"trueSpeedColumn"`
	TrueDirectionColumn     string  `yaml:"trueDirectionColumn"`
	SensorCWRot             float64 `yaml:"sensorCWRot"`
	SensorToNorth           bool    `yaml:"sensorToNorth"`
}

type outputConfig struct {
	GeoJSON string       `yaml:"geojson"`
	Stats   *statsOutput `yaml:"stats"`
	Rose    *roseOutput  `yaml:"rose"`
}

type statsOutput struct {
	File   string `yaml:"file"`
	Column string `yaml:"column"`
	Bins   int    `yaml:"bins"`
}

type roseOutput struct {
	File            string    `yaml:"file"`
	SpeedColumn     string    `yaml:"speedColumn"`
	DirectionColumn string    `yaml:"directionColumn"`
	NSector         int       `yaml:"nsector"`
	Edges           []float64 `yaml:"edges"`
}

func main() {
	jobPath := flag.String("job", "job.yaml", "path to the YAML job file")
	flag.Parse()

	job, err := loadJob(*jobPath)
	if err != nil {
		log.Fatalf("[Pipeline] %v", err)
	}

	if err := run(job); err != nil {
		log.Fatalf("[Pipeline] %v", err)
	}
}

func loadJob(path string) (*jobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job jobConfig
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.Input.CSV == "" {
		return nil, fmt.Errorf("job file must name an input CSV")
	}
	return &job, nil
}

func run(job *jobConfig) error {
	f, err := os.Open(job.Input.CSV)
	if err != nil {
		return fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	table, err := ingest.ReadCSV(f, ingest.CSVOptions{
		LatitudeColumn:  job.Input.LatitudeColumn,
		LongitudeColumn: job.Input.LongitudeColumn,
		CRS:             job.Input.CRS,
	})
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", job.Input.CSV, err)
	}
	log.Printf("[Pipeline] Loaded %s rows from %s", humanize.Comma(int64(table.Len())), job.Input.CSV)

	for i, step := range job.Steps {
		table, err = applyStep(table, step)
		if err != nil {
			return fmt.Errorf("step %d (%s) failed: %w", i+1, step.Type, err)
		}
		log.Printf("[Pipeline] Step %d (%s): %s rows remain", i+1, step.Type, humanize.Comma(int64(table.Len())))
	}

	return writeOutputs(table, job.Outputs)
}

func applyStep(t *geotable.GeoTable, step stepConfig) (*geotable.GeoTable, error) {
	switch step.Type {
	case "clean":
		return t.CleanNaN(step.Columns)

	case "range":
		return t.FilterRange(step.Column, step.Min, step.Max)

	case "clip":
		f, err := os.Open(step.Polygon)
		if err != nil {
			return nil, fmt.Errorf("failed to open polygon file: %w", err)
		}
		defer f.Close()

		polygon, err := ingest.ReadPolygon(f)
		if err != nil {
			return nil, err
		}
		return t.ClipByPolygon(polygon)

	case "smooth":
		return t.FilterNoise(step.Column, geotable.FilterKind(step.Kind), step.Window)

	case "direction":
		column := step.Column
		if column == "" {
			column = "Direction"
		}
		return t.CalculateDirection(column)

	case "wind":
		return wind.Decompose(t, wind.Options{
			AirSpeedColumn:          step.AirSpeedColumn,
			AirDirectionColumn:      step.AirDirectionColumn,
			PlatformSpeedColumn:     step.PlatformSpeedColumn,
			PlatformDirectionColumn: step.PlatformDirectionColumn,
			TrueSpeedColumn:         step.TrueSpeedColumn,
			TrueDirectionColumn:     step.TrueDirectionColumn,
			SensorCWRot:             step.SensorCWRot,
			SensorToNorth:           step.SensorToNorth,
		})

	default:
		return nil, fmt.Errorf("unknown step type %q", step.Type)
	}
}

func writeOutputs(t *geotable.GeoTable, out outputConfig) error {
	if out.GeoJSON != "" {
		if err := writeGeoJSONFile(t, out.GeoJSON); err != nil {
			return err
		}
		log.Printf("[Pipeline] Wrote %s features to %s", humanize.Comma(int64(t.Len())), out.GeoJSON)
	}

	if out.Stats != nil {
		bins := out.Stats.Bins
		if bins <= 0 {
			bins = 10
		}
		summary, err := t.Statistics(out.Stats.Column, bins)
		if err != nil {
			return fmt.Errorf("statistics output failed: %w", err)
		}
		if err := writeJSONFile(summary, out.Stats.File); err != nil {
			return err
		}
		log.Printf("[Pipeline] Wrote statistics for %q to %s", out.Stats.Column, out.Stats.File)
	}

	if out.Rose != nil {
		nsector := out.Rose.NSector
		if nsector <= 0 {
			nsector = 16
		}
		edges := out.Rose.Edges
		if len(edges) == 0 {
			edges = []float64{0, 2, 4, 6, 8, 10}
		}
		rose, err := wind.Rose(t, out.Rose.SpeedColumn, out.Rose.DirectionColumn, edges, nsector)
		if err != nil {
			return fmt.Errorf("rose output failed: %w", err)
		}
		if err := writeJSONFile(rose, out.Rose.File); err != nil {
			return err
		}
		log.Printf("[Pipeline] Wrote rose histogram (%s samples) to %s", humanize.Comma(int64(rose.Total)), out.Rose.File)
	}

	return nil
}

func writeGeoJSONFile(t *geotable.GeoTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return ingest.WriteGeoJSON(f, t)
}

func writeJSONFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
