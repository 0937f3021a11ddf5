// Package ingest converts logger CSV exports and GeoJSON documents to and
// from GeoTables. It is a boundary collaborator: all validation beyond the
// row/column contract lives in the core packages.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// Default coordinate column names of the data logger exports
const (
	DefaultLatitudeColumn  = "Latitude"
	DefaultLongitudeColumn = "Longitude"
)

// CSVOptions configures CSV ingestion
type CSVOptions struct {
	LatitudeColumn  string
	LongitudeColumn string
	CRS             string
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.LatitudeColumn == "" {
		o.LatitudeColumn = DefaultLatitudeColumn
	}
	if o.LongitudeColumn == "" {
		o.LongitudeColumn = DefaultLongitudeColumn
	}
	if o.CRS == "" {
		o.CRS = geotable.DefaultCRS
	}
	return o
}

// ReadCSV parses a headered CSV stream into a GeoTable. Rows with a missing
// or unparsable coordinate are dropped, mirroring the logger convention
// that such fixes are unusable. Numeric-looking cells become float64,
// empty cells null, anything else a string. Coordinate columns are kept in
// the schema as ordinary columns as well.
func ReadCSV(r io.Reader, opts CSVOptions) (*geotable.GeoTable, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	latIdx, lonIdx := -1, -1
	for i, name := range header {
		switch name {
		case opts.LatitudeColumn:
			latIdx = i
		case opts.LongitudeColumn:
			lonIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("%w: coordinate columns %q/%q missing from CSV header",
			geotable.ErrColumnNotFound, opts.LatitudeColumn, opts.LongitudeColumn)
	}

	var records []geotable.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		cols := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(row) {
				cols[name] = parseCell(row[i])
			} else {
				cols[name] = nil
			}
		}

		records = append(records, geotable.Record{
			Location: spatial.Point{Lat: lat, Lon: lon},
			Columns:  cols,
		})
	}

	return geotable.New(records, opts.CRS), nil
}

// parseCell maps a CSV cell to a column value: empty is null, numeric is
// float64, anything else stays a string. Logger exports mark missing
// samples as NaN; those become null here so the table never carries a
// non-finite float, which JSON cannot encode.
func parseCell(cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return cell
}
