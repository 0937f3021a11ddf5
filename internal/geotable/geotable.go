package geotable

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// DefaultCRS is the coordinate reference system assumed when none is declared.
const DefaultCRS = "epsg:4326"

// Record is one row of a GeoTable: a point location plus named scalar
// columns. A nil column value is null; values are float64 or string.
type Record struct {
	Location spatial.Point
	Columns  map[string]any
}

// GeoTable is an ordered, immutable sequence of records sharing one column
// schema. Record order is semantically meaningful: it encodes the
// time-ordered flight path, and order-sensitive operations (direction,
// smoothing) treat it as ground truth. Callers sort by timestamp before
// constructing a table; no operation re-sorts.
type GeoTable struct {
	crs     string
	columns []string
	records []Record
}

// New builds a GeoTable from records, copying them so later mutation of the
// caller's slice cannot alias into the table. The schema is the union of
// column names across all records; absent values read as null. An empty crs
// defaults to DefaultCRS.
func New(records []Record, crs string) *GeoTable {
	if crs == "" {
		crs = DefaultCRS
	}

	var columns []string
	seen := make(map[string]bool)
	for _, r := range records {
		for name := range r.Columns {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	// Map iteration order is random; fix the schema order
	sort.Strings(columns)

	return &GeoTable{
		crs:     crs,
		columns: columns,
		records: cloneRecords(records),
	}
}

// CRS returns the declared coordinate reference system
func (t *GeoTable) CRS() string {
	return t.crs
}

// Shape returns (row count, column count)
func (t *GeoTable) Shape() (int, int) {
	return len(t.records), len(t.columns)
}

// Len returns the number of records
func (t *GeoTable) Len() int {
	return len(t.records)
}

// Columns returns a copy of the column schema
func (t *GeoTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the named column is part of the schema
func (t *GeoTable) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Records returns a deep copy of the table's records
func (t *GeoTable) Records() []Record {
	return cloneRecords(t.records)
}

// Location returns the location of record i
func (t *GeoTable) Location(i int) spatial.Point {
	return t.records[i].Location
}

// Value returns the value of the named column in record i, nil when null
func (t *GeoTable) Value(i int, column string) any {
	return t.records[i].Columns[column]
}

// Locations returns the ordered point sequence of the table
func (t *GeoTable) Locations() []spatial.Point {
	out := make([]spatial.Point, len(t.records))
	for i, r := range t.records {
		out[i] = r.Location
	}
	return out
}

// WithColumn returns a new table with the named column set to the given
// values, one per record, overwriting an existing column of the same name.
// A nil element is null.
func (t *GeoTable) WithColumn(name string, values []any) (*GeoTable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty column name", ErrInvalidParameter)
	}
	if len(values) != len(t.records) {
		return nil, fmt.Errorf("%w: %d values for %d records", ErrInvalidParameter, len(values), len(t.records))
	}

	out := t.withRecords(cloneRecords(t.records))
	for i := range out.records {
		out.records[i].Columns[name] = values[i]
	}
	if !out.HasColumn(name) {
		out.columns = append(out.columns, name)
		sort.Strings(out.columns)
	}
	return out, nil
}

// NumericColumn extracts the named column as floats, with ok=false marking
// null or non-numeric entries.
func (t *GeoTable) NumericColumn(column string) ([]float64, []bool, error) {
	if !t.HasColumn(column) {
		return nil, nil, columnNotFound(column)
	}

	values := make([]float64, len(t.records))
	ok := make([]bool, len(t.records))
	for i, r := range t.records {
		values[i], ok[i] = toFloat(r.Columns[column])
	}
	return values, ok, nil
}

// isGeographic reports whether the declared CRS is geographic WGS84.
// Any other declaration is treated as a projected system.
func (t *GeoTable) isGeographic() bool {
	crs := strings.ToLower(t.crs)
	return crs == DefaultCRS || crs == "wgs84" || crs == "crs84"
}

// withRecords builds a table sharing this table's crs and schema around an
// already-copied record slice.
func (t *GeoTable) withRecords(records []Record) *GeoTable {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return &GeoTable{crs: t.crs, columns: columns, records: records}
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		cols := make(map[string]any, len(r.Columns))
		for k, v := range r.Columns {
			cols[k] = v
		}
		out[i] = Record{Location: r.Location, Columns: cols}
	}
	return out
}

// isNull treats nil and NaN as null
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}

// toFloat coerces a column value to float64. Strings holding numbers are
// accepted, matching the loose typing of logger CSV exports.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
