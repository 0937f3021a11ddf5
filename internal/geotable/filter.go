package geotable

import (
	"fmt"

	"github.com/avolkov/survey-backend-go/internal/spatial"
	"github.com/avolkov/survey-backend-go/internal/stats"
)

// FilterKind selects the statistic applied by FilterNoise
type FilterKind string

const (
	FilterAverage FilterKind = "average"
	FilterMedian  FilterKind = "median"
)

// Polygon is a ring of vertices used as a clipping predicate. It may be
// given open or explicitly closed; a trailing vertex equal to the first is
// dropped during validation.
type Polygon []spatial.Point

// ring validates the polygon and returns the normalized open ring
func (p Polygon) ring() ([]spatial.Point, error) {
	verts := []spatial.Point(p)
	if len(verts) > 1 && verts[0] == verts[len(verts)-1] {
		verts = verts[:len(verts)-1]
	}
	if len(verts) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 distinct vertices, got %d", ErrGeometry, len(verts))
	}
	return verts, nil
}

// CleanNaN returns a new table excluding every record for which any of the
// named columns is null. Remaining record order is preserved.
func (t *GeoTable) CleanNaN(columns []string) (*GeoTable, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns given", ErrInvalidParameter)
	}
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, columnNotFound(c)
		}
	}

	var kept []Record
	for _, r := range t.records {
		ok := true
		for _, c := range columns {
			if isNull(r.Columns[c]) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}

	return t.withRecords(cloneRecords(kept)), nil
}

// FilterRange keeps only records whose column value v satisfies
// (min unset or v >= *min) and (max unset or v <= *max). Null and
// non-numeric values fail the predicate. With both bounds unset the result
// is an identical copy.
func (t *GeoTable) FilterRange(column string, min, max *float64) (*GeoTable, error) {
	if !t.HasColumn(column) {
		return nil, columnNotFound(column)
	}
	if min == nil && max == nil {
		return t.withRecords(cloneRecords(t.records)), nil
	}

	var kept []Record
	for _, r := range t.records {
		v, ok := toFloat(r.Columns[column])
		if !ok {
			continue
		}
		if min != nil && v < *min {
			continue
		}
		if max != nil && v > *max {
			continue
		}
		kept = append(kept, r)
	}

	return t.withRecords(cloneRecords(kept)), nil
}

// ClipByPolygon keeps only records whose location lies inside the polygon.
// Points on the boundary are kept.
func (t *GeoTable) ClipByPolygon(polygon Polygon) (*GeoTable, error) {
	ring, err := polygon.ring()
	if err != nil {
		return nil, err
	}

	var kept []Record
	for _, r := range t.records {
		if spatial.PointInPolygon(r.Location, ring) {
			kept = append(kept, r)
		}
	}

	return t.withRecords(cloneRecords(kept)), nil
}

// FilterNoise replaces each value of the named column with the mean or
// median of a centered moving window over the record sequence. The window
// is clipped at the sequence bounds, never padded or wrapped. Null values
// stay null and are skipped inside windows; a window with no numeric
// neighbors also yields null. The window size must be a positive odd
// integer.
func (t *GeoTable) FilterNoise(column string, kind FilterKind, window int) (*GeoTable, error) {
	if !t.HasColumn(column) {
		return nil, columnNotFound(column)
	}
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: window size must be a positive odd integer, got %d", ErrInvalidParameter, window)
	}
	if kind != FilterAverage && kind != FilterMedian {
		return nil, fmt.Errorf("%w: unsupported filter type %q", ErrInvalidParameter, kind)
	}

	n := len(t.records)
	values := make([]float64, n)
	numeric := make([]bool, n)
	for i, r := range t.records {
		v := r.Columns[column]
		values[i], numeric[i] = toFloat(v)
		if !numeric[i] && !isNull(v) {
			return nil, fmt.Errorf("%w: column %q is not numeric", ErrInvalidParameter, column)
		}
	}

	half := window / 2
	smoothed := make([]any, n)
	for i := 0; i < n; i++ {
		if !numeric[i] {
			smoothed[i] = nil
			continue
		}

		lo, hi := i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}

		var win []float64
		for j := lo; j <= hi; j++ {
			if numeric[j] {
				win = append(win, values[j])
			}
		}

		if kind == FilterAverage {
			smoothed[i] = stats.Mean(win)
		} else {
			smoothed[i] = stats.Median(win)
		}
	}

	return t.WithColumn(column, smoothed)
}
