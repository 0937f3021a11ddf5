package geotable

import (
	"fmt"

	"github.com/avolkov/survey-backend-go/internal/stats"
)

// StatSummary describes the non-null numeric values of one column
type StatSummary struct {
	Count     int         `json:"count"`
	Mean      float64     `json:"mean"`
	Median    float64     `json:"median"`
	StdDev    float64     `json:"stdDev"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Histogram []stats.Bin `json:"histogram"`
}

// Statistics summarizes the named column over its non-null numeric values
// and bins them into a bins-bucket equal-width histogram.
func (t *GeoTable) Statistics(column string, bins int) (*StatSummary, error) {
	if !t.HasColumn(column) {
		return nil, columnNotFound(column)
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bin count must be positive, got %d", ErrInvalidParameter, bins)
	}

	var values []float64
	for _, r := range t.records {
		if v, ok := toFloat(r.Columns[column]); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column %q has no numeric values", ErrEmptyData, column)
	}

	return &StatSummary{
		Count:     len(values),
		Mean:      stats.Mean(values),
		Median:    stats.Median(values),
		StdDev:    stats.StdDev(values),
		Min:       stats.Min(values),
		Max:       stats.Max(values),
		Histogram: stats.Histogram(values, bins),
	}, nil
}
