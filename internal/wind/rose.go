package wind

import (
	"fmt"
	"math"

	"github.com/avolkov/survey-backend-go/internal/geotable"
)

// RoseHistogram is a 2-D frequency table of (speed, direction) pairs:
// Counts[sector][bin]. Sector 0 is centered on north and sectors advance
// clockwise; the last speed bin is open-ended above the last edge. Counts
// are raw frequencies, never normalized here.
type RoseHistogram struct {
	Edges   []float64 `json:"edges"`
	NSector int       `json:"nsector"`
	Counts  [][]int   `json:"counts"`
	Total   int       `json:"total"`
}

// SectorWidth returns the angular width of one sector in degrees
func (r *RoseHistogram) SectorWidth() float64 {
	return 360 / float64(r.NSector)
}

// SectorCenter returns the center direction of sector i in degrees
func (r *RoseHistogram) SectorCenter(i int) float64 {
	return math.Mod(float64(i)*r.SectorWidth(), 360)
}

// Rose buckets the rows of a table with non-null speed and direction into a
// rose histogram. edges are ascending speed-bin edges; values below the
// first edge fall into bin 0 and values at or above the last edge into the
// final open bin, so the bin count equals len(edges). nsector equal-width
// direction sectors start with sector 0 centered on north.
func Rose(t *geotable.GeoTable, speedColumn, directionColumn string, edges []float64, nsector int) (*RoseHistogram, error) {
	if nsector <= 0 {
		return nil, fmt.Errorf("%w: sector count must be positive, got %d", geotable.ErrInvalidParameter, nsector)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: at least one speed bin edge required", geotable.ErrInvalidParameter)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("%w: speed bin edges must be strictly ascending", geotable.ErrInvalidParameter)
		}
	}

	speeds, speedOK, err := t.NumericColumn(speedColumn)
	if err != nil {
		return nil, err
	}
	dirs, dirOK, err := t.NumericColumn(directionColumn)
	if err != nil {
		return nil, err
	}

	counts := make([][]int, nsector)
	for i := range counts {
		counts[i] = make([]int, len(edges))
	}

	rose := &RoseHistogram{
		Edges:   append([]float64(nil), edges...),
		NSector: nsector,
		Counts:  counts,
	}

	width := rose.SectorWidth()
	for i := range speeds {
		if !speedOK[i] || !dirOK[i] {
			continue
		}

		sector := int(math.Round(math.Mod(dirs[i], 360)/width)) % nsector
		if sector < 0 {
			sector += nsector
		}

		bin := 0
		for j := len(edges) - 1; j >= 0; j-- {
			if speeds[i] >= edges[j] {
				bin = j
				break
			}
		}

		counts[sector][bin]++
		rose.Total++
	}

	return rose, nil
}
