package stats

// Bin is a single histogram bucket over [Lower, Upper)
// The last bin of a histogram is closed on both ends.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram partitions values into bins equal-width buckets covering
// [min, max]. Values equal to max fall into the last bin. When all values
// are identical the range is widened by 0.5 on each side so the counts
// still land in a well-formed bucket.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := Min(values), Max(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)

	result := make([]Bin, bins)
	for i := range result {
		result[i].Lower = lo + float64(i)*width
		result[i].Upper = lo + float64(i+1)*width
	}
	result[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		result[idx].Count++
	}

	return result
}
