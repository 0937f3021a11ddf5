package spatial

import (
	"math"
)

// CircularMean calculates the mean of circular data (angles in radians)
func CircularMean(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}

	var sumSin, sumCos float64
	for _, angle := range angles {
		sumSin += math.Sin(angle)
		sumCos += math.Cos(angle)
	}

	return math.Atan2(sumSin, sumCos)
}

// CircularMeanDegrees calculates the mean of circular data in degrees,
// normalized to [0, 360)
func CircularMeanDegrees(angles []float64) float64 {
	radians := make([]float64, len(angles))
	for i, angle := range angles {
		radians[i] = angle * math.Pi / 180
	}
	meanDeg := CircularMean(radians) * 180 / math.Pi
	if meanDeg < 0 {
		meanDeg += 360
	}
	return meanDeg
}

// MeanResultantLength calculates the mean resultant length (R) of angles in
// radians. R ranges from 0 (uniform distribution) to 1 (all angles identical).
func MeanResultantLength(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}

	var sumSin, sumCos float64
	for _, angle := range angles {
		sumSin += math.Sin(angle)
		sumCos += math.Cos(angle)
	}

	return math.Sqrt(sumSin*sumSin+sumCos*sumCos) / float64(len(angles))
}
