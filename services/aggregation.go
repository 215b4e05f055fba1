package services

import (
	"math"
	"sort"
)

const (
	// AggregationThreshold is the exact score count that triggers aggregation.
	AggregationThreshold = 5

	// TimeLimitSeconds is the performance length allowed before deductions start.
	TimeLimitSeconds = 190

	deductionBlockSeconds = 10
	deductionPerBlock     = 0.5
)

// TrimmedSum drops the lowest and highest of exactly AggregationThreshold
// values and returns the sum (not the mean) of the remaining three.
// ok is false for any other number of values.
func TrimmedSum(values []float64) (total float64, ok bool) {
	if len(values) != AggregationThreshold {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for _, v := range sorted[1 : len(sorted)-1] {
		total += v
	}
	return total, true
}

// TimeDeduction returns half a point for every full 10 seconds past the
// limit, or nil when the performance is within it.
func TimeDeduction(lengthSeconds int) *float64 {
	if lengthSeconds <= TimeLimitSeconds {
		return nil
	}
	blocks := math.Floor(float64(lengthSeconds-TimeLimitSeconds) / deductionBlockSeconds)
	d := blocks * deductionPerBlock
	return &d
}
