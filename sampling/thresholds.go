package sampling

import (
	"fmt"
	"math"

	"github.com/arloliu/subsample/types"
)

// sumTolerance absorbs float rounding in fraction sums such as 0.1+0.2+0.7.
const sumTolerance = 1e-9

// Thresholds returns the cumulative sums of fractions.
//
// Every fraction must be in (0, 1] and the total must not exceed 1 (within a
// tolerance of 1e-9). The result is strictly increasing, so partition ranges
// [threshold[i-1], threshold[i]) never overlap.
//
// Parameters:
//   - fractions: Partition spec, in partition order
//
// Returns:
//   - []float64: Cumulative thresholds, same length as fractions
//   - error: ErrInvalidConfiguration for an empty spec, an invalid fraction, or a sum above 1
//
// Example:
//
//	th, _ := sampling.Thresholds([]float64{0.01, 0.05})
//	// th == [0.01, 0.06]
func Thresholds(fractions []float64) ([]float64, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("%w: partition spec is empty", types.ErrInvalidConfiguration)
	}

	thresholds := make([]float64, len(fractions))
	sum := 0.0
	for i, f := range fractions {
		if math.IsNaN(f) || f <= 0 || f > 1 {
			return nil, fmt.Errorf("%w: fraction %d is %v, want a value in (0, 1]", types.ErrInvalidConfiguration, i, f)
		}
		sum += f
		thresholds[i] = sum
	}

	if sum > 1+sumTolerance {
		return nil, fmt.Errorf("%w: fractions sum to %v, want at most 1", types.ErrInvalidConfiguration, sum)
	}

	return thresholds, nil
}

// Bucket returns the first partition whose threshold exceeds u, or -1 when none does.
func Bucket(u float64, thresholds []float64) int {
	for i, t := range thresholds {
		if u < t {
			return i
		}
	}

	return -1
}
