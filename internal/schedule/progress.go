package schedule

import "math"

// Percentage computes completed/total as a whole percentage with half-up
// rounding. Zero total is 0 percent, never a division error.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
