package calculator

import (
	"errors"
)

// TrailingWindow returns the start index of the last size points of a
// series of length n. A window wider than the series covers all of it.
func TrailingWindow(n, size int) (int, error) {
	if size <= 0 {
		return 0, errors.New("window size must be positive")
	}
	if n == 0 {
		return 0, errors.New("no points provided")
	}
	start := n - size
	if start < 0 {
		start = 0
	}
	return start, nil
}

// ToFloats converts cumulative counts to float64 observations.
func ToFloats(counts []int64) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c)
	}
	return out
}
