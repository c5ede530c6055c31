package calculator

import (
	"fmt"
	"math"
)

// BuildReferenceLine returns the straight line through the first and last
// points of window, sampled at every index. Both endpoints equal the
// observed values exactly.
func BuildReferenceLine(window []float64) ([]float64, error) {
	if err := checkWindow(window); err != nil {
		return nil, err
	}
	m := len(window)
	first, last := window[0], window[m-1]
	slope := (last - first) / float64(m-1)

	line := make([]float64, m)
	for i := range line {
		line[i] = first + slope*float64(i)
	}
	line[m-1] = last
	return line, nil
}

// Variation returns the percent change from the first to the last point of
// window, rounded to one decimal.
func Variation(window []float64) (float64, error) {
	if err := checkWindow(window); err != nil {
		return 0, err
	}
	first, last := window[0], window[len(window)-1]
	pct := (last/first - 1) * 100
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return 0, fmt.Errorf("%w: variation overflows", ErrInvalidWindow)
	}
	return Round1(pct), nil
}

func checkWindow(window []float64) error {
	if len(window) < 2 {
		return fmt.Errorf("%w: %d point(s), need 2", ErrDegenerateWindow, len(window))
	}
	for i, v := range window {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite observation at index %d", ErrInvalidWindow, i)
		}
	}
	if window[0] == 0 {
		return fmt.Errorf("%w: first value of window is 0", ErrDivisionByZero)
	}
	return nil
}
