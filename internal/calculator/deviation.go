package calculator

import (
	"fmt"
	"math"

	"TrendScreener/internal/model"
)

// ScoreDeviation sums |window[i]/line[i] - 1| over the window and returns it
// as a percentage rounded to one decimal. The score grows with the window
// length, so only scores computed over equal lengths are comparable.
func ScoreDeviation(window, line []float64) (float64, error) {
	if len(window) != len(line) {
		return 0, fmt.Errorf("%w: window has %d points, line has %d", ErrDegenerateWindow, len(window), len(line))
	}
	if len(window) < 2 {
		return 0, fmt.Errorf("%w: %d point(s), need 2", ErrDegenerateWindow, len(window))
	}
	sum := 0.0
	for i, v := range window {
		if line[i] == 0 {
			return 0, fmt.Errorf("%w: reference line is 0 at index %d", ErrDivisionByZero, i)
		}
		sum += math.Abs(v/line[i] - 1)
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, fmt.Errorf("%w: non-finite deviation", ErrInvalidWindow)
	}
	return Round1(sum * 100), nil
}

// Score runs the window selection, reference line and deviation steps over
// series and returns the variation and deviation of the selected window.
func Score(series []float64, w model.WindowSpec) (variation, deviation float64, err error) {
	window, err := SelectWindow(series, w)
	if err != nil {
		return 0, 0, err
	}
	line, err := BuildReferenceLine(window)
	if err != nil {
		return 0, 0, err
	}
	variation, err = Variation(window)
	if err != nil {
		return 0, 0, err
	}
	deviation, err = ScoreDeviation(window, line)
	if err != nil {
		return 0, 0, err
	}
	return variation, deviation, nil
}
