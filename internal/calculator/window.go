package calculator

import (
	"fmt"

	"TrendScreener/internal/model"
)

// SelectWindow returns series[N-1+w.From : N+w.To] as a fresh slice.
// Both offsets count backward from the last observation and must satisfy
// From <= To <= 0. The result always holds at least two points.
func SelectWindow(series []float64, w model.WindowSpec) ([]float64, error) {
	if w.From > 0 || w.To > 0 {
		return nil, fmt.Errorf("%w: offsets must be <= 0 (desde=%d, hasta=%d)", ErrInvalidWindow, w.From, w.To)
	}
	if w.From > w.To {
		return nil, fmt.Errorf("%w: desde=%d is after hasta=%d", ErrInvalidWindow, w.From, w.To)
	}
	n := len(series)
	i1 := n - 1 + w.From
	i2 := n + w.To
	if i1 < 0 || i2 > n {
		return nil, fmt.Errorf("%w: range [%d:%d] outside series of length %d", ErrInvalidWindow, i1, i2, n)
	}
	if i2-i1 < 2 {
		return nil, fmt.Errorf("%w: range [%d:%d] holds %d point(s), need 2", ErrInvalidWindow, i1, i2, i2-i1)
	}
	out := make([]float64, i2-i1)
	copy(out, series[i1:i2])
	return out, nil
}

// Closes extracts close prices from bars, keeping their order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
